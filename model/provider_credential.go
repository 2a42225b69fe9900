package model

import "time"

type ProviderCredential struct {
	ID uint64 `gorm:"primaryKey" json:"id"`

	PodID uint64     `gorm:"column:pod_id;index;not null;uniqueIndex:uk_pod_provider,priority:1" json:"pod_id"`
	Pod   StoragePod `gorm:"foreignKey:PodID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	Provider string `gorm:"column:provider;size:32;not null;uniqueIndex:uk_pod_provider,priority:2" json:"provider"`

	AccessKey  string `gorm:"column:access_key;size:255;not null" json:"-"`
	SecretKey  string `gorm:"column:secret_key;size:255;not null" json:"-"`
	BucketName string `gorm:"column:bucket_name;size:255;not null" json:"bucket_name"`

	Endpoint  string `gorm:"column:endpoint;size:255" json:"endpoint,omitempty"`
	Region    string `gorm:"column:region;size:64" json:"region,omitempty"`
	Namespace string `gorm:"column:namespace;size:128" json:"namespace,omitempty"` // Oracle only

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (ProviderCredential) TableName() string {
	return "provider_credential"
}
