package model

import "time"

type StoragePod struct {
	ID uint64 `gorm:"primaryKey" json:"id"`

	Name string `gorm:"column:name;size:100;uniqueIndex;not null" json:"name"`

	CapacityBytes int64 `gorm:"column:capacity_bytes;not null" json:"capacity_bytes"`

	EnableS3     bool `gorm:"column:enable_s3;not null;default:false" json:"enable_s3"`
	EnableWasabi bool `gorm:"column:enable_wasabi;not null;default:false" json:"enable_wasabi"`
	EnableOracle bool `gorm:"column:enable_oracle;not null;default:false" json:"enable_oracle"`

	UseCustomS3     bool `gorm:"column:use_custom_s3;not null;default:false" json:"use_custom_s3"`
	UseCustomWasabi bool `gorm:"column:use_custom_wasabi;not null;default:false" json:"use_custom_wasabi"`
	UseCustomOracle bool `gorm:"column:use_custom_oracle;not null;default:false" json:"use_custom_oracle"`

	PrimaryStorage   string `gorm:"column:primary_storage;size:32;not null" json:"primary_storage"`
	SecondaryStorage string `gorm:"column:secondary_storage;size:32" json:"secondary_storage,omitempty"`

	CreatedBy uint64 `gorm:"column:created_by;not null" json:"created_by"`
	Creator   User   `gorm:"foreignKey:CreatedBy;references:ID" json:"-"`

	IsActive bool `gorm:"column:is_active;not null;default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (StoragePod) TableName() string {
	return "storage_pod"
}
