package model

import "time"

// Upload lifecycle states for a StoredFile.
const (
	UploadStatusPending          = "pending"
	UploadStatusUploading        = "uploading"
	UploadStatusPendingMultipart = "pending_multipart"
	UploadStatusProcessing       = "processing"
	UploadStatusCompleted        = "completed"
	UploadStatusFailed           = "failed"
)

type StoredFile struct {
	ID uint64 `gorm:"primaryKey" json:"id"`

	PodID uint64     `gorm:"column:pod_id;index;not null" json:"pod_id"`
	Pod   StoragePod `gorm:"foreignKey:PodID;references:ID" json:"-"`

	UserID uint64 `gorm:"column:user_id;index;not null" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID;references:ID" json:"-"`

	FileName string `gorm:"column:file_name;size:255;not null" json:"file_name"`
	FileType string `gorm:"column:file_type;size:128;not null" json:"file_type"`
	FileSize int64  `gorm:"column:file_size;not null" json:"file_size"`

	StorageKey string `gorm:"column:storage_key;size:512" json:"storage_key,omitempty"`

	UploadStatus   string `gorm:"column:upload_status;size:32;index;not null;default:pending" json:"upload_status"`
	UploadProgress int    `gorm:"column:upload_progress;not null;default:0" json:"upload_progress"`
	FailedReason   string `gorm:"column:failed_reason;type:text" json:"failed_reason,omitempty"`

	S3URL     string `gorm:"column:s3_url;size:1024" json:"s3_url,omitempty"`
	WasabiURL string `gorm:"column:wasabi_url;size:1024" json:"wasabi_url,omitempty"`
	OracleURL string `gorm:"column:oracle_url;size:1024" json:"oracle_url,omitempty"`

	MultipartUploadID string `gorm:"column:multipart_upload_id;size:255" json:"multipart_upload_id,omitempty"`
	TotalParts        int    `gorm:"column:total_parts;default:0" json:"total_parts,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (StoredFile) TableName() string {
	return "stored_file"
}
