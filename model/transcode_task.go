package model

import "time"

type TranscodeTask struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	FileID uint64     `gorm:"column:file_id;index;not null" json:"file_id"`
	File   StoredFile `gorm:"foreignKey:FileID;references:ID" json:"-"`

	Formats string `gorm:"column:formats;size:255;not null" json:"formats"` // comma separated

	Status      string     `gorm:"column:status;type:varchar(32);index;not null" json:"status"`
	ErrorMsg    string     `gorm:"column:error_msg;type:text" json:"error_msg"`
	RetryCount  int        `gorm:"column:retry_count;default:0" json:"retry_count"`
	NextRetryAt *time.Time `gorm:"column:next_retry_at" json:"next_retry_at"`
	StartedAt   *time.Time `gorm:"column:started_at" json:"started_at"`
	FinishedAt  *time.Time `gorm:"column:finished_at" json:"finished_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (TranscodeTask) TableName() string {
	return "transcode_task"
}
