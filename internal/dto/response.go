package dto

import "time"

// LoginResponse carries the session token.
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
}

// FileInfo is the public view of a stored file.
type FileInfo struct {
	ID             uint64    `json:"id"`
	PodID          uint64    `json:"pod_id"`
	FileName       string    `json:"file_name"`
	FileType       string    `json:"file_type"`
	FileSize       int64     `json:"file_size"`
	UploadStatus   string    `json:"upload_status"`
	UploadProgress int       `json:"upload_progress"`
	FailedReason   string    `json:"failed_reason,omitempty"`
	S3URL          string    `json:"s3_url,omitempty"`
	WasabiURL      string    `json:"wasabi_url,omitempty"`
	OracleURL      string    `json:"oracle_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// PodInfo is the public view of a pod.
type PodInfo struct {
	ID               uint64    `json:"id"`
	Name             string    `json:"name"`
	CapacityBytes    int64     `json:"capacity_bytes"`
	EnableS3         bool      `json:"enable_s3"`
	EnableWasabi     bool      `json:"enable_wasabi"`
	EnableOracle     bool      `json:"enable_oracle"`
	PrimaryStorage   string    `json:"primary_storage,omitempty"`
	SecondaryStorage string    `json:"secondary_storage,omitempty"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
}

// PodUsageResponse reports pod quota consumption.
type PodUsageResponse struct {
	PodID          uint64  `json:"pod_id"`
	CapacityBytes  int64   `json:"capacity_bytes"`
	UsedBytes      int64   `json:"used_bytes"`
	AvailableBytes int64   `json:"available_bytes"`
	UsedPercent    float64 `json:"used_percent"`
	FileCount      int64   `json:"file_count"`
}

// ProviderStatus reports one provider's reachability for a pod.
type ProviderStatus struct {
	Provider  string `json:"provider"`
	Enabled   bool   `json:"enabled"`
	Custom    bool   `json:"custom"`
	Reachable bool   `json:"reachable"`
	Error     string `json:"error,omitempty"`
}

// PartUpload is one presigned part slot handed to the client.
type PartUpload struct {
	PartNumber int    `json:"part_number"`
	URL        string `json:"url"`
	Size       int64  `json:"size"`
}

// InitMultipartResponse describes the created multipart session.
type InitMultipartResponse struct {
	FileID     uint64       `json:"file_id"`
	UploadID   string       `json:"upload_id"`
	StorageKey string       `json:"storage_key"`
	PartSize   int64        `json:"part_size"`
	TotalParts int          `json:"total_parts"`
	Parts      []PartUpload `json:"parts"`
}

// InitDirectUploadResponse hands the client a presigned PUT URL.
type InitDirectUploadResponse struct {
	FileID     uint64 `json:"file_id"`
	StorageKey string `json:"storage_key"`
	UploadURL  string `json:"upload_url"`
}

// DownloadURLResponse carries a presigned GET.
type DownloadURLResponse struct {
	FileID   uint64 `json:"file_id"`
	Provider string `json:"provider"`
	URL      string `json:"url"`
}
