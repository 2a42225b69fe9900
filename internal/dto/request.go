package dto

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=6,max=128"`
	Email    string `json:"email" binding:"required,email"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreatePodRequest creates a replication pod.
type CreatePodRequest struct {
	Name          string `json:"name" binding:"required,min=1,max=128"`
	CapacityBytes int64  `json:"capacity_bytes" binding:"required,gt=0"`

	EnableS3     bool `json:"enable_s3"`
	EnableWasabi bool `json:"enable_wasabi"`
	EnableOracle bool `json:"enable_oracle"`

	UseCustomS3     bool `json:"use_custom_s3"`
	UseCustomWasabi bool `json:"use_custom_wasabi"`
	UseCustomOracle bool `json:"use_custom_oracle"`

	PrimaryStorage   string `json:"primary_storage"`
	SecondaryStorage string `json:"secondary_storage"`
}

// UpsertCredentialRequest attaches custom provider credentials to a pod.
type UpsertCredentialRequest struct {
	Provider   string `json:"provider" binding:"required"`
	AccessKey  string `json:"access_key" binding:"required"`
	SecretKey  string `json:"secret_key" binding:"required"`
	BucketName string `json:"bucket_name" binding:"required"`
	Endpoint   string `json:"endpoint"`
	Region     string `json:"region"`
	Namespace  string `json:"namespace"`
}

// InitMultipartRequest starts a multipart upload session.
type InitMultipartRequest struct {
	PodID    uint64 `json:"pod_id" binding:"required"`
	FileName string `json:"file_name" binding:"required"`
	FileType string `json:"file_type" binding:"required"`
	FileSize int64  `json:"file_size" binding:"required,gt=0"`
}

// CompletedPartInfo is one finished part reported by the client.
type CompletedPartInfo struct {
	PartNumber int    `json:"part_number" binding:"required,gt=0"`
	ETag       string `json:"etag" binding:"required"`
}

// CompleteMultipartRequest finalizes a multipart session.
type CompleteMultipartRequest struct {
	FileID   uint64              `json:"file_id" binding:"required"`
	UploadID string              `json:"upload_id" binding:"required"`
	Parts    []CompletedPartInfo `json:"parts" binding:"required,min=1"`
}

// AbortMultipartRequest cancels a multipart session.
type AbortMultipartRequest struct {
	FileID   uint64 `json:"file_id" binding:"required"`
	UploadID string `json:"upload_id" binding:"required"`
}

// InitDirectUploadRequest asks for a presigned single PUT.
type InitDirectUploadRequest struct {
	PodID    uint64 `json:"pod_id" binding:"required"`
	FileName string `json:"file_name" binding:"required"`
	FileType string `json:"file_type" binding:"required"`
	FileSize int64  `json:"file_size" binding:"required,gt=0"`
}

// ConfirmDirectUploadRequest confirms the client finished its direct PUT.
type ConfirmDirectUploadRequest struct {
	FileID uint64 `json:"file_id" binding:"required"`
}
