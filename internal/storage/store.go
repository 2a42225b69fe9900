package storage

import (
	"context"
	"io"
	"time"
)

// PutOptions describes upload options for object storage.
type PutOptions struct {
	ContentType string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	ObjectName string
	Size       int64
}

// CompletedPart is one finished part of a multipart upload.
type CompletedPart struct {
	PartNumber int
	ETag       string
}

// Store abstracts object storage operations for one provider endpoint.
type Store interface {
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts PutOptions) error
	GetObject(ctx context.Context, bucket, object string) (io.ReadCloser, ObjectInfo, error)
	StatObject(ctx context.Context, bucket, object string) (ObjectInfo, error)
	RemoveObject(ctx context.Context, bucket, object string) error
	BucketExists(ctx context.Context, bucket string) (bool, error)

	PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration, params map[string]string) (string, error)
	PresignedPutObject(ctx context.Context, bucket, object string, expiry time.Duration) (string, error)

	NewMultipartUpload(ctx context.Context, bucket, object string, opts PutOptions) (string, error)
	PresignedPartURL(ctx context.Context, bucket, object, uploadID string, partNumber int, expiry time.Duration) (string, error)
	CompleteMultipartUpload(ctx context.Context, bucket, object, uploadID string, parts []CompletedPart) error
	AbortMultipartUpload(ctx context.Context, bucket, object, uploadID string) error
}
