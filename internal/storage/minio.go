package storage

import (
	"context"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore implements Store with a MinIO core client. All supported
// providers (AWS S3, Wasabi, Oracle Object Storage) speak the S3 API.
type MinioStore struct {
	core *minio.Core
}

// NewMinioStore builds a Store for one S3-compatible endpoint.
func NewMinioStore(endpoint, accessKey, secretKey, region string, useSSL bool) (*MinioStore, error) {
	core, err := minio.NewCore(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStore{core: core}, nil
}

// PutObject uploads an object.
func (s *MinioStore) PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts PutOptions) error {
	_, err := s.core.Client.PutObject(ctx, bucket, object, reader, size, minio.PutObjectOptions{
		ContentType: opts.ContentType,
	})
	return err
}

// GetObject fetches an object and its size.
func (s *MinioStore) GetObject(ctx context.Context, bucket, object string) (io.ReadCloser, ObjectInfo, error) {
	obj, err := s.core.Client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	stat, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, ObjectInfo{}, err
	}
	return obj, ObjectInfo{ObjectName: object, Size: stat.Size}, nil
}

// StatObject checks object existence and returns its metadata.
func (s *MinioStore) StatObject(ctx context.Context, bucket, object string) (ObjectInfo, error) {
	stat, err := s.core.Client.StatObject(ctx, bucket, object, minio.StatObjectOptions{})
	if err != nil {
		return ObjectInfo{}, err
	}
	return ObjectInfo{ObjectName: object, Size: stat.Size}, nil
}

// RemoveObject deletes an object.
func (s *MinioStore) RemoveObject(ctx context.Context, bucket, object string) error {
	return s.core.Client.RemoveObject(ctx, bucket, object, minio.RemoveObjectOptions{})
}

// BucketExists reports bucket reachability with the configured credentials.
func (s *MinioStore) BucketExists(ctx context.Context, bucket string) (bool, error) {
	return s.core.Client.BucketExists(ctx, bucket)
}

// PresignedGetObject returns a presigned download URL, optionally with
// response header overrides.
func (s *MinioStore) PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration, params map[string]string) (string, error) {
	values := url.Values{}
	for key, value := range params {
		if value == "" {
			continue
		}
		values.Set(key, value)
	}
	u, err := s.core.Client.PresignedGetObject(ctx, bucket, object, expiry, values)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// PresignedPutObject returns a presigned URL for a direct PUT upload.
func (s *MinioStore) PresignedPutObject(ctx context.Context, bucket, object string, expiry time.Duration) (string, error) {
	u, err := s.core.Client.PresignedPutObject(ctx, bucket, object, expiry)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// NewMultipartUpload opens a provider-side multipart session.
func (s *MinioStore) NewMultipartUpload(ctx context.Context, bucket, object string, opts PutOptions) (string, error) {
	return s.core.NewMultipartUpload(ctx, bucket, object, minio.PutObjectOptions{
		ContentType: opts.ContentType,
	})
}

// PresignedPartURL returns a presigned URL for uploading one part of a
// multipart session.
func (s *MinioStore) PresignedPartURL(ctx context.Context, bucket, object, uploadID string, partNumber int, expiry time.Duration) (string, error) {
	values := url.Values{}
	values.Set("uploadId", uploadID)
	values.Set("partNumber", strconv.Itoa(partNumber))
	u, err := s.core.Client.Presign(ctx, "PUT", bucket, object, expiry, values)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// CompleteMultipartUpload finalizes a multipart session. Parts must already
// be sorted ascending by part number.
func (s *MinioStore) CompleteMultipartUpload(ctx context.Context, bucket, object, uploadID string, parts []CompletedPart) error {
	completeParts := make([]minio.CompletePart, 0, len(parts))
	for _, part := range parts {
		completeParts = append(completeParts, minio.CompletePart{
			PartNumber: part.PartNumber,
			ETag:       part.ETag,
		})
	}
	_, err := s.core.CompleteMultipartUpload(ctx, bucket, object, uploadID, completeParts, minio.PutObjectOptions{})
	return err
}

// AbortMultipartUpload discards an open multipart session and its parts.
func (s *MinioStore) AbortMultipartUpload(ctx context.Context, bucket, object, uploadID string) error {
	return s.core.AbortMultipartUpload(ctx, bucket, object, uploadID)
}
