package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"DumaVault/config"
	"DumaVault/internal/dto"
	"DumaVault/internal/repo"
	"DumaVault/internal/storage"
	"DumaVault/model"
)

const abortedByUserReason = "Upload aborted by user"

// multipartClient resolves the single provider a multipart session runs
// against. Multipart uploads go to the pod's primary provider only; the
// client streams parts directly, so fan-out replication does not apply.
func multipartClient(pod *model.StoragePod) (storage.Provider, *storage.Client, error) {
	primary := storage.Provider(pod.PrimaryStorage)
	if pod.PrimaryStorage != "" && providerEnabled(pod, primary) {
		client, err := ClientForPod(pod, primary)
		if err == nil {
			return primary, client, nil
		}
		log.Printf("pod %d: primary %s unavailable for multipart: %v", pod.ID, primary, err)
	}
	for _, provider := range storage.Providers {
		if !providerEnabled(pod, provider) {
			continue
		}
		client, err := ClientForPod(pod, provider)
		if err != nil {
			continue
		}
		return provider, client, nil
	}
	return "", nil, errors.New(errNoProviders)
}

// InitiateMultipartUpload opens a multipart session, creates the tracking
// record, and presigns one upload URL per part.
func InitiateMultipartUpload(ctx context.Context, pod *model.StoragePod, userID uint64, req *dto.InitMultipartRequest) (*dto.InitMultipartResponse, error) {
	err := validateUpload(req.FileType, req.FileSize, config.AppConfig.AllowedFileTypes, config.AppConfig.MaxFileSizeBytes())
	if err != nil {
		return nil, err
	}
	if err := CheckPodCapacity(pod, req.FileSize); err != nil {
		return nil, err
	}

	_, client, err := multipartClient(pod)
	if err != nil {
		return nil, err
	}

	partSize := calculatePartSize(req.FileSize, config.AppConfig.MultipartMaxParts)
	totalParts := partCount(req.FileSize, partSize)

	key := BuildStorageKey(userID, req.FileName)
	uploadID, err := client.Store.NewMultipartUpload(ctx, client.Bucket, key, storage.PutOptions{ContentType: req.FileType})
	if err != nil {
		return nil, fmt.Errorf("initiate multipart upload: %w", err)
	}

	file := model.StoredFile{
		PodID:             pod.ID,
		UserID:            userID,
		FileName:          req.FileName,
		FileType:          req.FileType,
		FileSize:          req.FileSize,
		StorageKey:        key,
		UploadStatus:      model.UploadStatusPendingMultipart,
		MultipartUploadID: uploadID,
		TotalParts:        totalParts,
	}
	if err := repo.Db.Create(&file).Error; err != nil {
		abortErr := client.Store.AbortMultipartUpload(ctx, client.Bucket, key, uploadID)
		if abortErr != nil {
			log.Printf("abort orphaned multipart upload %s: %v", uploadID, abortErr)
		}
		return nil, err
	}

	parts, err := presignParts(ctx, client, key, uploadID, req.FileSize, partSize, totalParts)
	if err != nil {
		// Leave nothing behind: the provider session would otherwise linger
		// and the record would keep reserving quota.
		if abortErr := client.Store.AbortMultipartUpload(ctx, client.Bucket, key, uploadID); abortErr != nil {
			log.Printf("abort orphaned multipart upload %s: %v", uploadID, abortErr)
		}
		markUploadFailed(file.ID, err.Error())
		return nil, err
	}

	return &dto.InitMultipartResponse{
		FileID:     file.ID,
		UploadID:   uploadID,
		StorageKey: key,
		PartSize:   partSize,
		TotalParts: totalParts,
		Parts:      parts,
	}, nil
}

// presignParts issues one presigned upload URL per part, each carrying the
// exact byte count the client must send for it.
func presignParts(ctx context.Context, client *storage.Client, key, uploadID string, fileSize, partSize int64, totalParts int) ([]dto.PartUpload, error) {
	parts := make([]dto.PartUpload, 0, totalParts)
	remaining := fileSize
	for n := 1; n <= totalParts; n++ {
		size := partSize
		if remaining < size {
			size = remaining
		}
		url, err := client.Store.PresignedPartURL(ctx, client.Bucket, key, uploadID, n, config.AppConfig.PresignExpiry)
		if err != nil {
			return nil, fmt.Errorf("presign part %d: %w", n, err)
		}
		parts = append(parts, dto.PartUpload{PartNumber: n, URL: url, Size: size})
		remaining -= size
	}
	return parts, nil
}

// validateMultipartState checks that a file row is an open multipart session.
func validateMultipartState(file *model.StoredFile) error {
	if file.UploadStatus != model.UploadStatusPendingMultipart {
		return fmt.Errorf("file %d is not awaiting multipart completion (status %s)", file.ID, file.UploadStatus)
	}
	if file.MultipartUploadID == "" {
		return fmt.Errorf("file %d has no multipart upload session", file.ID)
	}
	return nil
}

// buildCompleteParts converts and orders the client-reported parts. Providers
// require ascending part numbers regardless of upload order.
func buildCompleteParts(reported []dto.CompletedPartInfo) []storage.CompletedPart {
	parts := make([]storage.CompletedPart, 0, len(reported))
	for _, p := range reported {
		parts = append(parts, storage.CompletedPart{PartNumber: p.PartNumber, ETag: p.ETag})
	}
	sort.Slice(parts, func(i, j int) bool {
		return parts[i].PartNumber < parts[j].PartNumber
	})
	return parts
}

// CompleteMultipartUpload finalizes a session after the client uploaded every
// part. Callers serialize completion per file with a Redis lock so double
// submits cannot race.
func CompleteMultipartUpload(ctx context.Context, file *model.StoredFile, uploadID string, reported []dto.CompletedPartInfo) error {
	if err := validateMultipartState(file); err != nil {
		return err
	}
	if uploadID != file.MultipartUploadID {
		return fmt.Errorf("upload id does not match the open session for file %d", file.ID)
	}
	if file.TotalParts > 0 && len(reported) != file.TotalParts {
		return fmt.Errorf("expected %d parts, got %d", file.TotalParts, len(reported))
	}

	pod, err := GetPod(file.PodID)
	if err != nil {
		return err
	}
	provider, client, err := multipartClient(pod)
	if err != nil {
		return err
	}

	parts := buildCompleteParts(reported)
	if err := client.Store.CompleteMultipartUpload(ctx, client.Bucket, file.StorageKey, file.MultipartUploadID, parts); err != nil {
		markUploadFailed(file.ID, fmt.Sprintf("complete multipart upload: %v", err))
		return fmt.Errorf("complete multipart upload: %w", err)
	}

	updates := map[string]interface{}{
		"upload_status":       model.UploadStatusCompleted,
		"upload_progress":     100,
		"multipart_upload_id": "",
	}
	switch provider {
	case storage.ProviderS3:
		updates["s3_url"] = objectURL(provider, client.Bucket, file.StorageKey)
	case storage.ProviderWasabi:
		updates["wasabi_url"] = objectURL(provider, client.Bucket, file.StorageKey)
	case storage.ProviderOracle:
		updates["oracle_url"] = objectURL(provider, client.Bucket, file.StorageKey)
	}
	return repo.Db.Model(&model.StoredFile{}).Where("id = ?", file.ID).Updates(updates).Error
}

// AbortMultipartUpload cancels a session. A mismatched upload id is rejected
// before any provider contact. The provider-side abort is best effort; the
// record moves to failed either way so quota is released.
func AbortMultipartUpload(ctx context.Context, file *model.StoredFile, uploadID string) error {
	if err := validateMultipartState(file); err != nil {
		return err
	}
	if uploadID != file.MultipartUploadID {
		return fmt.Errorf("upload id does not match the open session for file %d", file.ID)
	}
	pod, err := GetPod(file.PodID)
	if err == nil {
		if _, client, cerr := multipartClient(pod); cerr == nil {
			if aerr := client.Store.AbortMultipartUpload(ctx, client.Bucket, file.StorageKey, file.MultipartUploadID); aerr != nil {
				log.Printf("abort multipart upload %s: %v", file.MultipartUploadID, aerr)
			}
		}
	}
	markUploadFailed(file.ID, abortedByUserReason)
	return nil
}
