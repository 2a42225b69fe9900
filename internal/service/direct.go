package service

import (
	"context"
	"fmt"

	"DumaVault/config"
	"DumaVault/internal/dto"
	"DumaVault/internal/repo"
	"DumaVault/model"
)

// InitiateDirectUpload presigns a single PUT so the client can push the
// object to the pod's primary provider without proxying through this
// service. The record stays pending until the client confirms.
func InitiateDirectUpload(ctx context.Context, pod *model.StoragePod, userID uint64, req *dto.InitDirectUploadRequest) (*dto.InitDirectUploadResponse, error) {
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

	key := BuildStorageKey(userID, req.FileName)
	uploadURL, err := client.Store.PresignedPutObject(ctx, client.Bucket, key, config.AppConfig.PresignExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	file := model.StoredFile{
		PodID:        pod.ID,
		UserID:       userID,
		FileName:     req.FileName,
		FileType:     req.FileType,
		FileSize:     req.FileSize,
		StorageKey:   key,
		UploadStatus: model.UploadStatusPending,
	}
	if err := repo.Db.Create(&file).Error; err != nil {
		return nil, err
	}

	return &dto.InitDirectUploadResponse{
		FileID:     file.ID,
		StorageKey: key,
		UploadURL:  uploadURL,
	}, nil
}

// ConfirmDirectUpload verifies the object landed and finalizes the record.
// If the object is absent the record stays pending so the client can retry
// its PUT with the same URL.
func ConfirmDirectUpload(ctx context.Context, file *model.StoredFile) error {
	if file.UploadStatus != model.UploadStatusPending {
		return fmt.Errorf("file %d is not awaiting confirmation (status %s)", file.ID, file.UploadStatus)
	}

	pod, err := GetPod(file.PodID)
	if err != nil {
		return err
	}
	provider, client, err := multipartClient(pod)
	if err != nil {
		return err
	}

	info, err := client.Store.StatObject(ctx, client.Bucket, file.StorageKey)
	if err != nil {
		return fmt.Errorf("object not found at provider, upload not finished: %w", err)
	}

	updates := map[string]interface{}{
		"upload_status":   model.UploadStatusCompleted,
		"upload_progress": 100,
	}
	if info.Size > 0 && info.Size != file.FileSize {
		updates["file_size"] = info.Size
	}
	urlColumn := string(provider) + "_url"
	updates[urlColumn] = objectURL(provider, client.Bucket, file.StorageKey)

	return repo.Db.Model(&model.StoredFile{}).Where("id = ?", file.ID).Updates(updates).Error
}
