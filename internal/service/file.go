package service

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/context"

	"DumaVault/config"
	"DumaVault/internal/dto"
	"DumaVault/internal/repo"
	"DumaVault/internal/storage"
	"DumaVault/model"
	"DumaVault/utils"

	"gorm.io/gorm"
)

// GetFile loads a file owned by the user.
func GetFile(fileID, userID uint64) (*model.StoredFile, error) {
	var file model.StoredFile
	err := repo.Db.Where("id = ? AND user_id = ?", fileID, userID).First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("file %d not found", fileID)
		}
		return nil, err
	}
	return &file, nil
}

// ListFiles pages through a user's files in a pod, newest first.
func ListFiles(podID, userID uint64, page, pageSize int) ([]model.StoredFile, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}
	query := repo.Db.Model(&model.StoredFile{}).
		Where("pod_id = ? AND user_id = ?", podID, userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var files []model.StoredFile
	err := query.Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&files).Error
	return files, total, err
}

// FileInfoOf converts a model row to its public view.
func FileInfoOf(file *model.StoredFile) dto.FileInfo {
	return dto.FileInfo{
		ID:             file.ID,
		PodID:          file.PodID,
		FileName:       file.FileName,
		FileType:       file.FileType,
		FileSize:       file.FileSize,
		UploadStatus:   file.UploadStatus,
		UploadProgress: file.UploadProgress,
		FailedReason:   file.FailedReason,
		S3URL:          file.S3URL,
		WasabiURL:      file.WasabiURL,
		OracleURL:      file.OracleURL,
		CreatedAt:      file.CreatedAt,
	}
}

// downloadSource picks the provider to serve a download from. The pod's
// primary wins when its copy exists, otherwise the first provider holding a
// replica.
func downloadSource(pod *model.StoragePod, file *model.StoredFile) (storage.Provider, error) {
	urlOf := func(p storage.Provider) string {
		switch p {
		case storage.ProviderS3:
			return file.S3URL
		case storage.ProviderWasabi:
			return file.WasabiURL
		case storage.ProviderOracle:
			return file.OracleURL
		}
		return ""
	}
	primary := storage.Provider(pod.PrimaryStorage)
	if urlOf(primary) != "" {
		return primary, nil
	}
	for _, p := range storage.Providers {
		if urlOf(p) != "" {
			return p, nil
		}
	}
	return "", errors.New("file has no stored replicas")
}

// PresignedDownloadURL issues a presigned GET for a completed file.
func PresignedDownloadURL(ctx context.Context, file *model.StoredFile) (*dto.DownloadURLResponse, error) {
	if file.UploadStatus != model.UploadStatusCompleted && file.UploadStatus != model.UploadStatusProcessing {
		return nil, fmt.Errorf("file %d is not ready for download (status %s)", file.ID, file.UploadStatus)
	}
	pod, err := GetPod(file.PodID)
	if err != nil {
		return nil, err
	}
	provider, err := downloadSource(pod, file)
	if err != nil {
		return nil, err
	}
	client, err := ClientForPod(pod, provider)
	if err != nil {
		return nil, err
	}
	params := map[string]string{
		"response-content-disposition": fmt.Sprintf(`attachment; filename="%s"`, utils.SanitizeHeaderFilename(file.FileName)),
	}
	if file.FileType != "" && !strings.Contains(file.FileType, ",") {
		params["response-content-type"] = file.FileType
	}
	url, err := client.Store.PresignedGetObject(ctx, client.Bucket, file.StorageKey, config.AppConfig.PresignExpiry, params)
	if err != nil {
		return nil, fmt.Errorf("presign download: %w", err)
	}
	return &dto.DownloadURLResponse{
		FileID:   file.ID,
		Provider: string(provider),
		URL:      url,
	}, nil
}
