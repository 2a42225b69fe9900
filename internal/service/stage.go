package service

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"DumaVault/config"
	"DumaVault/internal/repo"
	"DumaVault/model"
	"DumaVault/utils"
)

const spoolChunkSize = 8 * mib

// validateUpload checks the declared content type and size against the
// configured limits. A zero max size means unlimited.
func validateUpload(fileType string, fileSize int64, allowed []string, maxBytes int64) error {
	if fileSize <= 0 {
		return fmt.Errorf("invalid file size: %d", fileSize)
	}
	if maxBytes > 0 && fileSize > maxBytes {
		return fmt.Errorf("file size %d exceeds limit of %d bytes", fileSize, maxBytes)
	}
	if len(allowed) == 0 {
		return nil
	}
	for _, t := range allowed {
		if strings.EqualFold(strings.TrimSpace(t), strings.TrimSpace(fileType)) {
			return nil
		}
	}
	return fmt.Errorf("file type %s is not allowed", fileType)
}

// BuildStorageKey derives the object key for a new upload. Keys are prefixed
// by owner and date so provider buckets stay navigable.
func BuildStorageKey(userID uint64, fileName string) string {
	now := time.Now().UTC()
	return fmt.Sprintf("%d/%s/%s/%s",
		userID,
		now.Format("2006/01/02"),
		utils.GetToken(),
		utils.SanitizeFilename(fileName),
	)
}

// StageUpload validates an incoming upload, reserves capacity by creating the
// file record, spools the request body to a temp file, and detaches the
// replication goroutine. It returns as soon as the body is fully spooled;
// clients poll the record for replication progress.
func StageUpload(pod *model.StoragePod, userID uint64, fileName, fileType string, fileSize int64, body io.Reader) (*model.StoredFile, error) {
	err := validateUpload(fileType, fileSize, config.AppConfig.AllowedFileTypes, config.AppConfig.MaxFileSizeBytes())
	if err != nil {
		return nil, err
	}
	if err := CheckPodCapacity(pod, fileSize); err != nil {
		return nil, err
	}

	file := model.StoredFile{
		PodID:        pod.ID,
		UserID:       userID,
		FileName:     fileName,
		FileType:     fileType,
		FileSize:     fileSize,
		StorageKey:   BuildStorageKey(userID, fileName),
		UploadStatus: model.UploadStatusUploading,
	}
	if err := repo.Db.Create(&file).Error; err != nil {
		return nil, err
	}

	tmpPath, err := spoolToTemp(body, fileSize)
	if err != nil {
		markUploadFailed(file.ID, fmt.Sprintf("failed to stage upload: %v", err))
		return nil, err
	}

	go ReplicateFile(file.ID, pod.ID, tmpPath)

	return &file, nil
}

// spoolToTemp copies the request body to a temp file in fixed-size chunks and
// verifies the byte count matches the declared size.
func spoolToTemp(body io.Reader, expected int64) (string, error) {
	tmp, err := os.CreateTemp("", "vault-stage-*")
	if err != nil {
		return "", err
	}
	written, err := io.CopyBuffer(tmp, io.LimitReader(body, expected), make([]byte, spoolChunkSize))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil && written != expected {
		err = fmt.Errorf("short upload body: got %d bytes, declared %d", written, expected)
	}
	if err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// markUploadFailed records a terminal failure on the file row. Best effort.
func markUploadFailed(fileID uint64, reason string) {
	repo.Db.Model(&model.StoredFile{}).
		Where("id = ?", fileID).
		Updates(map[string]interface{}{
			"upload_status": model.UploadStatusFailed,
			"failed_reason": reason,
		})
}
