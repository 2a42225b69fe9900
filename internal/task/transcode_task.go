package task

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"DumaVault/config"
	"DumaVault/internal/repo"
	"DumaVault/internal/service"
	"DumaVault/internal/storage"
	"DumaVault/model"
)

// sourceClient picks the provider holding the original object and returns its
// client. The provider that actually stored a replica wins over pod config.
func sourceClient(pod *model.StoragePod, file *model.StoredFile) (*storage.Client, error) {
	urlOf := map[storage.Provider]string{
		storage.ProviderS3:     file.S3URL,
		storage.ProviderWasabi: file.WasabiURL,
		storage.ProviderOracle: file.OracleURL,
	}
	for _, provider := range storage.Providers {
		if urlOf[provider] == "" {
			continue
		}
		client, err := service.ClientForPod(pod, provider)
		if err != nil {
			log.Printf("transcode file %d: provider %s unavailable: %v", file.ID, provider, err)
			continue
		}
		return client, nil
	}
	return nil, fmt.Errorf("file %d has no reachable replica", file.ID)
}

// ProcessTranscodeTask downloads the original video, produces one rendition
// per configured format with ffmpeg, and uploads the renditions next to the
// original object. The file row moves from processing to completed when every
// rendition landed.
func ProcessTranscodeTask(ctx context.Context, taskID uint64) error {
	var transcodeTask model.TranscodeTask
	if err := repo.Db.Where("id = ?", taskID).First(&transcodeTask).Error; err != nil {
		return err
	}
	if transcodeTask.Status == service.TranscodeStatusCompleted {
		return nil
	}

	startedAt := time.Now()
	res := repo.Db.Model(&model.TranscodeTask{}).
		Where("id = ? AND status IN ?", taskID, []string{service.TranscodeStatusPending, service.TranscodeStatusRetrying}).
		Updates(map[string]interface{}{
			"status":     service.TranscodeStatusRunning,
			"started_at": &startedAt,
			"error_msg":  "",
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return nil
	}

	var file model.StoredFile
	if err := repo.Db.Where("id = ?", transcodeTask.FileID).First(&file).Error; err != nil {
		return err
	}
	pod, err := service.GetPod(file.PodID)
	if err != nil {
		return err
	}
	client, err := sourceClient(pod, &file)
	if err != nil {
		return err
	}

	srcPath, err := fetchOriginal(ctx, client, file.StorageKey)
	if err != nil {
		return err
	}
	defer os.Remove(srcPath)

	for _, format := range strings.Split(transcodeTask.Formats, ",") {
		format = strings.TrimSpace(format)
		if format == "" {
			continue
		}
		if err := transcodeAndUpload(ctx, client, srcPath, file.StorageKey, format); err != nil {
			return fmt.Errorf("rendition %s: %w", format, err)
		}
	}

	if err := repo.Db.Model(&model.StoredFile{}).
		Where("id = ? AND upload_status = ?", file.ID, model.UploadStatusProcessing).
		Update("upload_status", model.UploadStatusCompleted).Error; err != nil {
		return err
	}

	finishedAt := time.Now()
	return repo.Db.Model(&transcodeTask).Updates(map[string]interface{}{
		"status":      service.TranscodeStatusCompleted,
		"finished_at": &finishedAt,
	}).Error
}

// fetchOriginal streams the stored object to a local temp file.
func fetchOriginal(ctx context.Context, client *storage.Client, key string) (string, error) {
	reader, _, err := client.Store.GetObject(ctx, client.Bucket, key)
	if err != nil {
		return "", err
	}
	defer reader.Close()

	tmp, err := os.CreateTemp("", "vault-transcode-*")
	if err != nil {
		return "", err
	}
	_, err = io.Copy(tmp, reader)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// transcodeAndUpload runs ffmpeg for one output format and uploads the result
// alongside the original key.
func transcodeAndUpload(ctx context.Context, client *storage.Client, srcPath, key, format string) error {
	outPath := srcPath + "." + format
	defer os.Remove(outPath)

	cmd := exec.CommandContext(ctx, config.AppConfig.FFmpegPath, "-y", "-i", srcPath, outPath)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg: %v: %s", err, tail(string(output), 512))
	}

	out, err := os.Open(outPath)
	if err != nil {
		return err
	}
	defer out.Close()
	info, err := out.Stat()
	if err != nil {
		return err
	}

	renditionKey := renditionKeyFor(key, format)
	return client.Store.PutObject(ctx, client.Bucket, renditionKey, out, info.Size(), storage.PutOptions{
		ContentType: "video/" + format,
	})
}

// renditionKeyFor places renditions beside the original object.
func renditionKeyFor(key, format string) string {
	ext := filepath.Ext(key)
	base := strings.TrimSuffix(key, ext)
	return fmt.Sprintf("%s.%s.%s", base, "transcoded", format)
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
