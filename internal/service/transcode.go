package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"DumaVault/config"
	"DumaVault/internal/mq"
	"DumaVault/internal/repo"
	"DumaVault/model"
)

// Transcode task lifecycle states.
const (
	TranscodeStatusPending   = "pending"
	TranscodeStatusRunning   = "running"
	TranscodeStatusRetrying  = "retrying"
	TranscodeStatusCompleted = "completed"
	TranscodeStatusFailed    = "failed"
)

// TranscodeMessage is the payload sent to the transcode worker.
type TranscodeMessage struct {
	TaskID  uint64 `json:"task_id"`
	Attempt int    `json:"attempt"`
}

// EnqueueTranscode creates a transcode task for a video file and publishes it
// to the worker queue.
func EnqueueTranscode(fileID uint64) error {
	task := model.TranscodeTask{
		FileID:  fileID,
		Formats: strings.Join(config.AppConfig.TranscodeFormats, ","),
		Status:  TranscodeStatusPending,
	}
	if err := repo.Db.Create(&task).Error; err != nil {
		return err
	}
	body, err := json.Marshal(TranscodeMessage{TaskID: task.ID})
	if err != nil {
		markTranscodeTaskFailed(task.ID, err)
		return err
	}
	publisher, err := mq.GetPublisher()
	if err != nil {
		markTranscodeTaskFailed(task.ID, err)
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := publisher.PublishTask(ctx, body); err != nil {
		markTranscodeTaskFailed(task.ID, err)
		return err
	}
	return nil
}

func markTranscodeTaskFailed(taskID uint64, err error) {
	finishedAt := time.Now()
	_ = repo.Db.Model(&model.TranscodeTask{}).
		Where("id = ?", taskID).
		Updates(map[string]interface{}{
			"status":      TranscodeStatusFailed,
			"error_msg":   err.Error(),
			"finished_at": &finishedAt,
		}).Error
}
