package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"DumaVault/config"
	"DumaVault/internal/mq"
	"DumaVault/internal/repo"
	"DumaVault/internal/service"
	"DumaVault/internal/task"
	"DumaVault/model"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

type dlqMessage struct {
	TaskID   uint64    `json:"task_id"`
	Attempt  int       `json:"attempt"`
	Error    string    `json:"error"`
	FailedAt time.Time `json:"failed_at"`
}

// RunTranscodeWorker consumes transcode tasks from RabbitMQ.
func RunTranscodeWorker(ctx context.Context) error {
	client, err := mq.Dial()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.DeclareTopology(); err != nil {
		return err
	}

	prefetch := config.AppConfig.RabbitMQPrefetch
	if prefetch <= 0 {
		prefetch = 1
	}
	if err := client.Channel.Qos(prefetch, 0, false); err != nil {
		return err
	}

	deliveries, err := client.Channel.Consume(
		mq.QueueTasks,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	concurrency := config.AppConfig.TranscodeWorkerConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)

	burst := config.AppConfig.TranscodeBurst
	if burst <= 0 {
		burst = 1
	}
	rateLimit := config.AppConfig.TranscodeRate
	var limiter *rate.Limiter
	if rateLimit <= 0 {
		limiter = rate.NewLimiter(rate.Inf, burst)
	} else {
		limiter = rate.NewLimiter(rate.Limit(rateLimit), burst)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("transcode worker: delivery channel closed")
			}
			sem <- struct{}{}
			go func(d amqp.Delivery) {
				defer func() { <-sem }()
				handleTranscodeMessage(ctx, client, limiter, d)
			}(delivery)
		}
	}
}

func handleTranscodeMessage(ctx context.Context, client *mq.Client, limiter *rate.Limiter, delivery amqp.Delivery) {
	var msg service.TranscodeMessage
	if err := json.Unmarshal(delivery.Body, &msg); err != nil {
		log.Printf("transcode worker: invalid message: %v", err)
		_ = delivery.Ack(false)
		return
	}

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			_ = delivery.Nack(false, true)
			return
		}
	}

	if err := task.ProcessTranscodeTask(ctx, msg.TaskID); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			_ = delivery.Nack(false, true)
			return
		}
		if shouldRetry(err) {
			if err := scheduleRetry(ctx, client, msg, err); err != nil {
				log.Printf("transcode worker: retry schedule failed: %v", err)
				_ = delivery.Nack(false, true)
				return
			}
		} else {
			if err := markFailed(ctx, client, msg, err); err != nil {
				log.Printf("transcode worker: mark failed failed: %v", err)
				_ = delivery.Nack(false, true)
				return
			}
		}
	}

	_ = delivery.Ack(false)
}

// shouldRetry decides whether a processing error is transient. Missing rows
// will never recover, everything else gets another attempt.
func shouldRetry(err error) bool {
	return !errors.Is(err, gorm.ErrRecordNotFound)
}

func scheduleRetry(ctx context.Context, client *mq.Client, msg service.TranscodeMessage, procErr error) error {
	maxRetry := config.AppConfig.TranscodeRetryMax
	if maxRetry < 0 {
		maxRetry = 0
	}
	nextAttempt := msg.Attempt + 1
	if maxRetry == 0 || nextAttempt > maxRetry {
		return markFailed(ctx, client, msg, procErr)
	}

	delay := pickRetryDelay(nextAttempt, config.AppConfig.TranscodeRetryDelays)
	nextRetryAt := time.Now().Add(delay)
	if err := repo.Db.Model(&model.TranscodeTask{}).
		Where("id = ?", msg.TaskID).
		Updates(map[string]interface{}{
			"status":        service.TranscodeStatusRetrying,
			"error_msg":     procErr.Error(),
			"retry_count":   nextAttempt,
			"next_retry_at": &nextRetryAt,
		}).Error; err != nil {
		return err
	}

	msg.Attempt = nextAttempt
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return client.PublishRetry(ctx, body, delay)
}

func markFailed(ctx context.Context, client *mq.Client, msg service.TranscodeMessage, procErr error) error {
	finishedAt := time.Now()
	if err := repo.Db.Model(&model.TranscodeTask{}).
		Where("id = ?", msg.TaskID).
		Updates(map[string]interface{}{
			"status":      service.TranscodeStatusFailed,
			"error_msg":   procErr.Error(),
			"finished_at": &finishedAt,
		}).Error; err != nil {
		return err
	}

	// A transcode failure is not a replication failure. The original copy is
	// intact, so the file falls back to completed without renditions.
	var transcodeTask model.TranscodeTask
	if repo.Db.Where("id = ?", msg.TaskID).First(&transcodeTask).Error == nil {
		repo.Db.Model(&model.StoredFile{}).
			Where("id = ? AND upload_status = ?", transcodeTask.FileID, model.UploadStatusProcessing).
			Update("upload_status", model.UploadStatusCompleted)
	}

	dlq := dlqMessage{
		TaskID:   msg.TaskID,
		Attempt:  msg.Attempt,
		Error:    procErr.Error(),
		FailedAt: finishedAt,
	}
	body, err := json.Marshal(dlq)
	if err != nil {
		return err
	}
	if err := client.PublishDLQ(ctx, body); err != nil {
		log.Printf("transcode worker: dlq publish failed: %v", err)
	}
	return nil
}

func pickRetryDelay(attempt int, delays []time.Duration) time.Duration {
	if len(delays) == 0 {
		return 0
	}
	index := attempt - 1
	if index < 0 {
		index = 0
	}
	if index >= len(delays) {
		return delays[len(delays)-1]
	}
	return delays[index]
}
