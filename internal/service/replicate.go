package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"DumaVault/config"
	"DumaVault/internal/repo"
	"DumaVault/internal/storage"
	"DumaVault/model"
	"DumaVault/utils"
)

// errNoProviders is the terminal failure reason when a pod has nothing to
// replicate to.
const errNoProviders = "no storage providers enabled/available"

// replicateTarget is one provider destination for a replication run.
type replicateTarget struct {
	Provider storage.Provider
	Client   *storage.Client
}

// replicateResult is the outcome of uploading to one target.
type replicateResult struct {
	Provider storage.Provider
	URL      string
	Err      error
}

// resolvePodClient is swappable in tests.
var resolvePodClient = ClientForPod

// resolveTargets collects the clients for every provider the pod can use.
// Providers whose custom credentials are missing or broken are skipped with a
// log line rather than failing the whole run.
func resolveTargets(pod *model.StoragePod) []replicateTarget {
	var targets []replicateTarget
	for _, provider := range storage.Providers {
		if !providerEnabled(pod, provider) {
			continue
		}
		client, err := resolvePodClient(pod, provider)
		if err != nil {
			log.Printf("pod %d: skip provider %s: %v", pod.ID, provider, err)
			continue
		}
		targets = append(targets, replicateTarget{Provider: provider, Client: client})
	}
	return targets
}

// replicateToProviders fans the payload out to every target concurrently.
// Only the first target's stream is wrapped with the tracker so the reported
// percentage reflects a single transfer, not the sum of all copies.
func replicateToProviders(ctx context.Context, targets []replicateTarget, key, contentType string, data []byte, tracker *ProgressTracker) []replicateResult {
	results := make([]replicateResult, len(targets))
	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target replicateTarget) {
			defer wg.Done()
			var stream io.Reader = bytes.NewReader(data)
			if i == 0 && tracker != nil {
				stream = tracker.Wrap(stream)
			}
			err := target.Client.Store.PutObject(ctx, target.Client.Bucket, key, stream, int64(len(data)), storage.PutOptions{ContentType: contentType})
			results[i] = replicateResult{
				Provider: target.Provider,
				Err:      err,
			}
			if err == nil {
				results[i].URL = objectURL(target.Provider, target.Client.Bucket, key)
			}
		}(i, target)
	}
	wg.Wait()
	return results
}

// objectURL renders the canonical locator stored on the file row.
func objectURL(provider storage.Provider, bucket, key string) string {
	return fmt.Sprintf("%s://%s/%s", provider, bucket, key)
}

// ReplicateFile uploads a staged temp file to every provider the pod has
// available, then finalizes the file record. It runs detached from the
// request that staged the upload; a panic here must never take the process
// down.
func ReplicateFile(fileID, podID uint64, tmpPath string) {
	defer os.Remove(tmpPath)
	defer func() {
		if r := recover(); r != nil {
			log.Printf("replicate file %d panic: %v", fileID, r)
			markUploadFailed(fileID, fmt.Sprintf("internal error: %v", r))
		}
	}()

	ctx := context.Background()

	var file model.StoredFile
	if err := repo.Db.First(&file, fileID).Error; err != nil {
		log.Printf("replicate file %d: load record: %v", fileID, err)
		return
	}
	pod, err := GetPod(podID)
	if err != nil {
		markUploadFailed(fileID, err.Error())
		return
	}

	targets := resolveTargets(pod)
	if len(targets) == 0 {
		markUploadFailed(fileID, errNoProviders)
		notifyFailure(&file, errNoProviders)
		return
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		markUploadFailed(fileID, fmt.Sprintf("failed to read staged file: %v", err))
		return
	}

	tracker := NewProgressTracker(fileID, int64(len(data)))
	results := replicateToProviders(ctx, targets, file.StorageKey, file.FileType, data, tracker)
	tracker.Close()

	finalizeReplication(&file, results)
}

// replicationOutcome is the terminal decision for one replication run.
type replicationOutcome struct {
	Succeeded  bool
	Status     string
	Reason     string // terminal failure reason, empty on any success
	Failures   []string
	URLColumns map[string]string
}

// summarizeReplication reduces per-provider results to the record update. One
// success makes the upload count as done; failed_reason carries the
// aggregated errors only when every provider failed. Partial failures are
// reported to the caller for logging, never persisted.
func summarizeReplication(results []replicateResult, fileType string) replicationOutcome {
	out := replicationOutcome{URLColumns: map[string]string{}}
	for _, result := range results {
		if result.Err != nil {
			out.Failures = append(out.Failures, fmt.Sprintf("%s: %v", result.Provider, result.Err))
			continue
		}
		out.Succeeded = true
		out.URLColumns[string(result.Provider)+"_url"] = result.URL
	}
	if len(results) == 0 {
		out.Reason = errNoProviders
		return out
	}
	if !out.Succeeded {
		out.Reason = strings.Join(out.Failures, "; ")
		return out
	}
	out.Status = model.UploadStatusCompleted
	if strings.HasPrefix(fileType, "video/") {
		out.Status = model.UploadStatusProcessing
	}
	return out
}

// finalizeReplication writes the terminal state for a replication run.
func finalizeReplication(file *model.StoredFile, results []replicateResult) {
	outcome := summarizeReplication(results, file.FileType)

	if !outcome.Succeeded {
		markUploadFailed(file.ID, outcome.Reason)
		notifyFailure(file, outcome.Reason)
		return
	}

	for _, failure := range outcome.Failures {
		log.Printf("replicate file %d: partial failure: %s", file.ID, failure)
	}

	updates := map[string]interface{}{
		"upload_status":   outcome.Status,
		"upload_progress": 100,
	}
	for column, url := range outcome.URLColumns {
		updates[column] = url
	}
	if err := repo.Db.Model(&model.StoredFile{}).Where("id = ?", file.ID).Updates(updates).Error; err != nil {
		log.Printf("finalize file %d: %v", file.ID, err)
		return
	}

	if outcome.Status == model.UploadStatusProcessing {
		if err := EnqueueTranscode(file.ID); err != nil {
			log.Printf("enqueue transcode for file %d: %v", file.ID, err)
			repo.Db.Model(&model.StoredFile{}).
				Where("id = ?", file.ID).
				Update("upload_status", model.UploadStatusCompleted)
		}
	}
}

// notifyFailure mails the operator address when replication ends failed.
// Best effort, never blocks the caller on SMTP problems.
func notifyFailure(file *model.StoredFile, reason string) {
	to := config.AppConfig.NotifyEmail
	if to == "" {
		return
	}
	go func() {
		if err := utils.SendUploadFailedMail(to, file.FileName, reason); err != nil {
			log.Println("send failure mail:", err)
		}
	}()
}
