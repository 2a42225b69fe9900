package service

import (
	"io"
	"log"
	"sync"
	"time"

	"DumaVault/internal/repo"
	"DumaVault/model"
)

const (
	progressStepPercent = 5
	progressMinInterval = time.Second
)

// ProgressTracker accumulates transferred bytes for one file and publishes
// throttled percentage updates. The storage SDK reads the wrapped stream on
// its own goroutine, so updates are handed to a single updater goroutine over
// a channel instead of touching the database from the transfer path.
type ProgressTracker struct {
	fileID uint64
	total  int64

	mu          sync.Mutex
	transferred int64
	lastPercent int
	lastPublish time.Time
	finalSent   bool

	updates chan int
	done    chan struct{}
	closed  bool

	// test seams
	publish func(fileID uint64, percent int)
	now     func() time.Time
}

// NewProgressTracker starts a tracker for a file of the given total size.
func NewProgressTracker(fileID uint64, total int64) *ProgressTracker {
	t := &ProgressTracker{
		fileID:  fileID,
		total:   total,
		updates: make(chan int, 32),
		done:    make(chan struct{}),
		publish: publishProgress,
		now:     time.Now,
	}
	go t.run()
	return t
}

func (t *ProgressTracker) run() {
	defer close(t.done)
	for percent := range t.updates {
		t.publish(t.fileID, percent)
	}
}

// Wrap returns a reader that counts bytes as they flow through.
func (t *ProgressTracker) Wrap(r io.Reader) io.Reader {
	return &countingReader{r: r, t: t}
}

// Add records n transferred bytes and queues an update when the throttle
// allows. Updates fire when progress advanced at least progressStepPercent
// and progressMinInterval elapsed since the last publish. 100 percent always
// fires, exactly once.
func (t *ProgressTracker) Add(n int64) {
	if n <= 0 || t.total <= 0 {
		return
	}
	t.mu.Lock()
	t.transferred += n
	percent := int(t.transferred * 100 / t.total)
	if percent > 100 {
		percent = 100
	}

	now := t.now()
	var send bool
	if percent == 100 {
		send = !t.finalSent
		t.finalSent = send || t.finalSent
	} else {
		send = percent >= t.lastPercent+progressStepPercent &&
			now.Sub(t.lastPublish) >= progressMinInterval
	}
	if send {
		t.lastPercent = percent
		t.lastPublish = now
	}
	t.mu.Unlock()

	if !send {
		return
	}
	if percent == 100 {
		// The terminal update must land; the updater is draining, so a
		// blocking send cannot stall for long.
		t.updates <- percent
		return
	}
	select {
	case t.updates <- percent:
	default:
		log.Printf("progress update for file %d dropped (queue full)", t.fileID)
	}
}

// Close flushes pending updates and stops the updater goroutine. Safe to call
// once per tracker.
func (t *ProgressTracker) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	t.mu.Unlock()
	close(t.updates)
	<-t.done
}

type countingReader struct {
	r io.Reader
	t *ProgressTracker
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.t.Add(int64(n))
	}
	return n, err
}

// publishProgress writes the percentage to the file row. The guard keeps
// progress monotonic even if updates land out of order.
func publishProgress(fileID uint64, percent int) {
	err := repo.Db.Model(&model.StoredFile{}).
		Where("id = ? AND upload_progress < ?", fileID, percent).
		Update("upload_progress", percent).Error
	if err != nil {
		log.Println("update progress fail:", err)
	}
}
