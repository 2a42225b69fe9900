package service

import (
	"bytes"
	"io"
	"sync"
	"testing"
	"time"
)

// newTestTracker builds a tracker with a controllable clock and an in-memory
// publish sink.
func newTestTracker(total int64) (*ProgressTracker, *[]int, *sync.Mutex, *time.Time) {
	var mu sync.Mutex
	published := &[]int{}
	clock := time.Unix(0, 0)

	t := &ProgressTracker{
		fileID:  1,
		total:   total,
		updates: make(chan int, 32),
		done:    make(chan struct{}),
	}
	t.publish = func(fileID uint64, percent int) {
		mu.Lock()
		*published = append(*published, percent)
		mu.Unlock()
	}
	t.now = func() time.Time { return clock }
	go t.run()
	return t, published, &mu, &clock
}

func TestProgressTrackerThrottles(t *testing.T) {
	tracker, published, mu, clock := newTestTracker(1000)

	// First chunk after the interval elapses publishes.
	*clock = clock.Add(2 * time.Second)
	tracker.Add(100) // 10%

	// More bytes immediately after stay silent despite the percent step.
	tracker.Add(100) // 20%, but no time elapsed

	// Advancing the clock lets the next step through.
	*clock = clock.Add(2 * time.Second)
	tracker.Add(100) // 30%

	tracker.Close()

	mu.Lock()
	defer mu.Unlock()
	want := []int{10, 30}
	if len(*published) != len(want) {
		t.Fatalf("published %v, want %v", *published, want)
	}
	for i := range want {
		if (*published)[i] != want[i] {
			t.Fatalf("published %v, want %v", *published, want)
		}
	}
}

func TestProgressTrackerFirstStepHonorsThreshold(t *testing.T) {
	tracker, published, mu, clock := newTestTracker(1000)

	// 4% is below the step threshold even for the very first update.
	*clock = clock.Add(2 * time.Second)
	tracker.Add(40)

	// 5% crosses it.
	*clock = clock.Add(2 * time.Second)
	tracker.Add(10)
	tracker.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(*published) != 1 || (*published)[0] != 5 {
		t.Fatalf("published %v, want [5]", *published)
	}
}

func TestProgressTrackerFinalAlwaysFires(t *testing.T) {
	tracker, published, mu, _ := newTestTracker(100)

	// Jump straight to 100% with no time elapsed. The throttle must not
	// swallow the terminal update.
	tracker.Add(100)
	tracker.Add(0)
	tracker.Close()

	mu.Lock()
	defer mu.Unlock()
	count := 0
	for _, p := range *published {
		if p == 100 {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("final update fired %d times, want exactly once (published %v)", count, *published)
	}
}

func TestProgressTrackerMonotonic(t *testing.T) {
	tracker, published, mu, clock := newTestTracker(1000)
	for i := 0; i < 10; i++ {
		*clock = clock.Add(2 * time.Second)
		tracker.Add(100)
	}
	tracker.Close()

	mu.Lock()
	defer mu.Unlock()
	last := -1
	for _, p := range *published {
		if p <= last {
			t.Fatalf("progress went backwards: %v", *published)
		}
		last = p
	}
	if last != 100 {
		t.Fatalf("final published percent = %d, want 100 (published %v)", last, *published)
	}
}

func TestCountingReaderCountsBytes(t *testing.T) {
	tracker, published, mu, clock := newTestTracker(10)
	*clock = clock.Add(2 * time.Second)

	data := bytes.Repeat([]byte("x"), 10)
	wrapped := tracker.Wrap(bytes.NewReader(data))
	out, err := io.ReadAll(wrapped)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 10 {
		t.Fatalf("read %d bytes, want 10", len(out))
	}
	tracker.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(*published) == 0 || (*published)[len(*published)-1] != 100 {
		t.Fatalf("expected a final 100, published %v", *published)
	}
}

func TestProgressTrackerCloseIsIdempotent(t *testing.T) {
	tracker, _, _, _ := newTestTracker(100)
	tracker.Close()
	tracker.Close()
}
