package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"DumaVault/internal/storage"
	"DumaVault/model"
)

// fakeStore is an in-memory Store for replication tests. Writes fail when
// failPut is set; part presigning fails from call failPresignAt on.
type fakeStore struct {
	mu            sync.Mutex
	objects       map[string][]byte
	failPut       error
	failPresignAt int
	presignCalls  int
	aborts        int
	putCalls      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (f *fakeStore) PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts storage.PutOptions) error {
	f.mu.Lock()
	f.putCalls++
	f.mu.Unlock()
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	if f.failPut != nil {
		return f.failPut
	}
	f.mu.Lock()
	f.objects[bucket+"/"+object] = data
	f.mu.Unlock()
	return nil
}

func (f *fakeStore) GetObject(ctx context.Context, bucket, object string) (io.ReadCloser, storage.ObjectInfo, error) {
	return nil, storage.ObjectInfo{}, errors.New("not implemented")
}

func (f *fakeStore) StatObject(ctx context.Context, bucket, object string) (storage.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[bucket+"/"+object]
	if !ok {
		return storage.ObjectInfo{}, errors.New("object not found")
	}
	return storage.ObjectInfo{ObjectName: object, Size: int64(len(data))}, nil
}

func (f *fakeStore) RemoveObject(ctx context.Context, bucket, object string) error { return nil }

func (f *fakeStore) BucketExists(ctx context.Context, bucket string) (bool, error) { return true, nil }

func (f *fakeStore) PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration, params map[string]string) (string, error) {
	return "https://example.test/get/" + object, nil
}

func (f *fakeStore) PresignedPutObject(ctx context.Context, bucket, object string, expiry time.Duration) (string, error) {
	return "https://example.test/put/" + object, nil
}

func (f *fakeStore) NewMultipartUpload(ctx context.Context, bucket, object string, opts storage.PutOptions) (string, error) {
	return "upload-1", nil
}

func (f *fakeStore) PresignedPartURL(ctx context.Context, bucket, object, uploadID string, partNumber int, expiry time.Duration) (string, error) {
	f.mu.Lock()
	f.presignCalls++
	calls := f.presignCalls
	f.mu.Unlock()
	if f.failPresignAt > 0 && calls >= f.failPresignAt {
		return "", errors.New("presign refused")
	}
	return fmt.Sprintf("https://example.test/part/%s/%d", object, partNumber), nil
}

func (f *fakeStore) CompleteMultipartUpload(ctx context.Context, bucket, object, uploadID string, parts []storage.CompletedPart) error {
	return nil
}

func (f *fakeStore) AbortMultipartUpload(ctx context.Context, bucket, object, uploadID string) error {
	f.mu.Lock()
	f.aborts++
	f.mu.Unlock()
	return nil
}

func TestReplicateToProvidersAllSucceed(t *testing.T) {
	s3 := newFakeStore()
	wasabi := newFakeStore()
	targets := []replicateTarget{
		{Provider: storage.ProviderS3, Client: &storage.Client{Store: s3, Bucket: "bucket-a"}},
		{Provider: storage.ProviderWasabi, Client: &storage.Client{Store: wasabi, Bucket: "bucket-b"}},
	}
	data := []byte("payload")
	results := replicateToProviders(context.Background(), targets, "k/file.bin", "application/octet-stream", data, nil)

	for _, result := range results {
		if result.Err != nil {
			t.Fatalf("provider %s failed: %v", result.Provider, result.Err)
		}
	}
	if results[0].URL != "s3://bucket-a/k/file.bin" {
		t.Fatalf("s3 url = %s", results[0].URL)
	}
	if results[1].URL != "wasabi://bucket-b/k/file.bin" {
		t.Fatalf("wasabi url = %s", results[1].URL)
	}
	if string(s3.objects["bucket-a/k/file.bin"]) != "payload" {
		t.Fatal("s3 copy missing or corrupt")
	}
	if string(wasabi.objects["bucket-b/k/file.bin"]) != "payload" {
		t.Fatal("wasabi copy missing or corrupt")
	}
}

func TestReplicateToProvidersPartialFailure(t *testing.T) {
	good := newFakeStore()
	bad := newFakeStore()
	bad.failPut = errors.New("connection refused")
	targets := []replicateTarget{
		{Provider: storage.ProviderS3, Client: &storage.Client{Store: good, Bucket: "bucket-a"}},
		{Provider: storage.ProviderOracle, Client: &storage.Client{Store: bad, Bucket: "bucket-c"}},
	}
	results := replicateToProviders(context.Background(), targets, "k/f", "text/plain", []byte("x"), nil)

	if results[0].Err != nil {
		t.Fatalf("healthy provider failed: %v", results[0].Err)
	}
	if results[1].Err == nil {
		t.Fatal("broken provider reported success")
	}
	if results[1].URL != "" {
		t.Fatalf("failed provider has url %s", results[1].URL)
	}
}

func TestReplicateTrackerSeesOneTransfer(t *testing.T) {
	// Two targets, one payload. The tracker wraps only the first stream so the
	// percentage reflects a single copy.
	a := newFakeStore()
	b := newFakeStore()
	targets := []replicateTarget{
		{Provider: storage.ProviderS3, Client: &storage.Client{Store: a, Bucket: "x"}},
		{Provider: storage.ProviderWasabi, Client: &storage.Client{Store: b, Bucket: "y"}},
	}
	data := make([]byte, 100)

	tracker, published, mu, clock := newTestTracker(int64(len(data)))
	*clock = clock.Add(2 * time.Second)
	replicateToProviders(context.Background(), targets, "k", "application/octet-stream", data, tracker)
	tracker.Close()

	mu.Lock()
	defer mu.Unlock()
	for _, p := range *published {
		if p > 100 {
			t.Fatalf("progress exceeded 100: %v", *published)
		}
	}
	if len(*published) == 0 || (*published)[len(*published)-1] != 100 {
		t.Fatalf("expected terminal 100, published %v", *published)
	}
}

func TestSummarizeReplicationPartialSuccess(t *testing.T) {
	results := []replicateResult{
		{Provider: storage.ProviderS3, URL: "s3://b/k"},
		{Provider: storage.ProviderWasabi, Err: errors.New("connection refused")},
	}
	outcome := summarizeReplication(results, "application/pdf")

	if !outcome.Succeeded {
		t.Fatal("one success must count the upload as done")
	}
	if outcome.Status != "completed" {
		t.Fatalf("status = %s, want completed", outcome.Status)
	}
	// The aggregated reason is reserved for the all-failed path.
	if outcome.Reason != "" {
		t.Fatalf("reason = %q, want empty on partial success", outcome.Reason)
	}
	if outcome.URLColumns["s3_url"] != "s3://b/k" {
		t.Fatalf("url columns = %v", outcome.URLColumns)
	}
	if _, ok := outcome.URLColumns["wasabi_url"]; ok {
		t.Fatal("failed provider must not record a url")
	}
	if len(outcome.Failures) != 1 {
		t.Fatalf("failures = %v, want the wasabi error for logging", outcome.Failures)
	}
}

func TestSummarizeReplicationAllFailed(t *testing.T) {
	results := []replicateResult{
		{Provider: storage.ProviderS3, Err: errors.New("forbidden")},
		{Provider: storage.ProviderOracle, Err: errors.New("timeout")},
	}
	outcome := summarizeReplication(results, "application/pdf")

	if outcome.Succeeded {
		t.Fatal("all-failed run reported success")
	}
	if outcome.Reason != "s3: forbidden; oracle: timeout" {
		t.Fatalf("reason = %q", outcome.Reason)
	}
}

func TestSummarizeReplicationVideoGoesToProcessing(t *testing.T) {
	results := []replicateResult{{Provider: storage.ProviderS3, URL: "s3://b/k"}}
	outcome := summarizeReplication(results, "video/mp4")
	if outcome.Status != "processing" {
		t.Fatalf("status = %s, want processing for video", outcome.Status)
	}
}

func TestSummarizeReplicationNoTargets(t *testing.T) {
	outcome := summarizeReplication(nil, "application/pdf")
	if outcome.Succeeded {
		t.Fatal("zero targets reported success")
	}
	if outcome.Reason != "no storage providers enabled/available" {
		t.Fatalf("reason = %q", outcome.Reason)
	}
}

func TestResolveTargetsSkipsProviderWithMissingCredentials(t *testing.T) {
	orig := resolvePodClient
	defer func() { resolvePodClient = orig }()

	var resolveCalls []storage.Provider
	resolvePodClient = func(pod *model.StoragePod, provider storage.Provider) (*storage.Client, error) {
		resolveCalls = append(resolveCalls, provider)
		return nil, fmt.Errorf("provider %s: custom credentials missing for pod %d", provider, pod.ID)
	}

	// The only enabled provider wants custom credentials that do not exist.
	// No client is ever built, so no storage call can happen.
	pod := &model.StoragePod{ID: 9, EnableWasabi: true, UseCustomWasabi: true, IsActive: true}
	targets := resolveTargets(pod)

	if len(targets) != 0 {
		t.Fatalf("got %d targets, want none", len(targets))
	}
	if len(resolveCalls) != 1 || resolveCalls[0] != storage.ProviderWasabi {
		t.Fatalf("resolver calls = %v, want only wasabi", resolveCalls)
	}

	outcome := summarizeReplication(replicateToProviders(context.Background(), targets, "k", "video/mp4", []byte("x"), nil), "video/mp4")
	if outcome.Succeeded || outcome.Reason != "no storage providers enabled/available" {
		t.Fatalf("outcome = %+v, want terminal no-providers failure", outcome)
	}
}

func TestResolveTargetsKeepsUsableProviders(t *testing.T) {
	orig := resolvePodClient
	defer func() { resolvePodClient = orig }()

	good := &storage.Client{Store: newFakeStore(), Bucket: "b"}
	resolvePodClient = func(pod *model.StoragePod, provider storage.Provider) (*storage.Client, error) {
		if provider == storage.ProviderOracle {
			return nil, errors.New("custom credentials missing")
		}
		return good, nil
	}

	pod := &model.StoragePod{ID: 9, EnableS3: true, EnableOracle: true, UseCustomOracle: true, IsActive: true}
	targets := resolveTargets(pod)

	if len(targets) != 1 || targets[0].Provider != storage.ProviderS3 {
		t.Fatalf("targets = %v, want only s3", targets)
	}
}

func TestObjectURL(t *testing.T) {
	got := objectURL(storage.ProviderOracle, "media", "1/2026/01/01/tok/a.mp4")
	want := "oracle://media/1/2026/01/01/tok/a.mp4"
	if got != want {
		t.Fatalf("objectURL = %s, want %s", got, want)
	}
}
