package service

import (
	"context"
	"strings"
	"testing"

	"DumaVault/internal/dto"
	"DumaVault/internal/storage"
	"DumaVault/model"
)

func TestBuildCompletePartsOrders(t *testing.T) {
	reported := []dto.CompletedPartInfo{
		{PartNumber: 3, ETag: "c"},
		{PartNumber: 1, ETag: "a"},
		{PartNumber: 2, ETag: "b"},
	}
	parts := buildCompleteParts(reported)
	if len(parts) != 3 {
		t.Fatalf("got %d parts, want 3", len(parts))
	}
	for i, want := range []string{"a", "b", "c"} {
		if parts[i].PartNumber != i+1 || parts[i].ETag != want {
			t.Fatalf("part %d = {%d %s}, want {%d %s}", i, parts[i].PartNumber, parts[i].ETag, i+1, want)
		}
	}
}

func TestValidateMultipartState(t *testing.T) {
	open := &model.StoredFile{
		ID:                1,
		UploadStatus:      model.UploadStatusPendingMultipart,
		MultipartUploadID: "upload-1",
	}
	if err := validateMultipartState(open); err != nil {
		t.Fatalf("open session rejected: %v", err)
	}

	completed := &model.StoredFile{
		ID:                2,
		UploadStatus:      model.UploadStatusCompleted,
		MultipartUploadID: "upload-2",
	}
	if err := validateMultipartState(completed); err == nil {
		t.Fatal("completed session accepted")
	}

	noSession := &model.StoredFile{
		ID:           3,
		UploadStatus: model.UploadStatusPendingMultipart,
	}
	if err := validateMultipartState(noSession); err == nil {
		t.Fatal("session without upload id accepted")
	}
}

func TestAbortMultipartUploadRejectsMismatchedID(t *testing.T) {
	file := &model.StoredFile{
		ID:                7,
		PodID:             1,
		UploadStatus:      model.UploadStatusPendingMultipart,
		MultipartUploadID: "session-real",
	}
	// The mismatch must be rejected before any provider or database contact;
	// with no database configured, reaching either would panic the test.
	err := AbortMultipartUpload(context.Background(), file, "session-other")
	if err == nil {
		t.Fatal("mismatched upload id accepted")
	}
	if !strings.Contains(err.Error(), "does not match") {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.UploadStatus != model.UploadStatusPendingMultipart {
		t.Fatalf("status changed to %s on rejected abort", file.UploadStatus)
	}
}

func TestCompleteMultipartUploadRejectsMismatchedID(t *testing.T) {
	file := &model.StoredFile{
		ID:                8,
		PodID:             1,
		UploadStatus:      model.UploadStatusPendingMultipart,
		MultipartUploadID: "session-real",
		TotalParts:        1,
	}
	parts := []dto.CompletedPartInfo{{PartNumber: 1, ETag: "a"}}
	err := CompleteMultipartUpload(context.Background(), file, "session-other", parts)
	if err == nil {
		t.Fatal("mismatched upload id accepted")
	}
	if !strings.Contains(err.Error(), "does not match") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPresignPartsSizes(t *testing.T) {
	store := newFakeStore()
	client := &storage.Client{Store: store, Bucket: "b"}

	// 25 bytes in 10-byte parts: 10, 10, 5.
	parts, err := presignParts(context.Background(), client, "k", "upload-1", 25, 10, 3)
	if err != nil {
		t.Fatal(err)
	}
	wantSizes := []int64{10, 10, 5}
	if len(parts) != len(wantSizes) {
		t.Fatalf("got %d parts, want %d", len(parts), len(wantSizes))
	}
	for i, want := range wantSizes {
		if parts[i].PartNumber != i+1 || parts[i].Size != want || parts[i].URL == "" {
			t.Fatalf("part %d = %+v, want number %d size %d", i, parts[i], i+1, want)
		}
	}
}

func TestPresignPartsFailureMidLoop(t *testing.T) {
	store := newFakeStore()
	store.failPresignAt = 2
	client := &storage.Client{Store: store, Bucket: "b"}

	_, err := presignParts(context.Background(), client, "k", "upload-1", 25, 10, 3)
	if err == nil {
		t.Fatal("presign failure swallowed")
	}
	if !strings.Contains(err.Error(), "part 2") {
		t.Fatalf("error does not name the failing part: %v", err)
	}
}
