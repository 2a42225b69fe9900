package service

import (
	"bytes"
	"os"
	"regexp"
	"strings"
	"testing"
)

var defaultAllowed = []string{
	"video/mp4", "video/avi", "video/mov", "video/mkv",
	"application/pdf", "image/jpeg", "image/png",
}

func TestValidateUpload(t *testing.T) {
	maxBytes := int64(2048) * mib

	if err := validateUpload("video/mp4", 10*mib, defaultAllowed, maxBytes); err != nil {
		t.Fatalf("valid upload rejected: %v", err)
	}
	if err := validateUpload("application/zip", 10*mib, defaultAllowed, maxBytes); err == nil {
		t.Fatal("disallowed type accepted")
	}
	if err := validateUpload("video/mp4", maxBytes+1, defaultAllowed, maxBytes); err == nil {
		t.Fatal("oversized upload accepted")
	}
	if err := validateUpload("video/mp4", 0, defaultAllowed, maxBytes); err == nil {
		t.Fatal("zero-size upload accepted")
	}
}

func TestValidateUploadUnlimitedSize(t *testing.T) {
	// Zero limit means no cap.
	if err := validateUpload("video/mp4", 100*gib, defaultAllowed, 0); err != nil {
		t.Fatalf("unlimited size rejected: %v", err)
	}
}

func TestValidateUploadEmptyAllowListAcceptsAll(t *testing.T) {
	if err := validateUpload("application/x-anything", 1, nil, 0); err != nil {
		t.Fatalf("empty allow list rejected type: %v", err)
	}
}

func TestValidateUploadCaseInsensitive(t *testing.T) {
	if err := validateUpload("Video/MP4", 1, defaultAllowed, 0); err != nil {
		t.Fatalf("case variant rejected: %v", err)
	}
}

func TestBuildStorageKeyShape(t *testing.T) {
	key := BuildStorageKey(42, "My Movie (final).mp4")
	pattern := regexp.MustCompile(`^42/\d{4}/\d{2}/\d{2}/[0-9a-f-]{36}/[A-Za-z0-9._-]+$`)
	if !pattern.MatchString(key) {
		t.Fatalf("unexpected key shape: %s", key)
	}
	if strings.Contains(key, " ") || strings.Contains(key, "(") {
		t.Fatalf("unsafe characters survived: %s", key)
	}
}

func TestBuildStorageKeyUnique(t *testing.T) {
	a := BuildStorageKey(1, "a.bin")
	b := BuildStorageKey(1, "a.bin")
	if a == b {
		t.Fatal("two uploads of the same name collided")
	}
}

func TestSpoolToTemp(t *testing.T) {
	data := bytes.Repeat([]byte("d"), 4096)
	path, err := spoolToTemp(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(path)

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("spooled bytes differ from input")
	}
}

func TestSpoolToTempShortBody(t *testing.T) {
	data := []byte("short")
	_, err := spoolToTemp(bytes.NewReader(data), int64(len(data))+10)
	if err == nil {
		t.Fatal("short body accepted")
	}
}
