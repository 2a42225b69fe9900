package service

import (
	"errors"
	"testing"
)

func TestAdmitUpload(t *testing.T) {
	cases := []struct {
		name     string
		used     int64
		capacity int64
		incoming int64
		wantErr  error
	}{
		{"fits with room", 100, 1000, 500, nil},
		{"fills exactly", 400, 1000, 600, nil},
		{"one byte over", 400, 1000, 601, ErrQuotaExceeded},
		{"empty pod full file", 0, 1000, 1000, nil},
		{"already full", 1000, 1000, 1, ErrQuotaExceeded},
	}
	for _, tc := range cases {
		err := AdmitUpload(tc.used, tc.capacity, tc.incoming)
		if !errors.Is(err, tc.wantErr) {
			t.Fatalf("%s: AdmitUpload(%d, %d, %d) = %v, want %v", tc.name, tc.used, tc.capacity, tc.incoming, err, tc.wantErr)
		}
	}
}

func TestAdmitUploadRejectsNegativeSize(t *testing.T) {
	if err := AdmitUpload(0, 1000, -1); err == nil {
		t.Fatal("expected error for negative size")
	}
}
