package service

import "testing"

func TestCalculatePartSizeTiers(t *testing.T) {
	cases := []struct {
		name     string
		fileSize int64
		want     int64
	}{
		{"small file", 50 * mib, 10 * mib},
		{"just under 100MiB", 100*mib - 1, 10 * mib},
		{"medium file", 500 * mib, 100 * mib},
		{"large file", 5 * gib, 500 * mib},
		{"huge file", 20 * gib, 1 * gib},
	}
	for _, tc := range cases {
		got := calculatePartSize(tc.fileSize, 10000)
		if got != tc.want {
			t.Fatalf("%s: calculatePartSize(%d) = %d, want %d", tc.name, tc.fileSize, got, tc.want)
		}
	}
}

func TestCalculatePartSizeRespectsMaxParts(t *testing.T) {
	// 200 GiB with 1 GiB parts would need 200 parts; with a cap of 100 the
	// part size must grow to keep the count within bounds.
	fileSize := 200 * gib
	size := calculatePartSize(fileSize, 100)
	if count := partCount(fileSize, size); count > 100 {
		t.Fatalf("part count %d exceeds cap 100 (part size %d)", count, size)
	}
}

func TestCalculatePartSizeClampsToLimits(t *testing.T) {
	// A tiny file still gets at least the provider minimum.
	if size := calculatePartSize(1*mib, 10000); size < minPartSize {
		t.Fatalf("part size %d below provider minimum %d", size, minPartSize)
	}
	// Even an absurd cap cannot push the part size past the provider maximum.
	if size := calculatePartSize(100*gib, 1); size != maxPartSize {
		t.Fatalf("part size %d, want clamp to %d", size, maxPartSize)
	}
}

func TestPartCountCoversWholeFile(t *testing.T) {
	for _, fileSize := range []int64{1, 10 * mib, 10*mib + 1, 3 * gib, 64 * gib} {
		size := calculatePartSize(fileSize, 10000)
		count := partCount(fileSize, size)
		if int64(count)*size < fileSize {
			t.Fatalf("file %d: %d parts of %d bytes do not cover the file", fileSize, count, size)
		}
		if int64(count-1)*size >= fileSize {
			t.Fatalf("file %d: %d parts is one more than needed", fileSize, count)
		}
	}
}
