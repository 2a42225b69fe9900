package service

const (
	mib = int64(1 << 20)
	gib = int64(1 << 30)

	minPartSize = 5 * mib
	maxPartSize = 5 * gib
)

// calculatePartSize picks a multipart chunk size for a file. Small files get
// small parts for parallelism, huge files get large parts to stay under the
// provider's part-count cap. The result is clamped to the S3 hard limits and
// recomputed if the naive tier would still exceed maxParts.
func calculatePartSize(fileSize int64, maxParts int) int64 {
	var size int64
	switch {
	case fileSize < 100*mib:
		size = 10 * mib
	case fileSize < 1*gib:
		size = 100 * mib
	case fileSize < 10*gib:
		size = 500 * mib
	default:
		size = 1 * gib
	}

	if maxParts > 0 && partCount(fileSize, size) > maxParts {
		size = ceilDiv(fileSize, int64(maxParts))
	}

	if size < minPartSize {
		size = minPartSize
	}
	if size > maxPartSize {
		size = maxPartSize
	}
	return size
}

// partCount returns how many parts of the given size a file needs.
func partCount(fileSize, partSize int64) int {
	if partSize <= 0 {
		return 0
	}
	return int(ceilDiv(fileSize, partSize))
}

func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}
