package service

import (
	"errors"
	"fmt"

	"DumaVault/internal/repo"
	"DumaVault/model"
)

// ErrQuotaExceeded rejects an upload that would overflow pod capacity.
var ErrQuotaExceeded = errors.New("pod capacity exceeded")

// AdmitUpload decides whether an incoming file of the given size fits the
// pod's remaining capacity. Failed uploads do not count against usage.
func AdmitUpload(usedBytes, capacityBytes, incomingBytes int64) error {
	if incomingBytes < 0 {
		return fmt.Errorf("invalid file size: %d", incomingBytes)
	}
	if usedBytes+incomingBytes > capacityBytes {
		return ErrQuotaExceeded
	}
	return nil
}

// PodUsedBytes sums the sizes of every non-failed file in a pod. Files still
// in flight reserve their declared size so concurrent admissions cannot
// oversubscribe the pod.
func PodUsedBytes(podID uint64) (int64, error) {
	var used int64
	err := repo.Db.Model(&model.StoredFile{}).
		Where("pod_id = ? AND upload_status != ?", podID, model.UploadStatusFailed).
		Select("COALESCE(SUM(file_size), 0)").
		Scan(&used).Error
	if err != nil {
		return 0, err
	}
	return used, nil
}

// CheckPodCapacity runs the admission check against the database.
func CheckPodCapacity(pod *model.StoragePod, incomingBytes int64) error {
	used, err := PodUsedBytes(pod.ID)
	if err != nil {
		return err
	}
	return AdmitUpload(used, pod.CapacityBytes, incomingBytes)
}
