package service

import (
	"context"
	"errors"
	"fmt"

	"DumaVault/internal/dto"
	"DumaVault/internal/repo"
	"DumaVault/internal/storage"
	"DumaVault/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetPod loads an active pod by id.
func GetPod(podID uint64) (*model.StoragePod, error) {
	var pod model.StoragePod
	if err := repo.Db.First(&pod, podID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("pod %d not found", podID)
		}
		return nil, err
	}
	if !pod.IsActive {
		return nil, fmt.Errorf("pod %d is inactive", podID)
	}
	return &pod, nil
}

// CreatePod validates and persists a new pod.
func CreatePod(req *dto.CreatePodRequest, createdBy uint64) (*model.StoragePod, error) {
	if !req.EnableS3 && !req.EnableWasabi && !req.EnableOracle {
		return nil, errors.New("at least one storage provider must be enabled")
	}
	primary := req.PrimaryStorage
	if primary != "" {
		if _, err := storage.ParseProvider(primary); err != nil {
			return nil, err
		}
	}
	if req.SecondaryStorage != "" {
		if _, err := storage.ParseProvider(req.SecondaryStorage); err != nil {
			return nil, err
		}
	}
	pod := model.StoragePod{
		Name:             req.Name,
		CapacityBytes:    req.CapacityBytes,
		EnableS3:         req.EnableS3,
		EnableWasabi:     req.EnableWasabi,
		EnableOracle:     req.EnableOracle,
		UseCustomS3:      req.UseCustomS3,
		UseCustomWasabi:  req.UseCustomWasabi,
		UseCustomOracle:  req.UseCustomOracle,
		PrimaryStorage:   primary,
		SecondaryStorage: req.SecondaryStorage,
		CreatedBy:        createdBy,
		IsActive:         true,
	}
	if pod.PrimaryStorage == "" {
		pod.PrimaryStorage = string(firstEnabled(&pod))
	}
	if err := repo.Db.Create(&pod).Error; err != nil {
		return nil, err
	}
	return &pod, nil
}

// ListPods returns pods created by the user.
func ListPods(userID uint64) ([]model.StoragePod, error) {
	var pods []model.StoragePod
	err := repo.Db.Where("created_by = ?", userID).Order("id").Find(&pods).Error
	return pods, err
}

// UpsertCredential stores or replaces a pod's custom provider credential.
func UpsertCredential(podID uint64, req *dto.UpsertCredentialRequest) (*model.ProviderCredential, error) {
	provider, err := storage.ParseProvider(req.Provider)
	if err != nil {
		return nil, err
	}
	if provider == storage.ProviderOracle && req.Endpoint == "" && req.Namespace == "" {
		return nil, errors.New("oracle credentials need an endpoint or a namespace")
	}
	cred := model.ProviderCredential{
		PodID:      podID,
		Provider:   string(provider),
		AccessKey:  req.AccessKey,
		SecretKey:  req.SecretKey,
		BucketName: req.BucketName,
		Endpoint:   req.Endpoint,
		Region:     req.Region,
		Namespace:  req.Namespace,
	}
	err = repo.Db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "pod_id"}, {Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"access_key", "secret_key", "bucket_name", "endpoint", "region", "namespace",
		}),
	}).Create(&cred).Error
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// FindCredential loads a pod's stored credential for one provider.
func FindCredential(podID uint64, provider storage.Provider) (*model.ProviderCredential, error) {
	var cred model.ProviderCredential
	err := repo.Db.Where("pod_id = ? AND provider = ?", podID, string(provider)).First(&cred).Error
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// providerEnabled reports whether the pod has the provider switched on.
func providerEnabled(pod *model.StoragePod, provider storage.Provider) bool {
	switch provider {
	case storage.ProviderS3:
		return pod.EnableS3
	case storage.ProviderWasabi:
		return pod.EnableWasabi
	case storage.ProviderOracle:
		return pod.EnableOracle
	}
	return false
}

// usesCustomCreds reports whether the pod wants its own credentials for the
// provider rather than the service defaults.
func usesCustomCreds(pod *model.StoragePod, provider storage.Provider) bool {
	switch provider {
	case storage.ProviderS3:
		return pod.UseCustomS3
	case storage.ProviderWasabi:
		return pod.UseCustomWasabi
	case storage.ProviderOracle:
		return pod.UseCustomOracle
	}
	return false
}

func firstEnabled(pod *model.StoragePod) storage.Provider {
	for _, p := range storage.Providers {
		if providerEnabled(pod, p) {
			return p
		}
	}
	return ""
}

// ClientForPod resolves the storage client a pod should use for one provider.
// Pods on custom credentials get a transient client from their stored
// credential. A custom-flagged pod with no stored credential is an error the
// caller may treat as skippable.
func ClientForPod(pod *model.StoragePod, provider storage.Provider) (*storage.Client, error) {
	if !providerEnabled(pod, provider) {
		return nil, fmt.Errorf("provider %s not enabled for pod %d", provider, pod.ID)
	}
	if usesCustomCreds(pod, provider) {
		cred, err := FindCredential(pod.ID, provider)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("provider %s: custom credentials missing for pod %d", provider, pod.ID)
			}
			return nil, err
		}
		return storage.CustomClient(provider, cred)
	}
	return storage.DefaultClient(provider)
}

// GetPodUsage computes quota consumption for a pod.
func GetPodUsage(podID uint64) (*dto.PodUsageResponse, error) {
	pod, err := GetPod(podID)
	if err != nil {
		return nil, err
	}
	used, err := PodUsedBytes(podID)
	if err != nil {
		return nil, err
	}
	var count int64
	err = repo.Db.Model(&model.StoredFile{}).
		Where("pod_id = ? AND upload_status != ?", podID, model.UploadStatusFailed).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	usage := &dto.PodUsageResponse{
		PodID:          pod.ID,
		CapacityBytes:  pod.CapacityBytes,
		UsedBytes:      used,
		AvailableBytes: pod.CapacityBytes - used,
		FileCount:      count,
	}
	if usage.AvailableBytes < 0 {
		usage.AvailableBytes = 0
	}
	if pod.CapacityBytes > 0 {
		usage.UsedPercent = float64(used) / float64(pod.CapacityBytes) * 100
	}
	return usage, nil
}

// CheckPodConnections probes every enabled provider for the pod.
func CheckPodConnections(ctx context.Context, pod *model.StoragePod) []dto.ProviderStatus {
	statuses := make([]dto.ProviderStatus, 0, len(storage.Providers))
	for _, provider := range storage.Providers {
		status := dto.ProviderStatus{
			Provider: string(provider),
			Enabled:  providerEnabled(pod, provider),
			Custom:   usesCustomCreds(pod, provider),
		}
		if !status.Enabled {
			statuses = append(statuses, status)
			continue
		}
		client, err := ClientForPod(pod, provider)
		if err != nil {
			status.Error = err.Error()
			statuses = append(statuses, status)
			continue
		}
		if storage.Probe(ctx, client) {
			status.Reachable = true
		} else {
			status.Error = "bucket unreachable"
		}
		statuses = append(statuses, status)
	}
	return statuses
}
