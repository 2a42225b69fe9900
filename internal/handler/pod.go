package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"DumaVault/internal/dto"
	"DumaVault/internal/service"
	"DumaVault/model"
	"DumaVault/utils"

	"github.com/gin-gonic/gin"
)

func podIDParam(c *gin.Context) (uint64, bool) {
	podID, err := strconv.ParseUint(c.Param("podID"), 10, 64)
	if err != nil || podID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pod id"})
		return 0, false
	}
	return podID, true
}

func podInfoOf(pod *model.StoragePod) dto.PodInfo {
	return dto.PodInfo{
		ID:               pod.ID,
		Name:             pod.Name,
		CapacityBytes:    pod.CapacityBytes,
		EnableS3:         pod.EnableS3,
		EnableWasabi:     pod.EnableWasabi,
		EnableOracle:     pod.EnableOracle,
		PrimaryStorage:   pod.PrimaryStorage,
		SecondaryStorage: pod.SecondaryStorage,
		IsActive:         pod.IsActive,
		CreatedAt:        pod.CreatedAt,
	}
}

// CreatePod creates a replication pod.
func CreatePod(c *gin.Context) {
	var req dto.CreatePodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	userID := c.MustGet("user_id").(uint64)
	pod, err := service.CreatePod(&req, userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, podInfoOf(pod))
}

// ListPods lists the caller's pods.
func ListPods(c *gin.Context) {
	userID := c.MustGet("user_id").(uint64)
	pods, err := service.ListPods(userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	infos := make([]dto.PodInfo, 0, len(pods))
	for i := range pods {
		infos = append(infos, podInfoOf(&pods[i]))
	}
	utils.Success(c, infos)
}

// GetPodDetail returns one pod.
func GetPodDetail(c *gin.Context) {
	podID, ok := podIDParam(c)
	if !ok {
		return
	}
	pod, err := service.GetPod(podID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, podInfoOf(pod))
}

// GetPodUsage reports quota consumption.
func GetPodUsage(c *gin.Context) {
	podID, ok := podIDParam(c)
	if !ok {
		return
	}
	usage, err := service.GetPodUsage(podID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, usage)
}

// CheckPodConnections probes every enabled provider for the pod.
func CheckPodConnections(c *gin.Context) {
	podID, ok := podIDParam(c)
	if !ok {
		return
	}
	pod, err := service.GetPod(podID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()
	utils.Success(c, service.CheckPodConnections(ctx, pod))
}

// UpsertPodCredential stores custom provider credentials for a pod.
func UpsertPodCredential(c *gin.Context) {
	podID, ok := podIDParam(c)
	if !ok {
		return
	}
	if _, err := service.GetPod(podID); err != nil {
		utils.Fail(c, err)
		return
	}
	var req dto.UpsertCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	cred, err := service.UpsertCredential(podID, &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"credential_id": cred.ID, "provider": cred.Provider})
}
