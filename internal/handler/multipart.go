package handler

import (
	"fmt"
	"net/http"
	"time"

	"DumaVault/internal/dto"
	"DumaVault/internal/repo"
	"DumaVault/internal/service"
	"DumaVault/utils"

	"github.com/gin-gonic/gin"
)

// InitMultipartUpload opens a multipart session and hands back presigned part
// URLs.
func InitMultipartUpload(c *gin.Context) {
	var req dto.InitMultipartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	userID := c.MustGet("user_id").(uint64)
	pod, err := service.GetPod(req.PodID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	resp, err := service.InitiateMultipartUpload(c.Request.Context(), pod, userID, &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, resp)
}

// CompleteMultipartUpload finalizes a session. Completion is serialized per
// file with a Redis lock so a double submit cannot complete the same session
// twice.
func CompleteMultipartUpload(c *gin.Context) {
	var req dto.CompleteMultipartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	userID := c.MustGet("user_id").(uint64)
	file, err := service.GetFile(req.FileID, userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	lock := repo.NewRedisLock(repo.Redis, fmt.Sprintf("multipart:complete:%d", file.ID), 30*time.Second)
	if err := lock.Lock(c.Request.Context()); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "completion already in progress"})
		return
	}
	defer lock.Unlock(c.Request.Context())

	if err := service.CompleteMultipartUpload(c.Request.Context(), file, req.UploadID, req.Parts); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"file_id": file.ID, "status": "completed"})
}

// AbortMultipartUpload cancels a session and releases its reserved quota.
func AbortMultipartUpload(c *gin.Context) {
	var req dto.AbortMultipartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	userID := c.MustGet("user_id").(uint64)
	file, err := service.GetFile(req.FileID, userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if err := service.AbortMultipartUpload(c.Request.Context(), file, req.UploadID); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"file_id": file.ID, "status": "aborted"})
}
