package handler

import (
	"net/http"
	"strconv"

	"DumaVault/internal/dto"
	"DumaVault/internal/service"
	"DumaVault/utils"

	"github.com/gin-gonic/gin"
)

func fileIDParam(c *gin.Context) (uint64, bool) {
	fileID, err := strconv.ParseUint(c.Param("fileID"), 10, 64)
	if err != nil || fileID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return 0, false
	}
	return fileID, true
}

// UploadFile stages a multipart-form upload and kicks off replication. The
// response returns as soon as the body is spooled; clients poll the file
// status for replication progress.
func UploadFile(c *gin.Context) {
	podID, err := strconv.ParseUint(c.PostForm("pod_id"), 10, 64)
	if err != nil || podID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pod_id required"})
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required: " + err.Error()})
		return
	}
	userID := c.MustGet("user_id").(uint64)

	pod, err := service.GetPod(podID)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	fileType := c.PostForm("file_type")
	if fileType == "" {
		fileType = fileHeader.Header.Get("Content-Type")
	}

	src, err := fileHeader.Open()
	if err != nil {
		utils.Fail(c, err)
		return
	}
	defer src.Close()

	file, err := service.StageUpload(pod, userID, fileHeader.Filename, fileType, fileHeader.Size, src)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, service.FileInfoOf(file))
}

// GetFileStatus returns the current upload state of one file.
func GetFileStatus(c *gin.Context) {
	fileID, ok := fileIDParam(c)
	if !ok {
		return
	}
	userID := c.MustGet("user_id").(uint64)
	file, err := service.GetFile(fileID, userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, service.FileInfoOf(file))
}

// ListFiles pages through the caller's files in a pod.
func ListFiles(c *gin.Context) {
	podID, err := strconv.ParseUint(c.Query("pod_id"), 10, 64)
	if err != nil || podID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pod_id required"})
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	userID := c.MustGet("user_id").(uint64)

	files, total, err := service.ListFiles(podID, userID, page, pageSize)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	infos := make([]dto.FileInfo, 0, len(files))
	for i := range files {
		infos = append(infos, service.FileInfoOf(&files[i]))
	}
	utils.Success(c, gin.H{"total": total, "files": infos})
}

// GetDownloadURL issues a presigned GET for a completed file.
func GetDownloadURL(c *gin.Context) {
	fileID, ok := fileIDParam(c)
	if !ok {
		return
	}
	userID := c.MustGet("user_id").(uint64)
	file, err := service.GetFile(fileID, userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	resp, err := service.PresignedDownloadURL(c.Request.Context(), file)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, resp)
}

// InitDirectUpload presigns a single PUT for client-side upload.
func InitDirectUpload(c *gin.Context) {
	var req dto.InitDirectUploadRequest
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
	resp, err := service.InitiateDirectUpload(c.Request.Context(), pod, userID, &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, resp)
}

// ConfirmDirectUpload verifies the client's PUT landed and finalizes the
// record.
func ConfirmDirectUpload(c *gin.Context) {
	var req dto.ConfirmDirectUploadRequest
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
	if err := service.ConfirmDirectUpload(c.Request.Context(), file); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"file_id": file.ID, "status": "completed"})
}
