package router

import (
	"DumaVault/internal/handler"
	"DumaVault/utils"

	"github.com/gin-gonic/gin"
)

// InitRouter builds API routes.
func InitRouter() *gin.Engine {
	r := gin.Default()
	r.Use(utils.CORSMiddleware())

	api := r.Group("/api")
	{
		api.POST("/register", handler.Register)
		api.POST("/login", handler.Login)

		auth := api.Group("")
		auth.Use(utils.AuthMiddleware())

		pod := auth.Group("/pod")
		{
			pod.POST("", handler.CreatePod)
			pod.GET("", handler.ListPods)
			pod.GET("/:podID", handler.GetPodDetail)
			pod.GET("/:podID/usage", handler.GetPodUsage)
			pod.GET("/:podID/connections", utils.AdminMiddleware(), handler.CheckPodConnections)
			pod.PUT("/:podID/credential", handler.UpsertPodCredential)
		}

		file := auth.Group("/file")
		{
			file.POST("/upload", handler.UploadFile)
			file.GET("/list", handler.ListFiles)
			file.GET("/:fileID/status", handler.GetFileStatus)
			file.GET("/:fileID/download", handler.GetDownloadURL)

			file.POST("/upload/direct/init", handler.InitDirectUpload)
			file.POST("/upload/direct/confirm", handler.ConfirmDirectUpload)

			file.POST("/upload/multipart/init", handler.InitMultipartUpload)
			file.POST("/upload/multipart/complete", handler.CompleteMultipartUpload)
			file.POST("/upload/multipart/abort", handler.AbortMultipartUpload)
		}
	}
	return r
}
