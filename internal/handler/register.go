package handler

import (
	"errors"
	"net/http"

	"DumaVault/internal/dto"
	"DumaVault/internal/service"
	"DumaVault/utils"

	"github.com/gin-gonic/gin"
)

// Register creates a new account.
func Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	exist, err := service.IsExist(req.Username)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if exist {
		utils.Fail(c, errors.New("username already taken"))
		return
	}
	user, err := service.CreateUser(req.Username, req.Password, req.Email)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"user_id": user.ID, "username": user.UserName})
}
