package handler

import (
	"net/http"

	"DumaVault/internal/dto"
	"DumaVault/internal/service"
	"DumaVault/utils"

	"github.com/gin-gonic/gin"
)

// Login authenticates and issues a token.
func Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	user, err := service.CheckPassword(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	token, err := utils.GenerateToken(user.ID, user.UserName, user.IsAdmin)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, dto.LoginResponse{
		Token:    token,
		UserID:   user.ID,
		Username: user.UserName,
	})
}
