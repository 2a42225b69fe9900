package main

import (
	"DumaVault/config"
	"DumaVault/internal/repo"
	"DumaVault/router"
)

// main initializes services and starts the HTTP server.
func main() {
	config.InitConfig()
	repo.InitMysql()
	repo.InitRedis()

	router := router.InitRouter()

	router.Run(":8000")
}
