package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"DumaVault/config"
	"DumaVault/internal/repo"
	"DumaVault/internal/worker"
)

func main() {
	config.InitConfig()
	repo.InitMysql()
	repo.InitRedis()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("transcode worker started")
	if err := worker.RunTranscodeWorker(ctx); err != nil {
		log.Fatalf("transcode worker stopped: %v", err)
	}
}
