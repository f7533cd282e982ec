package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go-peval/internal/app"
	"go-peval/internal/shared/apperror"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.RunActivityConsumer(ctx, logger); err != nil {
		logger.Fatal("consumer failed", zap.Error(err))
	}
}
