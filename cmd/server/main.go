package main

import (
	"context"
	"net/http"

	"pinboard/internal/config"
	"pinboard/internal/handlers"
	"pinboard/internal/middleware"
	"pinboard/internal/repo"
	"pinboard/internal/service"
	"pinboard/internal/storage"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	store, err := storage.New(ctx, cfg, sugar)
	if err != nil {
		sugar.Fatalw("failed to initialize object storage", "error", err)
	}

	userRepo := repo.NewUserRepository(gormDB)
	pinRepo := repo.NewPinRepository(gormDB)
	commentRepo := repo.NewCommentRepository(gormDB)
	attachmentRepo := repo.NewAttachmentRepository(gormDB)

	agg := service.NewAggregator(userRepo, commentRepo, attachmentRepo, sugar)
	uploader := service.NewUploader(cfg, store, sugar)

	userService := service.NewUserService(userRepo, sugar)
	pinService := service.NewPinService(pinRepo, agg, uploader, sugar)
	commentService := service.NewCommentService(commentRepo, attachmentRepo, agg, uploader, store, sugar)

	h := handlers.NewHandler(userService, pinService, commentService, sugar)

	addr := cfg.RunAddress

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"RunAddress", cfg.RunAddress,
		"AssetsBaseURL", cfg.AssetsBaseURL,
		"StorageBucket", cfg.StorageBucket,
	)

	if err := http.ListenAndServe(addr, h.Router); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}
