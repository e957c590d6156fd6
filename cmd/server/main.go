package main

import (
	"GophTodo/internal/config"
	"GophTodo/internal/handlers"
	"GophTodo/internal/middleware"
	"GophTodo/internal/repo"
	"GophTodo/internal/service"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	var logger *zap.Logger
	var err error
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		_ = logger.Sync()
	}()

	if err := cfg.ValidateServer(); err != nil {
		sugar.Fatalw("invalid configuration", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN, cfg.TodosTable)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	s3Client, err := repo.NewS3Client(ctx, cfg.Attachments())
	if err != nil {
		sugar.Fatalw("failed to initialize s3 client", "error", err)
	}
	attachments, err := repo.NewS3AttachmentStore(s3Client, cfg.Attachments())
	if err != nil {
		sugar.Fatalw("failed to initialize attachment store", "error", err)
	}

	todoRepo := repo.NewTodoRepositoryForTable(gormDB, cfg.TodosTable)
	todoService := service.NewTodoService(todoRepo, attachments, sugar,
		service.WithHiddenForeignItems(cfg.HideForeignTodos))

	h := handlers.NewHandler(todoService, sugar, cfg)

	addr := cfg.BaseURL

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"AppEnv", cfg.AppEnv,
		"TodosTable", cfg.TodosTable,
		"AttachmentsBucket", cfg.AttachmentsBucket,
		"AWSRegion", cfg.AWSRegion,
		"S3Endpoint", cfg.S3Endpoint,
		"SignedURLExpiration", cfg.SignedURLExpiration,
		"HideForeignTodos", cfg.HideForeignTodos,
	)

	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("Server shutdown failed", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Fatalw("Server failed", "error", err)
	}
	sugar.Infow("Server stopped")

	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
