package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/raf-alpha/api-go/config"
	"github.com/raf-alpha/api-go/controllers"
	"github.com/raf-alpha/api-go/middleware"
	"github.com/raf-alpha/api-go/models"
	"github.com/raf-alpha/api-go/notify"
	"github.com/raf-alpha/api-go/routes"
	"github.com/raf-alpha/api-go/storage"
	"github.com/raf-alpha/api-go/store"
	"github.com/raf-alpha/api-go/utils"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gin.SetMode(cfg.Server.Mode)

	db, err := config.InitDB(cfg.Database)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	images, err := config.NewImageStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	uploader := storage.NewUploader(images, cfg.Storage.MaxImageSize)

	codes, err := config.NewCodeStore(ctx, cfg.Redis, cfg.Auth.CodeTTL)
	if err != nil {
		return err
	}
	defer codes.Close()

	mail := config.NewMailer(cfg.Mail, logger)

	hub := notify.NewHub(0)
	events, closeEvents := config.NewPublisher(ctx, cfg.Kafka, hub)
	defer func() {
		if err := closeEvents(); err != nil {
			logger.Warn("close event bridge", "error", err)
		}
	}()

	tokens := utils.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	users := store.NewUsers(db)
	auditLog := store.NewAudit(db)

	authController := controllers.NewAuthController(users, store.NewTokens(db), tokens, codes, mail, auditLog, cfg.Auth.RefreshTokenTTL)
	if err := authController.Bootstrap(ctx, cfg.Auth.BootstrapEmail, cfg.Auth.BootstrapPassword); err != nil {
		return err
	}

	categories := store.NewCategories(db)
	ctl := routes.Controllers{
		Auth:     authController,
		Category: controllers.NewCategoryController(categories, uploader, auditLog),
		Unit:     controllers.NewUnitController(store.NewUnits(db), categories, uploader, auditLog),
		FAQ: controllers.NewContentController(controllers.FAQKind,
			store.NewContent[models.FAQ](db, "faq"), uploader, auditLog),
		Review: controllers.NewContentController(controllers.ReviewKind,
			store.NewContent[models.Review](db, "review"), uploader, auditLog),
		Blog: controllers.NewContentController(controllers.BlogKind,
			store.NewContent[models.BlogPost](db, "blog"), uploader, auditLog),
		Notification: controllers.NewNotificationController(store.NewInbox(db), events, hub),
		Validation:   controllers.NewValidationController(users),
		Upload:       controllers.NewUploadController(uploader),
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(logger), gin.Recovery(), middleware.CORS(cfg.CORS))
	if cfg.Storage.Driver == config.StorageLocal && strings.HasPrefix(cfg.Storage.Local.BaseURL, "/") {
		r.Static(cfg.Storage.Local.BaseURL, cfg.Storage.Local.Root)
	}
	routes.SetupRoutes(r, tokens, ctl)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", cfg.Server.Port, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
