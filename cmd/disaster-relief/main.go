package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mr1hm/disaster-relief/internal/account"
	"github.com/mr1hm/disaster-relief/internal/api"
	"github.com/mr1hm/disaster-relief/internal/campaign"
	"github.com/mr1hm/disaster-relief/internal/config"
	"github.com/mr1hm/disaster-relief/internal/dashboard"
	"github.com/mr1hm/disaster-relief/internal/donation"
	"github.com/mr1hm/disaster-relief/internal/logging"
	"github.com/mr1hm/disaster-relief/internal/messaging"
	"github.com/mr1hm/disaster-relief/internal/notify"
	"github.com/mr1hm/disaster-relief/internal/repository"
	"github.com/mr1hm/disaster-relief/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	blobs, err := newBlobStore(cfg.Storage)
	if err != nil {
		logging.Fatalf("Failed to initialize storage: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Notification workers
	var sender notify.Sender = notify.LogSender{}
	if cfg.Mail.Enabled() {
		sender = notify.NewMailer(notify.SMTPConfig{
			Host:          cfg.Mail.Host,
			Port:          cfg.Mail.Port,
			User:          cfg.Mail.User,
			Pass:          cfg.Mail.Pass,
			From:          cfg.Mail.From,
			SkipTLSVerify: cfg.Mail.SkipTLSVerify,
		})
	}
	dispatcher := notify.NewDispatcher(cfg.Notify.Workers, cfg.Notify.BufferSize, sender)
	dispatcher.Start(ctx)

	// Live message threads
	hub := messaging.NewHub()

	tokens := account.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, db)
	go purgeTokens(ctx, tokens, cfg.Auth.PurgeInterval)

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logging.Requests(slog.Default()))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Location"},
		AllowCredentials: false, // bearer tokens, no cookies
	}))
	router.Use(api.RateLimitMiddleware(cfg.HTTP.RateLimit))

	if local, ok := blobs.(*storage.LocalStore); ok {
		router.Static(cfg.Storage.MediaURL, local.Dir())
	}

	handler := api.NewHandler(api.Services{
		Accounts:   account.NewService(db, tokens, blobs),
		Campaigns:  campaign.NewService(db, blobs),
		Donations:  donation.NewRecorder(db, blobs, dispatcher),
		Messages:   messaging.NewService(db, hub, dispatcher),
		Dashboards: dashboard.NewService(db),
	})
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	hub.Close() // end open event streams so the drain can finish

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	dispatcher.Stop()
	cancel()

	slog.Info("shutdown complete")
}

func newBlobStore(cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Backend {
	case config.StorageCloudinary:
		return storage.NewCloudinaryStore(cfg.CloudinaryURL, cfg.CloudinaryFolder)
	default:
		return storage.NewLocalStore(cfg.UploadDir, cfg.MediaURL)
	}
}

func purgeTokens(ctx context.Context, tokens *account.Tokens, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := tokens.Purge(ctx)
			if err != nil {
				slog.Error("token purge failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("purged expired token revocations", "count", n)
			}
		}
	}
}
