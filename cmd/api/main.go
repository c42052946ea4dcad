package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bookcatalog/internal/auth"
	"bookcatalog/internal/config"
	"bookcatalog/internal/database"
	"bookcatalog/internal/httpserver"
	"bookcatalog/internal/logger"
	"bookcatalog/internal/ratelimit"
	"bookcatalog/internal/services/accounts"
	"bookcatalog/internal/services/books"
	"bookcatalog/internal/storage"
	"bookcatalog/internal/store"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		logger.New("info").Fatalw("config", "error", err)
	}
	lg := logger.New(cfg.LogLevel)
	defer lg.Sync()

	db, err := database.Open(cfg.DatabaseURL, lg)
	if err != nil {
		lg.Fatalw("db connect failed", "error", err)
	}
	defer database.Close(db)
	if err := database.Migrate(db); err != nil {
		lg.Fatalw("automigrate failed", "error", err)
	}

	tokens, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		lg.Fatalw("token issuer", "error", err)
	}
	images, err := openImages(cfg.Images, lg)
	if err != nil {
		lg.Fatalw("image store", "error", err)
	}

	proxies, err := httpserver.ParseTrustedProxies(cfg.HTTP.TrustedProxies)
	if err != nil {
		lg.Fatalw("trusted proxies", "error", err)
	}

	deps := httpserver.Deps{
		Tokens:         tokens,
		Images:         images,
		MaxImageBytes:  cfg.Images.MaxBytes,
		TrustedProxies: proxies,
		Logger:         lg,
	}
	if cfg.RateLimit.Enabled() {
		limiter, err := ratelimit.NewFixedWindow(ratelimit.Options{
			Addr:     cfg.RateLimit.RedisAddr,
			Password: cfg.RateLimit.RedisPassword,
			Prefix:   "bookcatalog:login",
			Limit:    cfg.RateLimit.LoginLimit,
			Window:   cfg.RateLimit.LoginWindow,
		}, lg)
		if err != nil {
			lg.Fatalw("rate limiter", "error", err)
		}
		defer limiter.Close()
		deps.LoginLimiter = limiter
	}

	users := store.NewUserStore(db)
	audit := store.NewAuditStore(db)
	deps.Accounts = accounts.New(users, tokens, audit, lg)
	deps.Books = books.New(store.NewBookStore(db), audit, lg)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      httpserver.NewRouter(deps),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		lg.Infow("listening", "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Errorw("server stopped", "error", err)
			stop()
		}
	}()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Errorw("shutdown", "error", err)
	}
	lg.Infow("stopped")
}

func openImages(cfg config.ImageConfig, lg *zap.SugaredLogger) (storage.ImageStore, error) {
	if cfg.UseMinio() {
		lg.Infow("image store", "backend", "minio", "endpoint", cfg.MinioEndpoint, "bucket", cfg.MinioBucket)
		return storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	}
	lg.Infow("image store", "backend", "disk", "dir", cfg.UploadDir)
	return storage.NewDiskStore(cfg.UploadDir)
}
