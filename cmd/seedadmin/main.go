// Command seedadmin creates the bootstrap admin account, or resets its
// name, password and role if the email already exists.
package main

import (
	"context"
	"time"

	"bookcatalog/internal/auth"
	"bookcatalog/internal/config"
	"bookcatalog/internal/database"
	"bookcatalog/internal/logger"
	"bookcatalog/internal/services/accounts"
	"bookcatalog/internal/store"

	"github.com/joho/godotenv"
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
	svc := accounts.New(store.NewUserStore(db), tokens, store.NewAuditStore(db), lg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	u, err := svc.SeedAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		lg.Fatalw("seed admin failed", "error", err)
	}
	lg.Infow("admin ready", "id", u.ID, "email", u.Email)
}
