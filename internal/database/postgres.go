package database

import (
	"fmt"
	"time"

	"bookcatalog/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config is the gorm configuration shared by every entry point. Every
// operation touches a single row, so gorm's implicit write transaction is
// skipped. gorm's slow-query and error output goes to lg at warn level.
func Config(lg *zap.SugaredLogger) *gorm.Config {
	w, err := zap.NewStdLogAt(lg.Desugar().Named("gorm"), zap.WarnLevel)
	if err != nil {
		w = zap.NewStdLog(lg.Desugar().Named("gorm"))
	}
	return &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
		Logger: logger.New(w, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

func Open(dsn string, lg *zap.SugaredLogger) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database url is empty")
	}
	db, err := gorm.Open(postgres.Open(dsn), Config(lg))
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Book{}, &models.AuditLog{}); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
