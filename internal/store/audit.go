package store

import (
	"context"

	"bookcatalog/internal/models"

	"gorm.io/gorm"
)

type AuditStore struct {
	db *gorm.DB
}

func NewAuditStore(db *gorm.DB) *AuditStore {
	return &AuditStore{db: db}
}

func (s *AuditStore) Record(ctx context.Context, userID, action string, metadata any) error {
	row := models.AuditLog{Action: action, Metadata: models.NewJSONB(metadata)}
	if userID != "" {
		row.UserID = &userID
	}
	return translate(s.db.WithContext(ctx).Create(&row).Error, errUserNotFound)
}
