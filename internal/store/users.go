package store

import (
	"context"

	"bookcatalog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error, errUserNotFound)
}

func (s *UserStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).Take(&u).Error; err != nil {
		return nil, translate(err, errUserNotFound)
	}
	return &u, nil
}

// UpdateAuthorStatus only touches rows whose role is AUTHOR.
func (s *UserStore) UpdateAuthorStatus(ctx context.Context, id string, status models.Status) error {
	if _, err := uuid.Parse(id); err != nil {
		return errAuthorNotFound
	}
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND role = ?", id, models.RoleAuthor).
		Update("status", status)
	if res.Error != nil {
		return translate(res.Error, errAuthorNotFound)
	}
	if res.RowsAffected == 0 {
		return errAuthorNotFound
	}
	return nil
}

func (s *UserStore) ListPendingAuthors(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := s.db.WithContext(ctx).
		Select("id", "name", "email", "role", "status").
		Where("role = ? AND status = ?", models.RoleAuthor, models.StatusPending).
		Order("created_at asc").
		Find(&users).Error
	if err != nil {
		return nil, translate(err, errUserNotFound)
	}
	return users, nil
}

// UpsertAdmin inserts u or, when the email is taken, overwrites that row's
// name, secret, role and status. u is reloaded so its ID is the stored one.
func (s *UserStore) UpsertAdmin(ctx context.Context, u *models.User) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "password_hash", "role", "status", "updated_at"}),
	}).Create(u).Error
	if err != nil {
		return translate(err, errUserNotFound)
	}
	var stored models.User
	if err := s.db.WithContext(ctx).Where("email = ?", u.Email).Take(&stored).Error; err != nil {
		return translate(err, errUserNotFound)
	}
	*u = stored
	return nil
}
