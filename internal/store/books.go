package store

import (
	"context"

	"bookcatalog/internal/models"

	"gorm.io/gorm"
)

type BookStore struct {
	db *gorm.DB
}

func NewBookStore(db *gorm.DB) *BookStore {
	return &BookStore{db: db}
}

func (s *BookStore) CreateBook(ctx context.Context, b *models.Book) error {
	return translate(s.db.WithContext(ctx).Create(b).Error, errBookNotFound)
}

// ListBooks returns every book in insertion order.
func (s *BookStore) ListBooks(ctx context.Context) ([]models.Book, error) {
	books := []models.Book{}
	if err := s.db.WithContext(ctx).Order("id asc").Find(&books).Error; err != nil {
		return nil, translate(err, errBookNotFound)
	}
	return books, nil
}

// ListBooksNewestFirst returns the books created by ownerID, or every book
// when ownerID is empty.
func (s *BookStore) ListBooksNewestFirst(ctx context.Context, ownerID string) ([]models.Book, error) {
	books := []models.Book{}
	q := s.db.WithContext(ctx)
	if ownerID != "" {
		q = q.Where("created_by = ?", ownerID)
	}
	if err := q.Order("id desc").Find(&books).Error; err != nil {
		return nil, translate(err, errBookNotFound)
	}
	return books, nil
}

func (s *BookStore) GetBook(ctx context.Context, id int64) (*models.Book, error) {
	var b models.Book
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&b).Error; err != nil {
		return nil, translate(err, errBookNotFound)
	}
	return &b, nil
}

// UpdateBook replaces the scalar fields. The image reference is replaced
// only when imageURL is non-nil.
func (s *BookStore) UpdateBook(ctx context.Context, id int64, f models.BookFields, imageURL *string) error {
	changes := map[string]any{
		"title":            f.Title,
		"author":           f.Author,
		"genre":            f.Genre,
		"publication_year": f.PublicationYear,
	}
	if imageURL != nil {
		changes["image_url"] = *imageURL
	}
	res := s.db.WithContext(ctx).Model(&models.Book{}).Where("id = ?", id).Updates(changes)
	if res.Error != nil {
		return translate(res.Error, errBookNotFound)
	}
	if res.RowsAffected == 0 {
		return errBookNotFound
	}
	return nil
}

func (s *BookStore) DeleteBook(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Book{})
	if res.Error != nil {
		return translate(res.Error, errBookNotFound)
	}
	if res.RowsAffected == 0 {
		return errBookNotFound
	}
	return nil
}
