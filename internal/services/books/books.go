// Package books manages catalog records. Every mutating call runs
// authorize, validate, load, re-authorize against the owner, then persist.
package books

import (
	"context"
	"strings"

	"bookcatalog/internal/apperr"
	"bookcatalog/internal/models"
	"bookcatalog/internal/policy"

	"go.uber.org/zap"
)

const (
	ActionBookCreate = "BOOK_CREATE"
	ActionBookUpdate = "BOOK_UPDATE"
	ActionBookDelete = "BOOK_DELETE"
)

type Repository interface {
	CreateBook(ctx context.Context, b *models.Book) error
	ListBooks(ctx context.Context) ([]models.Book, error)
	ListBooksNewestFirst(ctx context.Context, ownerID string) ([]models.Book, error)
	GetBook(ctx context.Context, id int64) (*models.Book, error)
	UpdateBook(ctx context.Context, id int64, f models.BookFields, imageURL *string) error
	DeleteBook(ctx context.Context, id int64) error
}

type AuditRecorder interface {
	Record(ctx context.Context, userID, action string, metadata any) error
}

// ImageUpload stores a pending cover image and returns its reference path.
// It is only invoked once the request has passed authorization.
type ImageUpload func(ctx context.Context) (string, error)

type Service struct {
	books Repository
	audit AuditRecorder
	lg    *zap.SugaredLogger
}

func New(books Repository, audit AuditRecorder, lg *zap.SugaredLogger) *Service {
	return &Service{books: books, audit: audit, lg: lg}
}

// Validate trims the text fields and requires every field to be present.
func Validate(f models.BookFields) (models.BookFields, error) {
	f.Title = strings.TrimSpace(f.Title)
	f.Author = strings.TrimSpace(f.Author)
	f.Genre = strings.TrimSpace(f.Genre)
	var missing []string
	if f.Title == "" {
		missing = append(missing, "title")
	}
	if f.Author == "" {
		missing = append(missing, "author")
	}
	if f.Genre == "" {
		missing = append(missing, "genre")
	}
	if f.PublicationYear == 0 {
		missing = append(missing, "publication_year")
	}
	if len(missing) > 0 {
		return f, apperr.Validation("missing required fields: " + strings.Join(missing, ", "))
	}
	if f.PublicationYear < 0 {
		return f, apperr.Validation("publication_year must be positive")
	}
	return f, nil
}

// List is public and returns books in insertion order.
func (s *Service) List(ctx context.Context) ([]models.Book, error) {
	return s.books.ListBooks(ctx)
}

// Get is public.
func (s *Service) Get(ctx context.Context, id int64) (*models.Book, error) {
	return s.books.GetBook(ctx, id)
}

// ListOwned returns an author's own books, or every book for an admin,
// newest first.
func (s *Service) ListOwned(ctx context.Context, actor policy.Actor) ([]models.Book, error) {
	if err := policy.Authorize(actor, policy.ListOwnedBooks, nil); err != nil {
		return nil, err
	}
	owner := ""
	if actor.Role == models.RoleAuthor {
		owner = actor.ID
	}
	return s.books.ListBooksNewestFirst(ctx, owner)
}

func (s *Service) Create(ctx context.Context, actor policy.Actor, f models.BookFields, image ImageUpload) (*models.Book, error) {
	if err := policy.Authorize(actor, policy.CreateBook, nil); err != nil {
		return nil, err
	}
	f, err := Validate(f)
	if err != nil {
		return nil, err
	}
	b := &models.Book{
		Title:           f.Title,
		Author:          f.Author,
		Genre:           f.Genre,
		PublicationYear: f.PublicationYear,
		CreatedBy:       actor.ID,
	}
	if image != nil {
		ref, err := image(ctx)
		if err != nil {
			return nil, err
		}
		b.ImageURL = &ref
	}
	if err := s.books.CreateBook(ctx, b); err != nil {
		return nil, err
	}
	s.record(ctx, actor.ID, ActionBookCreate, map[string]any{"book_id": b.ID, "title": b.Title})
	return b, nil
}

// Update replaces the scalar fields. The cover is replaced only when a new
// image is supplied.
func (s *Service) Update(ctx context.Context, actor policy.Actor, id int64, f models.BookFields, image ImageUpload) (*models.Book, error) {
	if err := policy.Authorize(actor, policy.UpdateBook, nil); err != nil {
		return nil, err
	}
	f, err := Validate(f)
	if err != nil {
		return nil, err
	}
	b, err := s.books.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.UpdateBook, &policy.Resource{CreatedBy: b.CreatedBy}); err != nil {
		return nil, err
	}
	var imageURL *string
	if image != nil {
		ref, err := image(ctx)
		if err != nil {
			return nil, err
		}
		imageURL = &ref
	}
	if err := s.books.UpdateBook(ctx, id, f, imageURL); err != nil {
		return nil, err
	}
	b.Title, b.Author, b.Genre, b.PublicationYear = f.Title, f.Author, f.Genre, f.PublicationYear
	if imageURL != nil {
		b.ImageURL = imageURL
	}
	s.record(ctx, actor.ID, ActionBookUpdate, map[string]any{"book_id": id, "image_replaced": imageURL != nil})
	return b, nil
}

func (s *Service) Delete(ctx context.Context, actor policy.Actor, id int64) error {
	if err := policy.Authorize(actor, policy.DeleteBook, nil); err != nil {
		return err
	}
	b, err := s.books.GetBook(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(actor, policy.DeleteBook, &policy.Resource{CreatedBy: b.CreatedBy}); err != nil {
		return err
	}
	if err := s.books.DeleteBook(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actor.ID, ActionBookDelete, map[string]any{"book_id": id, "owner": b.CreatedBy})
	return nil
}

func (s *Service) record(ctx context.Context, userID, action string, metadata map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, userID, action, metadata); err != nil {
		s.lg.Warnw("audit record failed", "action", action, "error", err)
	}
}
