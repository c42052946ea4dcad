package store

import (
	"context"
	"testing"

	"bookcatalog/internal/apperr"
	"bookcatalog/internal/models"
)

func TestMemoryDuplicateEmail(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	if err := m.CreateUser(ctx, &models.User{Email: "a@x.com", Role: models.RoleUser, Status: models.StatusActive}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err := m.CreateUser(ctx, &models.User{Email: "a@x.com", Role: models.RoleUser, Status: models.StatusActive})
	if apperr.KindOf(err) != apperr.KindDuplicateEmail {
		t.Fatalf("expected DuplicateEmail, got %v", err)
	}
}

func TestMemoryUpdateAuthorStatusOnlyTouchesAuthors(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	u := &models.User{Email: "u@x.com", Role: models.RoleUser, Status: models.StatusActive}
	_ = m.CreateUser(ctx, u)
	if err := m.UpdateAuthorStatus(ctx, u.ID, models.StatusRejected); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected NotFound for USER row, got %v", err)
	}
	if err := m.UpdateAuthorStatus(ctx, "nope", models.StatusActive); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected NotFound for missing id, got %v", err)
	}
}

func TestMemoryBookOrderingAndImagePreservation(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	img := "/uploads/books/a.png"
	a := &models.Book{Title: "a", CreatedBy: "jane", ImageURL: &img}
	b := &models.Book{Title: "b", CreatedBy: "bob"}
	c := &models.Book{Title: "c", CreatedBy: "jane"}
	for _, bk := range []*models.Book{a, b, c} {
		if err := m.CreateBook(ctx, bk); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	all, _ := m.ListBooks(ctx)
	if len(all) != 3 || all[0].ID != a.ID || all[2].ID != c.ID {
		t.Fatalf("public listing not in insertion order: %+v", all)
	}
	mine, _ := m.ListBooksNewestFirst(ctx, "jane")
	if len(mine) != 2 || mine[0].ID != c.ID || mine[1].ID != a.ID {
		t.Fatalf("owned listing not newest-first: %+v", mine)
	}

	if err := m.UpdateBook(ctx, a.ID, models.BookFields{Title: "a2", Author: "x", Genre: "g", PublicationYear: 1999}, nil); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := m.GetBook(ctx, a.ID)
	if got.Title != "a2" || got.ImageURL == nil || *got.ImageURL != img {
		t.Fatalf("image not preserved: %+v", got)
	}
	if err := m.DeleteBook(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := m.GetBook(ctx, a.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected NotFound after delete, got %v", err)
	}
}

func TestMemoryUpsertAdminIsIdempotent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	first := &models.User{Name: "Admin", Email: "admin@test.com", SecretHash: "h1", Role: models.RoleAdmin, Status: models.StatusActive}
	if err := m.UpsertAdmin(ctx, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second := &models.User{Name: "Root", Email: "admin@test.com", SecretHash: "h2", Role: models.RoleAdmin, Status: models.StatusActive}
	if err := m.UpsertAdmin(ctx, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("upsert created a second row")
	}
	u, _ := m.FindUserByEmail(ctx, "admin@test.com")
	if u.Name != "Root" || u.SecretHash != "h2" {
		t.Fatalf("upsert did not overwrite: %+v", u)
	}
}
