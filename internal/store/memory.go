package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"bookcatalog/internal/models"

	"github.com/google/uuid"
)

// Memory keeps users, books and audit rows in process memory. It honours
// the same contracts as the gorm stores.
type Memory struct {
	mu       sync.Mutex
	users    map[string]models.User
	books    map[int64]models.Book
	nextBook int64
	audit    []models.AuditLog
}

func NewMemory() *Memory {
	return &Memory{
		users: make(map[string]models.User),
		books: make(map[int64]models.Book),
	}
}

func (m *Memory) CreateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return errDuplicateEmail
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, errUserNotFound
}

func (m *Memory) UpdateAuthorStatus(ctx context.Context, id string, status models.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.Role != models.RoleAuthor {
		return errAuthorNotFound
	}
	u.Status = status
	u.UpdatedAt = time.Now()
	m.users[id] = u
	return nil
}

func (m *Memory) ListPendingAuthors(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.User{}
	for _, u := range m.users {
		if u.Role == models.RoleAuthor && u.Status == models.StatusPending {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) UpsertAdmin(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	for id, existing := range m.users {
		if existing.Email == u.Email {
			existing.Name = u.Name
			existing.SecretHash = u.SecretHash
			existing.Role = u.Role
			existing.Status = u.Status
			existing.UpdatedAt = time.Now()
			m.users[id] = existing
			*u = existing
			m.mu.Unlock()
			return nil
		}
	}
	m.mu.Unlock()
	return m.CreateUser(ctx, u)
}

func (m *Memory) CreateBook(ctx context.Context, b *models.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextBook++
	b.ID = m.nextBook
	now := time.Now()
	b.CreatedAt, b.UpdatedAt = now, now
	m.books[b.ID] = *b
	return nil
}

func (m *Memory) ListBooks(ctx context.Context) ([]models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.sortedBooks("")
	return out, nil
}

func (m *Memory) ListBooksNewestFirst(ctx context.Context, ownerID string) ([]models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.sortedBooks(ownerID)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (m *Memory) sortedBooks(ownerID string) []models.Book {
	out := []models.Book{}
	for _, b := range m.books {
		if ownerID == "" || b.CreatedBy == ownerID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Memory) GetBook(ctx context.Context, id int64) (*models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[id]
	if !ok {
		return nil, errBookNotFound
	}
	return &b, nil
}

func (m *Memory) UpdateBook(ctx context.Context, id int64, f models.BookFields, imageURL *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[id]
	if !ok {
		return errBookNotFound
	}
	b.Title, b.Author, b.Genre, b.PublicationYear = f.Title, f.Author, f.Genre, f.PublicationYear
	if imageURL != nil {
		ref := *imageURL
		b.ImageURL = &ref
	}
	b.UpdatedAt = time.Now()
	m.books[id] = b
	return nil
}

func (m *Memory) DeleteBook(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[id]; !ok {
		return errBookNotFound
	}
	delete(m.books, id)
	return nil
}

func (m *Memory) Record(ctx context.Context, userID, action string, metadata any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row := models.AuditLog{
		ID:        int64(len(m.audit) + 1),
		Action:    action,
		Metadata:  models.NewJSONB(metadata),
		CreatedAt: time.Now(),
	}
	if userID != "" {
		row.UserID = &userID
	}
	m.audit = append(m.audit, row)
	return nil
}

// AuditTrail returns a copy of the recorded audit rows, oldest first.
func (m *Memory) AuditTrail() []models.AuditLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.AuditLog(nil), m.audit...)
}
