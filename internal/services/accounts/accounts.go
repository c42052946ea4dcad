// Package accounts covers login, self-service registration and the admin
// approval workflow for author accounts.
package accounts

import (
	"context"
	"strings"
	"time"

	"bookcatalog/internal/apperr"
	"bookcatalog/internal/auth"
	"bookcatalog/internal/models"
	"bookcatalog/internal/policy"

	"go.uber.org/zap"
)

const (
	ActionUserRegister   = "USER_REGISTER"
	ActionAuthorRegister = "AUTHOR_REGISTER"
	ActionAuthorApprove  = "AUTHOR_APPROVE"
	ActionAuthorReject   = "AUTHOR_REJECT"
)

type UserRepository interface {
	CreateUser(ctx context.Context, u *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateAuthorStatus(ctx context.Context, id string, status models.Status) error
	ListPendingAuthors(ctx context.Context) ([]models.User, error)
	UpsertAdmin(ctx context.Context, u *models.User) error
}

type AuditRecorder interface {
	Record(ctx context.Context, userID, action string, metadata any) error
}

type TokenSigner interface {
	Sign(userID string, role models.Role, status models.Status) (string, time.Time, error)
}

type Service struct {
	users  UserRepository
	tokens TokenSigner
	audit  AuditRecorder
	lg     *zap.SugaredLogger
}

func New(users UserRepository, tokens TokenSigner, audit AuditRecorder, lg *zap.SugaredLogger) *Service {
	return &Service{users: users, tokens: tokens, audit: audit, lg: lg}
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in RegisterInput) normalize() (RegisterInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return in, apperr.Validation("name, email and password are required")
	}
	if !strings.Contains(in.Email, "@") {
		return in, apperr.Validation("email is invalid")
	}
	return in, nil
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Role      models.Role   `json:"role"`
	Status    models.Status `json:"status"`
}

type PendingAuthor struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Email  string        `json:"email"`
	Status models.Status `json:"status"`
}

var (
	errInvalidCredentials = apperr.New(apperr.KindInvalidCredentials, "invalid credentials")
	errPendingApproval    = apperr.New(apperr.KindPendingApproval, "author registration pending approval")
	errRejected           = apperr.New(apperr.KindPendingApproval, "author registration was rejected")
)

// Login checks the secret before the author gate so an unknown password
// never learns the account's approval state.
func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, apperr.Validation("email and password are required")
	}
	u, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if err := auth.CheckPassword(u.SecretHash, in.Password); err != nil {
		return nil, errInvalidCredentials
	}
	if u.Role == models.RoleAuthor && u.Status != models.StatusActive {
		if u.Status == models.StatusRejected {
			return nil, errRejected
		}
		return nil, errPendingApproval
	}
	tok, exp, err := s.tokens.Sign(u.ID, u.Role, u.Status)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "token signing failed", err)
	}
	s.lg.Infow("login", "user_id", u.ID, "role", u.Role)
	return &LoginResult{Token: tok, ExpiresAt: exp, ID: u.ID, Name: u.Name, Role: u.Role, Status: u.Status}, nil
}

// RegisterUser creates a reader account that can log in immediately.
func (s *Service) RegisterUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	return s.register(ctx, in, models.RoleUser, models.StatusActive, ActionUserRegister)
}

// RegisterAuthor creates an author account awaiting admin approval.
func (s *Service) RegisterAuthor(ctx context.Context, in RegisterInput) (*models.User, error) {
	return s.register(ctx, in, models.RoleAuthor, models.StatusPending, ActionAuthorRegister)
}

func (s *Service) register(ctx context.Context, in RegisterInput, role models.Role, status models.Status, action string) (*models.User, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "hash error", err)
	}
	u := &models.User{Name: in.Name, Email: in.Email, SecretHash: hash, Role: role, Status: status}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	s.record(ctx, u.ID, action, map[string]any{"email": u.Email})
	return u, nil
}

// ApproveAuthor sets an author's status to ACTIVE or REJECTED.
func (s *Service) ApproveAuthor(ctx context.Context, actor policy.Actor, authorID string, status models.Status) error {
	if err := policy.Authorize(actor, policy.ApproveAuthor, nil); err != nil {
		return err
	}
	if !status.Decidable() {
		return apperr.Validation("status must be ACTIVE or REJECTED")
	}
	if err := s.users.UpdateAuthorStatus(ctx, strings.TrimSpace(authorID), status); err != nil {
		return err
	}
	action := ActionAuthorApprove
	if status == models.StatusRejected {
		action = ActionAuthorReject
	}
	s.record(ctx, actor.ID, action, map[string]any{"author_id": authorID})
	return nil
}

func (s *Service) ListPendingAuthors(ctx context.Context, actor policy.Actor) ([]PendingAuthor, error) {
	if err := policy.Authorize(actor, policy.ListPendingAuthors, nil); err != nil {
		return nil, err
	}
	users, err := s.users.ListPendingAuthors(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PendingAuthor, 0, len(users))
	for _, u := range users {
		out = append(out, PendingAuthor{ID: u.ID, Name: u.Name, Email: u.Email, Status: u.Status})
	}
	return out, nil
}

// SeedAdmin creates the bootstrap admin or resets it, keyed by email.
func (s *Service) SeedAdmin(ctx context.Context, name, email, password string) (*models.User, error) {
	in, err := RegisterInput{Name: name, Email: email, Password: password}.normalize()
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "hash error", err)
	}
	u := &models.User{Name: in.Name, Email: in.Email, SecretHash: hash, Role: models.RoleAdmin, Status: models.StatusActive}
	if err := s.users.UpsertAdmin(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) record(ctx context.Context, userID, action string, metadata map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, userID, action, metadata); err != nil {
		s.lg.Warnw("audit record failed", "action", action, "error", err)
	}
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
