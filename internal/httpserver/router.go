package httpserver

import (
	"context"
	"net/http"

	"bookcatalog/internal/apperr"
	"bookcatalog/internal/auth"
	"bookcatalog/internal/httpserver/handlers"
	"bookcatalog/internal/services/accounts"
	"bookcatalog/internal/services/books"
	"bookcatalog/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Limiter throttles login attempts per client address.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

type Deps struct {
	Accounts      *accounts.Service
	Books         *books.Service
	Tokens        *auth.TokenIssuer
	Images        storage.ImageStore
	MaxImageBytes int64
	// LoginLimiter is optional.
	LoginLimiter Limiter
	// TrustedProxies may forward the client address; nil trusts none.
	TrustedProxies *TrustedProxies
	Logger         *zap.SugaredLogger
}

var errTooManyAttempts = apperr.New(apperr.KindRateLimited, "too many login attempts, try again later")

func NewRouter(d Deps) http.Handler {
	lg := d.Logger
	fail := handlers.RespondError(lg)
	img := handlers.ImageConfig{Store: d.Images, MaxBytes: d.MaxImageBytes}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer, middleware.Logger)

	r.With(limitLogin(d.LoginLimiter, d.TrustedProxies, fail)).Post("/auth/login", handlers.Login(d.Accounts, lg))
	r.Post("/register", handlers.RegisterUser(d.Accounts, lg))
	r.Post("/register-author", handlers.RegisterAuthor(d.Accounts, lg))
	r.Get("/books", handlers.ListBooks(d.Books, lg))
	r.Get("/books/{id}", handlers.GetBook(d.Books, lg))

	r.Group(func(protected chi.Router) {
		protected.Use(auth.JWTAuth(d.Tokens, fail))
		protected.Get("/my-books", handlers.MyBooks(d.Books, lg))
		protected.Post("/books", handlers.CreateBook(d.Books, img, lg))
		protected.Put("/books/{id}", handlers.UpdateBook(d.Books, img, lg))
		protected.Delete("/books/{id}", handlers.DeleteBook(d.Books, lg))
		protected.Get("/admin/pending-authors", handlers.PendingAuthors(d.Accounts, lg))
		protected.Put("/admin/approve-author/{id}", handlers.ApproveAuthor(d.Accounts, lg))
	})

	if d.Images != nil {
		r.Handle(storage.PublicPrefix+"*", http.StripPrefix(storage.PublicPrefix, d.Images))
	}
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	return r
}

// limitLogin keys attempts by ClientIP, so forwarded headers only count
// when the peer is a trusted proxy.
func limitLogin(l Limiter, trusted *TrustedProxies, fail auth.ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(r.Context(), ClientIP(r, trusted)) {
				fail(w, r, errTooManyAttempts)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
