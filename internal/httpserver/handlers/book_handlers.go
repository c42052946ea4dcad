package handlers

import (
	"net/http"
	"strconv"

	"bookcatalog/internal/apperr"
	"bookcatalog/internal/auth"
	"bookcatalog/internal/policy"
	"bookcatalog/internal/services/books"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var errBadBookID = apperr.Validation("invalid book id")

func bookID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadBookID
	}
	return id, nil
}

func ListBooks(svc *books.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	fail := RespondError(lg)
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			fail(w, r, err)
			return
		}
		respondJSON(w, list)
	}
}

func GetBook(svc *books.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	fail := RespondError(lg)
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := bookID(r)
		if err != nil {
			fail(w, r, err)
			return
		}
		b, err := svc.Get(r.Context(), id)
		if err != nil {
			fail(w, r, err)
			return
		}
		respondJSON(w, b)
	}
}

func MyBooks(svc *books.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	fail := RespondError(lg)
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListOwned(r.Context(), auth.FromContext(r.Context()))
		if err != nil {
			fail(w, r, err)
			return
		}
		respondJSON(w, list)
	}
}

// CreateBook and UpdateBook check the role gate before reading the body, so
// a caller who may not write never has an upload parsed or validated.
func CreateBook(svc *books.Service, img ImageConfig, lg *zap.SugaredLogger) http.HandlerFunc {
	fail := RespondError(lg)
	return func(w http.ResponseWriter, r *http.Request) {
		actor := auth.FromContext(r.Context())
		if err := policy.Authorize(actor, policy.CreateBook, nil); err != nil {
			fail(w, r, err)
			return
		}
		fields, upload, err := decodeBook(w, r, img)
		if err != nil {
			fail(w, r, err)
			return
		}
		b, err := svc.Create(r.Context(), actor, fields, upload)
		if err != nil {
			fail(w, r, err)
			return
		}
		respondJSONStatus(w, http.StatusCreated, map[string]any{
			"message":   "Book added",
			"bookId":    b.ID,
			"image_url": b.ImageURL,
			"book":      b,
		})
	}
}

func UpdateBook(svc *books.Service, img ImageConfig, lg *zap.SugaredLogger) http.HandlerFunc {
	fail := RespondError(lg)
	return func(w http.ResponseWriter, r *http.Request) {
		actor := auth.FromContext(r.Context())
		if err := policy.Authorize(actor, policy.UpdateBook, nil); err != nil {
			fail(w, r, err)
			return
		}
		id, err := bookID(r)
		if err != nil {
			fail(w, r, err)
			return
		}
		fields, upload, err := decodeBook(w, r, img)
		if err != nil {
			fail(w, r, err)
			return
		}
		b, err := svc.Update(r.Context(), actor, id, fields, upload)
		if err != nil {
			fail(w, r, err)
			return
		}
		res := map[string]any{"message": "Book updated", "book": b}
		if upload != nil {
			res["image_url"] = b.ImageURL
		}
		respondJSON(w, res)
	}
}

func DeleteBook(svc *books.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	fail := RespondError(lg)
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := bookID(r)
		if err != nil {
			fail(w, r, err)
			return
		}
		if err := svc.Delete(r.Context(), auth.FromContext(r.Context()), id); err != nil {
			fail(w, r, err)
			return
		}
		respondJSON(w, map[string]any{"message": "Book deleted", "id": id})
	}
}
