package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"bookcatalog/internal/apperr"
	"bookcatalog/internal/models"
	"bookcatalog/internal/services/books"
	"bookcatalog/internal/storage"
)

const imageField = "image"

// ImageConfig controls cover uploads on create and update.
type ImageConfig struct {
	Store    storage.ImageStore
	MaxBytes int64
}

// bookRequest is the body of create and update, as JSON or as a multipart
// form with an optional image part.
type bookRequest struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	Genre           string `json:"genre"`
	PublicationYear year   `json:"publication_year"`
}

// year accepts a JSON number or a numeric string.
type year int

func (y *year) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(string(b), `"`))
	if s == "" || s == "null" {
		*y = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return errBadYear
	}
	*y = year(n)
	return nil
}

var (
	errBadYear    = apperr.Validation("publication_year must be a number")
	errBadForm    = apperr.Validation("invalid multipart form")
	errExtraFiles = apperr.Validation("only a single image file is allowed")
)

func (b bookRequest) fields() models.BookFields {
	return models.BookFields{
		Title:           b.Title,
		Author:          b.Author,
		Genre:           b.Genre,
		PublicationYear: int(b.PublicationYear),
	}
}

func decodeBook(w http.ResponseWriter, r *http.Request, img ImageConfig) (models.BookFields, books.ImageUpload, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct != "multipart/form-data" {
		var req bookRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			if errors.Is(err, errBadYear) {
				return models.BookFields{}, nil, errBadYear
			}
			return models.BookFields{}, nil, errBadJSON
		}
		return req.fields(), nil, nil
	}

	maxBytes := img.MaxBytes
	if maxBytes <= 0 {
		maxBytes = storage.DefaultMaxBytes
	}
	// Room for the text fields and multipart framing on top of the image.
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<20)
	if err := r.ParseMultipartForm(maxBytes + 1<<20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return models.BookFields{}, nil, storage.Validate(&multipart.FileHeader{Size: maxBytes + 1}, maxBytes)
		}
		return models.BookFields{}, nil, errBadForm
	}
	req := bookRequest{
		Title:  r.FormValue("title"),
		Author: r.FormValue("author"),
		Genre:  r.FormValue("genre"),
	}
	if raw := strings.TrimSpace(r.FormValue("publication_year")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return models.BookFields{}, nil, errBadYear
		}
		req.PublicationYear = year(n)
	}

	files := r.MultipartForm.File
	for name, fhs := range files {
		if name != imageField || len(fhs) > 1 {
			return models.BookFields{}, nil, errExtraFiles
		}
	}
	fhs := files[imageField]
	if len(fhs) == 0 {
		return req.fields(), nil, nil
	}
	fh := fhs[0]
	if err := storage.Validate(fh, maxBytes); err != nil {
		return models.BookFields{}, nil, err
	}
	upload := func(ctx context.Context) (string, error) {
		return storage.Publish(ctx, img.Store, fh, maxBytes)
	}
	return req.fields(), upload, nil
}
