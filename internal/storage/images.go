// Package storage keeps uploaded book cover images and serves them back
// under PublicPrefix.
package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"bookcatalog/internal/apperr"

	"github.com/google/uuid"
)

const (
	PublicPrefix    = "/uploads/books/"
	DefaultMaxBytes = 3 << 20
)

// ImageStore persists images by name and serves them by the same name
// (the request path after PublicPrefix is stripped).
type ImageStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	http.Handler
}

// Validate checks the declared size and content type of an upload.
func Validate(fh *multipart.FileHeader, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if fh.Size > maxBytes {
		return apperr.Validation(fmt.Sprintf("image exceeds %s limit", humanSize(maxBytes)))
	}
	if !strings.HasPrefix(strings.ToLower(fh.Header.Get("Content-Type")), "image/") {
		return apperr.Validation("only image files are allowed")
	}
	return nil
}

// ObjectName returns a fresh collision-free name keeping the upload's extension.
func ObjectName(original string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(original)))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\ `) {
		ext = ""
	}
	return uuid.NewString() + ext
}

// Publish validates fh, stores it and returns the public reference path.
// The file is written before any database row refers to it; a later
// failure leaves it orphaned.
func Publish(ctx context.Context, store ImageStore, fh *multipart.FileHeader, maxBytes int64) (string, error) {
	if err := Validate(fh, maxBytes); err != nil {
		return "", err
	}
	f, err := fh.Open()
	if err != nil {
		return "", apperr.Validation("unreadable image upload")
	}
	defer f.Close()
	name := ObjectName(fh.Filename)
	if err := store.Save(ctx, name, f, fh.Size, fh.Header.Get("Content-Type")); err != nil {
		return "", apperr.Upstream(err)
	}
	return PublicPrefix + name, nil
}

func humanSize(n int64) string {
	if n%(1<<20) == 0 {
		return fmt.Sprintf("%dMB", n>>20)
	}
	if n%(1<<10) == 0 {
		return fmt.Sprintf("%dKB", n>>10)
	}
	return fmt.Sprintf("%d bytes", n)
}

// validName rejects anything that is not a single path element.
func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}
