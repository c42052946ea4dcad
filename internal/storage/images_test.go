package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bookcatalog/internal/apperr"
)

func fileHeader(t *testing.T, filename, contentType string, body []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(body); err != nil {
		t.Fatalf("write part: %v", err)
	}
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("parse multipart: %v", err)
	}
	return req.MultipartForm.File["image"][0]
}

func TestValidate(t *testing.T) {
	ok := fileHeader(t, "cover.png", "image/png", []byte("png"))
	if err := Validate(ok, DefaultMaxBytes); err != nil {
		t.Fatalf("expected valid upload: %v", err)
	}

	notImage := fileHeader(t, "notes.txt", "text/plain", []byte("hello"))
	err := Validate(notImage, DefaultMaxBytes)
	if apperr.KindOf(err) != apperr.KindValidation || apperr.Message(err) != "only image files are allowed" {
		t.Fatalf("unexpected error for text upload: %v", err)
	}

	big := fileHeader(t, "big.jpg", "image/jpeg", bytes.Repeat([]byte{1}, 2048))
	err = Validate(big, 1024)
	if apperr.KindOf(err) != apperr.KindValidation || apperr.Message(err) != "image exceeds 1KB limit" {
		t.Fatalf("unexpected error for oversized upload: %v", err)
	}
}

func TestHumanSize(t *testing.T) {
	if got := humanSize(DefaultMaxBytes); got != "3MB" {
		t.Fatalf("humanSize(3MiB) = %q", got)
	}
	if got := humanSize(1500); got != "1500 bytes" {
		t.Fatalf("humanSize(1500) = %q", got)
	}
}

func TestObjectName(t *testing.T) {
	a := ObjectName("My Cover.PNG")
	b := ObjectName("My Cover.PNG")
	if a == b {
		t.Fatalf("expected unique names")
	}
	if !strings.HasSuffix(a, ".png") {
		t.Fatalf("expected lowercased extension, got %q", a)
	}
	if strings.Contains(ObjectName("../../etc/passwd"), "/") {
		t.Fatalf("name must be a single path element")
	}
}

func TestPublishToDiskAndServe(t *testing.T) {
	dir := t.TempDir()
	disk, err := NewDiskStore(dir)
	if err != nil {
		t.Fatalf("new disk store: %v", err)
	}
	fh := fileHeader(t, "cover.gif", "image/gif", []byte("GIF89a"))

	ref, err := Publish(context.Background(), disk, fh, DefaultMaxBytes)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !strings.HasPrefix(ref, PublicPrefix) || !strings.HasSuffix(ref, ".gif") {
		t.Fatalf("unexpected reference %q", ref)
	}
	name := strings.TrimPrefix(ref, PublicPrefix)
	if b, err := os.ReadFile(filepath.Join(dir, name)); err != nil || string(b) != "GIF89a" {
		t.Fatalf("stored file mismatch: %q %v", b, err)
	}

	srv := http.StripPrefix(strings.TrimSuffix(PublicPrefix, "/"), disk)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, ref, nil))
	body, _ := io.ReadAll(rec.Body)
	if rec.Code != http.StatusOK || string(body) != "GIF89a" {
		t.Fatalf("serve: %d %q", rec.Code, body)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, PublicPrefix, nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("directory listing should be hidden, got %d", rec.Code)
	}
}

func TestPublishRejectsBeforeWriting(t *testing.T) {
	dir := t.TempDir()
	disk, _ := NewDiskStore(dir)
	fh := fileHeader(t, "x.txt", "text/plain", []byte("x"))
	if _, err := Publish(context.Background(), disk, fh, DefaultMaxBytes); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("rejected upload was written to disk")
	}
}

func TestDiskStoreRejectsTraversal(t *testing.T) {
	disk, _ := NewDiskStore(t.TempDir())
	if err := disk.Save(context.Background(), "../escape.png", strings.NewReader("x"), 1, "image/png"); err == nil {
		t.Fatalf("expected error for traversal name")
	}
}

func TestNewMinioStoreRequiresEndpointAndBucket(t *testing.T) {
	if _, err := NewMinioStore("", "k", "s", "covers", false); err == nil {
		t.Fatalf("expected error for empty endpoint")
	}
	if _, err := NewMinioStore("localhost:9000", "k", "s", "", false); err == nil {
		t.Fatalf("expected error for empty bucket")
	}
}
