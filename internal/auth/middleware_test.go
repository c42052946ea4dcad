package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bookcatalog/internal/apperr"
	"bookcatalog/internal/models"
)

func runJWTAuth(t *testing.T, iss *TokenIssuer, header string) (int, apperr.Kind, string) {
	t.Helper()
	var gotKind apperr.Kind
	var gotSubject string
	fail := func(w http.ResponseWriter, r *http.Request, err error) {
		gotKind = apperr.KindOf(err)
		w.WriteHeader(apperr.HTTPStatus(gotKind))
	}
	h := JWTAuth(iss, fail)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject = FromContext(r.Context()).ID
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodGet, "/my-books", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code, gotKind, gotSubject
}

func TestJWTAuthMissingVersusInvalid(t *testing.T) {
	iss := newTestIssuer(t)

	code, kind, _ := runJWTAuth(t, iss, "")
	if code != http.StatusUnauthorized || kind != apperr.KindMissingToken {
		t.Fatalf("missing token: %d %s", code, kind)
	}

	code, kind, _ = runJWTAuth(t, iss, "Bearer garbage")
	if code != http.StatusUnauthorized || kind != apperr.KindInvalidToken {
		t.Fatalf("invalid token: %d %s", code, kind)
	}

	code, kind, _ = runJWTAuth(t, iss, "Basic dXNlcjpwYXNz")
	if code != http.StatusUnauthorized || kind != apperr.KindInvalidToken {
		t.Fatalf("wrong scheme: %d %s", code, kind)
	}
}

func TestJWTAuthPassesActorDownstream(t *testing.T) {
	iss := newTestIssuer(t)
	tok, _, _ := iss.Sign("u-9", models.RoleAdmin, models.StatusActive)
	code, _, sub := runJWTAuth(t, iss, "Bearer "+tok)
	if code != http.StatusNoContent || sub != "u-9" {
		t.Fatalf("valid token: %d subject=%q", code, sub)
	}
}

func TestFromContextDefaultsToAnonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if !FromContext(req.Context()).Anonymous() {
		t.Fatalf("expected anonymous actor")
	}
}
