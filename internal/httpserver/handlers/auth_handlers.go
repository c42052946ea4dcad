package handlers

import (
	"encoding/json"
	"net/http"

	"bookcatalog/internal/apperr"
	"bookcatalog/internal/services/accounts"

	"go.uber.org/zap"
)

var errBadJSON = apperr.Validation("invalid JSON body")

func Login(svc *accounts.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	fail := RespondError(lg)
	return func(w http.ResponseWriter, r *http.Request) {
		var req accounts.LoginInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail(w, r, errBadJSON)
			return
		}
		res, err := svc.Login(r.Context(), req)
		if err != nil {
			fail(w, r, err)
			return
		}
		respondJSON(w, map[string]any{
			"message":    "Login successful",
			"token":      res.Token,
			"expires_at": res.ExpiresAt,
			"id":         res.ID,
			"name":       res.Name,
			"role":       res.Role,
			"status":     res.Status,
		})
	}
}

func RegisterUser(svc *accounts.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	fail := RespondError(lg)
	return func(w http.ResponseWriter, r *http.Request) {
		var req accounts.RegisterInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail(w, r, errBadJSON)
			return
		}
		u, err := svc.RegisterUser(r.Context(), req)
		if err != nil {
			fail(w, r, err)
			return
		}
		respondJSONStatus(w, http.StatusCreated, map[string]any{
			"message": "User registered successfully! You can now log in.",
			"id":      u.ID,
			"status":  u.Status,
		})
	}
}

func RegisterAuthor(svc *accounts.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	fail := RespondError(lg)
	return func(w http.ResponseWriter, r *http.Request) {
		var req accounts.RegisterInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail(w, r, errBadJSON)
			return
		}
		u, err := svc.RegisterAuthor(r.Context(), req)
		if err != nil {
			fail(w, r, err)
			return
		}
		respondJSONStatus(w, http.StatusCreated, map[string]any{
			"message": "Author registered! Waiting for admin approval.",
			"id":      u.ID,
			"status":  u.Status,
		})
	}
}
