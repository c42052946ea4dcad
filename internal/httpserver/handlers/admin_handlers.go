package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"bookcatalog/internal/auth"
	"bookcatalog/internal/models"
	"bookcatalog/internal/services/accounts"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func PendingAuthors(svc *accounts.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	fail := RespondError(lg)
	return func(w http.ResponseWriter, r *http.Request) {
		pending, err := svc.ListPendingAuthors(r.Context(), auth.FromContext(r.Context()))
		if err != nil {
			fail(w, r, err)
			return
		}
		respondJSON(w, pending)
	}
}

func ApproveAuthor(svc *accounts.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	fail := RespondError(lg)
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail(w, r, errBadJSON)
			return
		}
		status := models.Status(strings.ToUpper(strings.TrimSpace(req.Status)))
		id := chi.URLParam(r, "id")
		if err := svc.ApproveAuthor(r.Context(), auth.FromContext(r.Context()), id, status); err != nil {
			fail(w, r, err)
			return
		}
		verb := "approved"
		if status == models.StatusRejected {
			verb = "rejected"
		}
		respondJSON(w, map[string]any{"message": "Author " + verb + " successfully", "id": id, "status": status})
	}
}
