package handlers

import (
	"encoding/json"
	"net/http"

	"bookcatalog/internal/apperr"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func respondJSON(w http.ResponseWriter, v interface{}) {
	respondJSONStatus(w, http.StatusOK, v)
}

func respondJSONStatus(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

type errorBody struct {
	Kind  apperr.Kind `json:"kind"`
	Error string      `json:"error"`
}

// RespondError writes err as {"kind", "error"} with the status its kind
// maps to. Server-side failures are logged with the request id.
func RespondError(lg *zap.SugaredLogger) func(w http.ResponseWriter, r *http.Request, err error) {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		kind := apperr.KindOf(err)
		status := apperr.HTTPStatus(kind)
		if status >= http.StatusInternalServerError {
			lg.Errorw("request failed",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"error", err,
			)
		} else {
			lg.Debugw("request rejected", "kind", kind, "path", r.URL.Path)
		}
		respondJSONStatus(w, status, errorBody{Kind: kind, Error: apperr.Message(err)})
	}
}
