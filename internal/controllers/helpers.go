package controllers

import (
	"net/http"

	json "github.com/goccy/go-json"

	"cpd/internal/models"
	"cpd/internal/providers"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// platformParam reads ?platform= or the platform form field.
func platformParam(r *http.Request) (models.Platform, bool) {
	return models.ParsePlatform(r.FormValue("platform"))
}

func anyLoading(entries []models.PlatformFetchState) bool {
	for _, e := range entries {
		if e.Loading() {
			return true
		}
	}
	return false
}

func logInternal(logger providers.Logger, r *http.Request, err error) {
	logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "%s %s: %s", r.Method, r.URL.Path, err)
}
