package controllers

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"cpd/internal/models"
	"cpd/internal/providers"
	"cpd/internal/services"
)

type ApiController struct {
	logger   providers.Logger
	board    services.DashboardServiceInterface
	profiles services.ProfileServiceInterface
}

func NewApiController(logger providers.Logger, board services.DashboardServiceInterface, profiles services.ProfileServiceInterface) *ApiController {
	return &ApiController{
		logger:   logger,
		board:    board,
		profiles: profiles,
	}
}

type entryResponse struct {
	models.PlatformFetchState
	View models.ViewKind `json:"view"`
}

type dashboardResponse struct {
	Onboarded bool            `json:"onboarded"`
	Fetching  bool            `json:"fetching"`
	Entries   []entryResponse `json:"entries"`
}

func (ac *ApiController) dashboard(onboarded bool) dashboardResponse {
	entries := ac.board.Snapshot()
	resp := dashboardResponse{
		Onboarded: onboarded,
		Fetching:  ac.board.IsFetching() || anyLoading(entries),
		Entries:   make([]entryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, entryResponse{PlatformFetchState: e, View: models.ViewStateOf(e)})
	}
	return resp
}

func (ac *ApiController) GetDashboard(w http.ResponseWriter, r *http.Request) {
	onboarded, err := ac.board.EnsureMounted(r.Context())
	if err != nil {
		logInternal(ac.logger, r, err)
		writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, ac.dashboard(onboarded))
}

// RefreshDashboard reloads the stored profile and refetches every platform.
// With ?wait=1 it answers once the mount's fetch round has settled.
func (ac *ApiController) RefreshDashboard(w http.ResponseWriter, r *http.Request) {
	onboarded, err := ac.board.Mount(r.Context())
	if err != nil {
		logInternal(ac.logger, r, err)
		writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if r.URL.Query().Get("wait") != "" {
		ac.board.Wait()
		writeJSON(w, http.StatusOK, ac.dashboard(onboarded))
		return
	}
	writeJSON(w, http.StatusAccepted, ac.dashboard(onboarded))
}

// Retry refetches one platform and answers with its settled state.
func (ac *ApiController) Retry(w http.ResponseWriter, r *http.Request) {
	platform, ok := platformParam(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "unknown platform")
		return
	}
	if _, err := ac.board.EnsureMounted(r.Context()); err != nil {
		logInternal(ac.logger, r, err)
		writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	entry, err := ac.board.Refresh(platform)
	switch {
	case errors.Is(err, services.ErrUnknownPlatform), errors.Is(err, services.ErrNotMounted):
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		logInternal(ac.logger, r, err)
		writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, entryResponse{PlatformFetchState: entry, View: models.ViewStateOf(entry)})
}

func (ac *ApiController) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := ac.profiles.Load(r.Context())
	if errors.Is(err, services.ErrNoProfile) {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		logInternal(ac.logger, r, err)
		writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (ac *ApiController) SaveProfile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var profile models.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Bad Request")
		return
	}

	err := ac.profiles.Save(r.Context(), &profile)
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		writeJSONError(w, http.StatusUnprocessableEntity, verr.Error())
		return
	}
	if err != nil {
		logInternal(ac.logger, r, err)
		writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if _, err := ac.board.Mount(r.Context()); err != nil {
		logInternal(ac.logger, r, err)
	}
	writeJSON(w, http.StatusCreated, profile)
}

func (ac *ApiController) GetAchievements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.DefaultAchievements())
}
