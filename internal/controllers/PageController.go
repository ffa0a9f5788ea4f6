package controllers

import (
	"errors"
	"net/http"
	"net/url"

	"cpd/internal/models"
	"cpd/internal/providers"
	"cpd/internal/services"
	"cpd/internal/views"
)

// autoRefreshSeconds is how often the dashboard reloads while entries load.
const autoRefreshSeconds = 2

type PageController struct {
	logger   providers.Logger
	board    services.DashboardServiceInterface
	profiles services.ProfileServiceInterface
	renderer views.RendererInterface
}

func NewPageController(logger providers.Logger, board services.DashboardServiceInterface, profiles services.ProfileServiceInterface, renderer views.RendererInterface) *PageController {
	return &PageController{
		logger:   logger,
		board:    board,
		profiles: profiles,
		renderer: renderer,
	}
}

func (pc *PageController) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pc.renderer.Render(w, page, data); err != nil {
		logInternal(pc.logger, r, err)
	}
}

func (pc *PageController) Landing(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	pc.render(w, r, http.StatusOK, "landing", nil)
}

func (pc *PageController) OnboardingForm(w http.ResponseWriter, r *http.Request) {
	page := views.OnboardingPage{Platforms: models.Platforms}
	profile, err := pc.profiles.Load(r.Context())
	switch {
	case err == nil:
		page.Profile = *profile
	case !errors.Is(err, services.ErrNoProfile):
		logInternal(pc.logger, r, err)
	}
	pc.render(w, r, http.StatusOK, "onboarding", page)
}

func (pc *PageController) OnboardingSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	profile := models.Profile{Name: r.PostForm.Get("name")}
	for _, platform := range models.Platforms {
		profile.SetUsername(platform, r.PostForm.Get(string(platform)))
	}

	err := pc.profiles.Save(r.Context(), &profile)
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		pc.render(w, r, http.StatusUnprocessableEntity, "onboarding", views.OnboardingPage{
			Profile:   profile,
			Platforms: models.Platforms,
			Error:     verr.Error(),
		})
		return
	}
	if err != nil {
		logInternal(pc.logger, r, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if _, err := pc.board.Mount(r.Context()); err != nil {
		logInternal(pc.logger, r, err)
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (pc *PageController) Dashboard(w http.ResponseWriter, r *http.Request) {
	onboarded, err := pc.board.EnsureMounted(r.Context())
	if err != nil {
		logInternal(pc.logger, r, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !onboarded {
		http.Redirect(w, r, "/onboarding", http.StatusSeeOther)
		return
	}

	entries := pc.board.Snapshot()
	page := views.DashboardPage{
		Entries:   entries,
		Fetching:  pc.board.IsFetching() || anyLoading(entries),
		AutoRetry: autoRefreshSeconds,
	}
	if profile, err := pc.profiles.Load(r.Context()); err == nil {
		page.Name = profile.Name
	}
	if selected, ok := models.SelectEntry(entries, r.URL.Query().Get("platform")); ok {
		page.Selected = selected
		page.View = models.ViewStateOf(selected)
	}
	pc.render(w, r, http.StatusOK, "dashboard", page)
}

func (pc *PageController) Retry(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	platform, ok := platformParam(r)
	if !ok {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	err := pc.board.RefreshAsync(platform)
	switch {
	case errors.Is(err, services.ErrNotMounted):
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	case errors.Is(err, services.ErrUnknownPlatform):
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	case err != nil:
		logInternal(pc.logger, r, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/dashboard?platform="+url.QueryEscape(string(platform)), http.StatusSeeOther)
}

func (pc *PageController) Achievements(w http.ResponseWriter, r *http.Request) {
	pc.render(w, r, http.StatusOK, "achievements", views.AchievementsPage{Achievements: models.DefaultAchievements()})
}
