package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"time"

	"cpd/internal/models"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

var pages = []string{"landing", "onboarding", "dashboard", "achievements"}

type RendererInterface interface {
	Render(w io.Writer, page string, data any) error
}

type Renderer struct {
	templates map[string]*template.Template
}

// OnboardingPage is the form model. Error is set on a rejected submit.
type OnboardingPage struct {
	Profile   models.Profile
	Platforms []models.Platform
	Error     string
}

type DashboardPage struct {
	Name      string
	Entries   []models.PlatformFetchState
	Selected  models.PlatformFetchState
	View      models.ViewKind
	Fetching  bool
	AutoRetry int
}

type AchievementsPage struct {
	Achievements []models.Achievement
}

var funcs = template.FuncMap{
	"title":   func(p models.Platform) string { return p.Title() },
	"initial": func(p models.Platform) string { return p.Initial() },
	"username": func(p models.Profile, platform models.Platform) string {
		return p.Username(platform)
	},
	"percent": func(part, total int) int {
		if total <= 0 {
			return 0
		}
		return part * 100 / total
	},
	"ago": func(t *time.Time) string {
		if t == nil {
			return "never"
		}
		return t.Format("15:04:05")
	},
	"deref": func(v *int) int {
		if v == nil {
			return 0
		}
		return *v
	},
	"derefFloat": func(v *float64) float64 {
		if v == nil {
			return 0
		}
		return *v
	},
}

func NewRenderer() (RendererInterface, error) {
	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFiles, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", page, err)
		}
		r.templates[page] = t
	}
	return r, nil
}

// Render executes the page into a buffer first so a template error never
// leaves a half-written response.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	t, ok := r.templates[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}
