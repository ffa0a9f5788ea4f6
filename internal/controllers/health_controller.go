package controllers

import (
	"fmt"
	"net/http"
	"time"

	"cpd/internal/services"
)

type HealthController struct {
	board     services.DashboardServiceInterface
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Onboarded     bool    `json:"onboarded"`
	Fetching      bool    `json:"fetching"`
	Platforms     int     `json:"platforms"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Onboarded:     hc.board.Onboarded(),
		Fetching:      hc.board.IsFetching(),
		Platforms:     len(hc.board.Snapshot()),
	})
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(board services.DashboardServiceInterface) *HealthController {
	return &HealthController{
		board:     board,
		startTime: time.Now(),
	}
}
