package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	Iservices "assistant-connector/internal/domain/interfaces/services"
	"assistant-connector/internal/infra/logger"
)

// OpsHandlers serves the operational endpoints of the connector. The
// bot itself talks to Telegram over long polling; this surface exists
// for probes and humans.
type OpsHandlers struct {
	Logger    *logger.Logger
	Sessions  Iservices.ISessionService
	StartedAt time.Time
}

func NewOpsHandlers(log *logger.Logger, sessions Iservices.ISessionService) *OpsHandlers {
	return &OpsHandlers{Logger: log, Sessions: sessions, StartedAt: time.Now()}
}

func (th *OpsHandlers) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	response := map[string]interface{}{
		"sessions":       th.Sessions.Count(),
		"uptime_seconds": int(time.Since(th.StartedAt).Seconds()),
	}
	json.NewEncoder(w).Encode(response)
}
