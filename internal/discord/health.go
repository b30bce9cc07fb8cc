package discord

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// HealthStatus represents the bot's health status
type HealthStatus struct {
	Status           string     `json:"status"`
	Uptime           string     `json:"uptime"`
	Connected        bool       `json:"connected"`
	CommandsReceived int64      `json:"commands_received"`
	LastCommandTime  *time.Time `json:"last_command_time,omitempty"`
}

var (
	startTime       = time.Now()
	commandCounter  atomic.Int64
	lastCommandTime atomic.Int64
)

// RecordCommand increments the command counter
func RecordCommand() {
	commandCounter.Add(1)
	lastCommandTime.Store(time.Now().UnixNano())
}

// CommandsReceived returns the number of commands handled since start
func CommandsReceived() int64 {
	return commandCounter.Load()
}

// Uptime returns the time since the process started
func Uptime() time.Duration {
	return time.Since(startTime)
}

// HandleHealth reports liveness. It always answers 200 while the process serves; a
// disconnected gateway only shows as "degraded" in the body.
func (h *HTTPServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	connected := h.bot != nil && h.bot.Session != nil && h.bot.Session.DataReady

	health := HealthStatus{
		Status:           "healthy",
		Uptime:           Uptime().Round(time.Second).String(),
		Connected:        connected,
		CommandsReceived: CommandsReceived(),
	}
	if last := lastCommandTime.Load(); last != 0 {
		t := time.Unix(0, last).UTC()
		health.LastCommandTime = &t
	}

	if !connected {
		health.Status = "degraded"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// Headers are already sent, nothing useful to do with an encode error
	_ = json.NewEncoder(w).Encode(health)
}
