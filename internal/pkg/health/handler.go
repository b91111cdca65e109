package health

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
)

// Info is the payload served by the ping endpoint.
type Info struct {
	Service     string    `json:"service"`
	Version     string    `json:"version"`
	GitCommit   string    `json:"git_commit"`
	GoVersion   string    `json:"go_version"`
	Hostname    string    `json:"hostname"`
	Environment string    `json:"environment"`
	StartedAt   time.Time `json:"started_at"`
	UptimeSec   int64     `json:"uptime_seconds"`
	ServerTime  time.Time `json:"server_time"`
}

// Check reports whether one named dependency is ready.
type Check func() error

// Handler serves the liveness and readiness endpoints. Liveness only says
// the process answers; readiness also requires every registered dependency
// check to pass.
type Handler struct {
	info    Info
	started time.Time
	checks  map[string]Check
}

// NewHandler describes the running service. Version and git commit come
// from the VERSION and GIT_COMMIT environment when the build sets them.
func NewHandler(service, environment string) *Handler {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return &Handler{
		info: Info{
			Service:     service,
			Version:     envOr("VERSION", "development"),
			GitCommit:   envOr("GIT_COMMIT", "unknown"),
			GoVersion:   runtime.Version(),
			Hostname:    hostname,
			Environment: environment,
		},
		started: time.Now(),
		checks:  make(map[string]Check),
	}
}

// AddCheck registers a named readiness dependency. Register before
// mounting the routes; the map is not guarded.
func (h *Handler) AddCheck(name string, check Check) {
	h.checks[name] = check
}

// Ping returns build and runtime information
func (h *Handler) Ping(c echo.Context) error {
	info := h.info
	info.StartedAt = h.started
	info.UptimeSec = int64(time.Since(h.started).Seconds())
	info.ServerTime = time.Now()
	return c.JSON(http.StatusOK, info)
}

// Live answers OK while the process can serve requests
func (h *Handler) Live(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// Ready answers OK only when every dependency check passes
func (h *Handler) Ready(c echo.Context) error {
	failures := make(map[string]string)
	for name, check := range h.checks {
		if err := check(); err != nil {
			failures[name] = err.Error()
		}
	}
	if len(failures) > 0 {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"status":   "unavailable",
			"failures": failures,
		})
	}
	return c.String(http.StatusOK, "OK")
}

// RegisterRoutes mounts the endpoints outside the authenticated API group
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ping", h.Ping)
	e.GET("/health", h.Live)
	e.GET("/healthz", h.Live)
	e.GET("/ready", h.Ready)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
