// Package api exposes the trajectory planning service over HTTP: create a
// plan, fetch or list stored trajectories, delete them, preview a path,
// and dispatch a stored trajectory to the robot.
package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/zingzy/wallbot/internal/config"
	"github.com/zingzy/wallbot/internal/db"
	"github.com/zingzy/wallbot/internal/httputil"
	"github.com/zingzy/wallbot/internal/robotlink"
	"github.com/zingzy/wallbot/internal/version"
)

// ANSI escape codes for access-log colouring.
const (
	colorCyan      = "\033[36m"
	colorReset     = "\033[0m"
	colorYellow    = "\033[33m"
	colorBoldGreen = "\033[1;32m"
	colorBoldRed   = "\033[1;31m"
)

type Server struct {
	db              *db.DB
	link            robotlink.Controller
	defaultCellSize float64
	maxGridCells    int
	units           string
}

// NewServer wires the API against its collaborators. link may be nil when
// no motion controller is attached; dispatch requests then fail with 503.
func NewServer(database *db.DB, link robotlink.Controller, cfg *config.Config) *Server {
	return &Server{
		db:              database,
		link:            link,
		defaultCellSize: cfg.GetDefaultCellSize(),
		maxGridCells:    cfg.GetMaxGridCells(),
		units:           cfg.GetUnits(),
	}
}

// ServeMux returns the route table for the API.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/trajectories", s.handleTrajectories)
	mux.HandleFunc("/api/trajectories/", s.handleTrajectoryByID)
	mux.HandleFunc("/api/config", s.showConfig)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	default:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	}
}

// LoggingMiddleware logs request ID, status, method, path, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), requestID[:8], r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	httputil.WriteJSONOK(w, map[string]interface{}{
		"default_cell_size": s.defaultCellSize,
		"max_grid_cells":    s.maxGridCells,
		"units":             s.units,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}
