package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/zingzy/wallbot/internal/db"
	"github.com/zingzy/wallbot/internal/httputil"
	"github.com/zingzy/wallbot/internal/planner"
)

// trajectoryRequest is the planning request payload. CellSize is optional;
// the configured default applies when omitted.
type trajectoryRequest struct {
	WallWidth  float64            `json:"wall_width"`
	WallHeight float64            `json:"wall_height"`
	CellSize   float64            `json:"cell_size,omitempty"`
	Obstacles  []planner.Obstacle `json:"obstacles,omitempty"`
}

type trajectoryCreateResponse struct {
	ID            int                `json:"id"`
	WallWidth     float64            `json:"wall_width"`
	WallHeight    float64            `json:"wall_height"`
	CellSize      float64            `json:"cell_size"`
	Obstacles     []planner.Obstacle `json:"obstacles"`
	Path          planner.Path       `json:"path"`
	Metadata      planner.Metadata   `json:"metadata"`
	ExecutionTime float64            `json:"execution_time"`
}

type trajectoryListResponse struct {
	Trajectories []db.TrajectorySummary `json:"trajectories"`
	Total        int                    `json:"total"`
}

type deleteResponse struct {
	Message   string `json:"message"`
	DeletedID int    `json:"deleted_id"`
}

type dispatchResponse struct {
	Message    string `json:"message"`
	ID         int    `json:"id"`
	PointsSent int    `json:"points_sent"`
}

// handleTrajectories serves the collection route: POST creates a plan,
// GET lists stored trajectories.
func (s *Server) handleTrajectories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createTrajectory(w, r)
	case http.MethodGet:
		s.listTrajectories(w, r)
	default:
		httputil.MethodNotAllowed(w)
	}
}

func (s *Server) createTrajectory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req trajectoryRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	wall := planner.Wall{
		Width:    req.WallWidth,
		Height:   req.WallHeight,
		CellSize: req.CellSize,
	}
	if wall.CellSize == 0 {
		wall.CellSize = s.defaultCellSize
	}

	// Reject oversized grids before any allocation. The cap is explicit
	// configuration; the planner itself imposes no limit.
	if s.maxGridCells > 0 && wall.Width > 0 && wall.Height > 0 && wall.CellSize > 0 {
		rows, cols := planner.GridSize(wall)
		if rows*cols > s.maxGridCells {
			httputil.BadRequest(w, fmt.Sprintf(
				"grid of %d cells exceeds the configured limit of %d; increase cell_size",
				rows*cols, s.maxGridCells))
			return
		}
	}

	path, meta, err := planner.GenerateTrajectory(wall, req.Obstacles)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	obstacles := req.Obstacles
	if obstacles == nil {
		obstacles = []planner.Obstacle{}
	}

	traj := &db.Trajectory{
		WallWidth:          wall.Width,
		WallHeight:         wall.Height,
		CellSize:           wall.CellSize,
		Obstacles:          obstacles,
		Path:               path,
		CoveragePercentage: meta.CoveragePercentage,
	}
	if err := s.db.CreateTrajectory(traj); err != nil {
		log.Printf("failed to store trajectory: %v", err)
		httputil.InternalServerError(w, "failed to store trajectory")
		return
	}

	httputil.WriteJSONCreated(w, trajectoryCreateResponse{
		ID:            traj.ID,
		WallWidth:     wall.Width,
		WallHeight:    wall.Height,
		CellSize:      wall.CellSize,
		Obstacles:     obstacles,
		Path:          path,
		Metadata:      meta,
		ExecutionTime: time.Since(start).Seconds(),
	})
}

func (s *Server) listTrajectories(w http.ResponseWriter, r *http.Request) {
	skip, limit := 0, 100
	if v := r.URL.Query().Get("skip"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			httputil.BadRequest(w, "invalid 'skip' parameter")
			return
		}
		skip = parsed
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			httputil.BadRequest(w, "invalid 'limit' parameter")
			return
		}
		limit = parsed
	}

	summaries, err := s.db.ListTrajectories(skip, limit)
	if err != nil {
		log.Printf("failed to list trajectories: %v", err)
		httputil.InternalServerError(w, "failed to list trajectories")
		return
	}
	if summaries == nil {
		summaries = []db.TrajectorySummary{}
	}

	total, err := s.db.CountTrajectories()
	if err != nil {
		log.Printf("failed to count trajectories: %v", err)
		httputil.InternalServerError(w, "failed to list trajectories")
		return
	}

	httputil.WriteJSONOK(w, trajectoryListResponse{Trajectories: summaries, Total: total})
}

// handleTrajectoryByID serves item routes: /api/trajectories/{id} plus the
// {id}/preview and {id}/dispatch subresources.
func (s *Server) handleTrajectoryByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/trajectories/")
	idPart, sub, _ := strings.Cut(rest, "/")

	id, err := strconv.Atoi(idPart)
	if err != nil || id < 1 {
		httputil.BadRequest(w, "invalid trajectory ID")
		return
	}

	switch sub {
	case "":
		switch r.Method {
		case http.MethodGet:
			s.getTrajectory(w, id)
		case http.MethodDelete:
			s.deleteTrajectory(w, id)
		default:
			httputil.MethodNotAllowed(w)
		}
	case "preview":
		if r.Method != http.MethodGet {
			httputil.MethodNotAllowed(w)
			return
		}
		s.previewTrajectory(w, id)
	case "dispatch":
		if r.Method != http.MethodPost {
			httputil.MethodNotAllowed(w)
			return
		}
		s.dispatchTrajectory(w, id)
	default:
		httputil.NotFound(w, "unknown trajectory resource")
	}
}

func (s *Server) getTrajectory(w http.ResponseWriter, id int) {
	traj, err := s.db.GetTrajectory(id)
	if errors.Is(err, db.ErrNotFound) {
		httputil.NotFound(w, "trajectory not found")
		return
	}
	if err != nil {
		log.Printf("failed to retrieve trajectory %d: %v", id, err)
		httputil.InternalServerError(w, "failed to retrieve trajectory")
		return
	}
	httputil.WriteJSONOK(w, traj)
}

func (s *Server) deleteTrajectory(w http.ResponseWriter, id int) {
	err := s.db.DeleteTrajectory(id)
	if errors.Is(err, db.ErrNotFound) {
		httputil.NotFound(w, "trajectory not found")
		return
	}
	if err != nil {
		log.Printf("failed to delete trajectory %d: %v", id, err)
		httputil.InternalServerError(w, "failed to delete trajectory")
		return
	}
	httputil.WriteJSONOK(w, deleteResponse{
		Message:   "trajectory deleted successfully",
		DeletedID: id,
	})
}

// dispatchTrajectory streams a stored path to the motion controller.
func (s *Server) dispatchTrajectory(w http.ResponseWriter, id int) {
	if s.link == nil {
		httputil.WriteJSONError(w, http.StatusServiceUnavailable, "no robot link attached")
		return
	}

	traj, err := s.db.GetTrajectory(id)
	if errors.Is(err, db.ErrNotFound) {
		httputil.NotFound(w, "trajectory not found")
		return
	}
	if err != nil {
		log.Printf("failed to retrieve trajectory %d: %v", id, err)
		httputil.InternalServerError(w, "failed to retrieve trajectory")
		return
	}

	if err := s.link.SendTrajectory(traj.Path, traj.CellSize); err != nil {
		log.Printf("failed to dispatch trajectory %d: %v", id, err)
		httputil.InternalServerError(w, "failed to dispatch trajectory to robot")
		return
	}

	httputil.WriteJSON(w, http.StatusAccepted, dispatchResponse{
		Message:    "trajectory dispatched",
		ID:         id,
		PointsSent: len(traj.Path),
	})
}
