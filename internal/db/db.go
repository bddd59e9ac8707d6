// Package db stores computed trajectories in SQLite so past planning runs
// can be retrieved by identifier. Schema changes are managed by embedded
// migrations; see migrate.go.
package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/zingzy/wallbot/internal/monitoring"
	"github.com/zingzy/wallbot/internal/planner"
)

// ErrNotFound is returned when a trajectory ID does not exist.
var ErrNotFound = errors.New("trajectory not found")

type DB struct {
	*sql.DB
}

// Open opens (or creates) the SQLite database at path. It does not create
// the schema; call MigrateUp before first use.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer; serialising access through one
	// connection avoids SQLITE_BUSY under concurrent API requests.
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{sqlDB}, nil
}

// Trajectory is a persisted planning result: the wall geometry, the
// obstacle list, and the computed path with its headline statistics.
type Trajectory struct {
	ID                 int                `json:"id"`
	WallWidth          float64            `json:"wall_width"`
	WallHeight         float64            `json:"wall_height"`
	CellSize           float64            `json:"cell_size"`
	Obstacles          []planner.Obstacle `json:"obstacles"`
	Path               planner.Path       `json:"path"`
	ObstacleCount      int                `json:"obstacle_count"`
	PathPoints         int                `json:"path_points"`
	CoveragePercentage float64            `json:"coverage_percentage"`
	CreatedAt          time.Time          `json:"created_at"`
}

// TrajectorySummary is the listing row: identity and sizes, without the
// potentially large path payload.
type TrajectorySummary struct {
	ID            int     `json:"id"`
	WallWidth     float64 `json:"wall_width"`
	WallHeight    float64 `json:"wall_height"`
	ObstacleCount int     `json:"obstacle_count"`
	PathPoints    int     `json:"path_points"`
}

// CreateTrajectory inserts a trajectory and fills in its assigned ID.
// Obstacles and path are stored as JSON text columns.
func (db *DB) CreateTrajectory(t *Trajectory) error {
	obstaclesJSON, err := json.Marshal(t.Obstacles)
	if err != nil {
		return fmt.Errorf("failed to encode obstacles: %w", err)
	}
	pathJSON, err := json.Marshal(t.Path)
	if err != nil {
		return fmt.Errorf("failed to encode path: %w", err)
	}

	result, err := db.Exec(`
		INSERT INTO trajectories (
			wall_width, wall_height, cell_size, obstacles, path,
			obstacle_count, path_points, coverage_percentage
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.WallWidth, t.WallHeight, t.CellSize,
		string(obstaclesJSON), string(pathJSON),
		len(t.Obstacles), len(t.Path), t.CoveragePercentage,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trajectory: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get trajectory ID: %w", err)
	}

	t.ID = int(id)
	t.ObstacleCount = len(t.Obstacles)
	t.PathPoints = len(t.Path)
	return nil
}

// GetTrajectory retrieves a trajectory by ID, including the decoded
// obstacle list and path. Returns ErrNotFound when the ID does not exist.
func (db *DB) GetTrajectory(id int) (*Trajectory, error) {
	var (
		t             Trajectory
		obstaclesJSON string
		pathJSON      string
		createdAt     string
	)

	err := db.QueryRow(`
		SELECT id, wall_width, wall_height, cell_size, obstacles, path,
		       obstacle_count, path_points, coverage_percentage, created_at
		FROM trajectories WHERE id = ?`, id,
	).Scan(
		&t.ID, &t.WallWidth, &t.WallHeight, &t.CellSize,
		&obstaclesJSON, &pathJSON,
		&t.ObstacleCount, &t.PathPoints, &t.CoveragePercentage, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query trajectory %d: %w", id, err)
	}

	if err := json.Unmarshal([]byte(obstaclesJSON), &t.Obstacles); err != nil {
		return nil, fmt.Errorf("failed to decode obstacles for trajectory %d: %w", id, err)
	}
	if err := json.Unmarshal([]byte(pathJSON), &t.Path); err != nil {
		return nil, fmt.Errorf("failed to decode path for trajectory %d: %w", id, err)
	}
	if ts, err := time.Parse("2006-01-02 15:04:05", createdAt); err == nil {
		t.CreatedAt = ts.UTC()
	} else {
		// The row is still usable; surface the corrupt timestamp instead
		// of failing the read.
		monitoring.Logf("db: trajectory %d has unparseable created_at %q: %v", id, createdAt, err)
	}

	return &t, nil
}

// ListTrajectories returns summary rows ordered by ID, with offset/limit
// pagination.
func (db *DB) ListTrajectories(offset, limit int) ([]TrajectorySummary, error) {
	rows, err := db.Query(`
		SELECT id, wall_width, wall_height, obstacle_count, path_points
		FROM trajectories ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list trajectories: %w", err)
	}
	defer rows.Close()

	var summaries []TrajectorySummary
	for rows.Next() {
		var s TrajectorySummary
		if err := rows.Scan(&s.ID, &s.WallWidth, &s.WallHeight, &s.ObstacleCount, &s.PathPoints); err != nil {
			return nil, fmt.Errorf("failed to scan trajectory row: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// CountTrajectories returns the total number of stored trajectories.
func (db *DB) CountTrajectories() (int, error) {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM trajectories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count trajectories: %w", err)
	}
	return n, nil
}

// DeleteTrajectory removes a trajectory by ID. Returns ErrNotFound when
// the ID does not exist.
func (db *DB) DeleteTrajectory(id int) error {
	result, err := db.Exec(`DELETE FROM trajectories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trajectory %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
