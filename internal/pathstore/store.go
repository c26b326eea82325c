// Package pathstore persists named reference paths in SQLite.
package pathstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/frenet/internal/frenet"
	"github.com/banshee-data/frenet/internal/monitoring"
	"github.com/banshee-data/frenet/internal/pathio"
	"github.com/banshee-data/frenet/internal/timeutil"
)

var (
	// ErrNotFound is returned when no stored path matches an ID or name.
	ErrNotFound = errors.New("path not found")
	// ErrDuplicateName is returned when inserting a name that already exists.
	ErrDuplicateName = errors.New("path name already exists")
)

var logf = monitoring.NewPrefixLogger("pathstore")

// StoredPath is a reference path row.
type StoredPath struct {
	ID           string
	Name         string
	Description  string
	Vertices     []r2.Vec
	MaxArcLength float64 // metres, derived on write
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FromPath converts a decoded path file into a row ready for Insert.
func FromPath(p *pathio.Path) *StoredPath {
	return &StoredPath{
		Name:        p.Name,
		Description: p.Description,
		Vertices:    append([]r2.Vec(nil), p.Vertices...),
	}
}

// Path converts the row back into a path file value.
func (sp *StoredPath) Path() *pathio.Path {
	return &pathio.Path{
		Name:        sp.Name,
		Description: sp.Description,
		Vertices:    append([]r2.Vec(nil), sp.Vertices...),
	}
}

// Store wraps the SQLite database holding reference paths.
type Store struct {
	db    *sql.DB
	clock timeutil.Clock
}

// Open opens (creating if needed) the database at dsn and applies the
// connection pragmas. Call MigrateUp before first use of a new database.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open path store: %w", err)
	}
	// One connection keeps the pragmas and in-memory databases consistent.
	db.SetMaxOpenConns(1)
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA journal_mode=WAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return &Store{db: db, clock: timeutil.RealClock{}}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert validates sp, derives its arc length, assigns an ID when empty and
// stores it. CreatedAt and UpdatedAt are set on sp.
func (s *Store) Insert(sp *StoredPath) error {
	m, err := frenet.New(sp.Vertices)
	if err != nil {
		return fmt.Errorf("insert path %q: %w", sp.Name, err)
	}
	if _, err := s.GetByName(sp.Name); err == nil {
		return fmt.Errorf("insert path: %w: %q", ErrDuplicateName, sp.Name)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	if sp.ID == "" {
		sp.ID = uuid.NewString()
	}

	verticesJSON, err := encodeVertices(sp.Vertices)
	if err != nil {
		return err
	}
	now := s.clock.Now().UTC()
	sp.MaxArcLength = m.MaxArcLength()
	sp.CreatedAt = now
	sp.UpdatedAt = now

	_, err = s.db.Exec(`
		INSERT INTO reference_paths (
			path_id, name, description, vertices_json, vertex_count,
			max_arc_length, created_at_ns, updated_at_ns
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sp.ID, sp.Name, sp.Description, verticesJSON, len(sp.Vertices),
		sp.MaxArcLength, now.UnixNano(), now.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert path: %w", err)
	}
	logf("inserted %q (%s): %d vertices, %.3f m", sp.Name, sp.ID, len(sp.Vertices), sp.MaxArcLength)
	return nil
}

const selectColumns = `
	SELECT path_id, name, description, vertices_json, max_arc_length,
		created_at_ns, updated_at_ns
	FROM reference_paths`

// Get returns the path with the given ID.
func (s *Store) Get(id string) (*StoredPath, error) {
	sp, err := scanPath(s.db.QueryRow(selectColumns+` WHERE path_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get path: %w", err)
	}
	return sp, nil
}

// GetByName returns the path with the given name.
func (s *Store) GetByName(name string) (*StoredPath, error) {
	sp, err := scanPath(s.db.QueryRow(selectColumns+` WHERE name = ?`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: name %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("get path by name: %w", err)
	}
	return sp, nil
}

// List returns every stored path ordered by name.
func (s *Store) List() ([]*StoredPath, error) {
	rows, err := s.db.Query(selectColumns + ` ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list paths: %w", err)
	}
	defer rows.Close()

	var paths []*StoredPath
	for rows.Next() {
		sp, err := scanPath(rows)
		if err != nil {
			return nil, fmt.Errorf("scan path: %w", err)
		}
		paths = append(paths, sp)
	}
	return paths, rows.Err()
}

// UpdateVertices replaces the geometry of a stored path and refreshes its arc
// length and UpdatedAt.
func (s *Store) UpdateVertices(id string, vertices []r2.Vec) error {
	m, err := frenet.New(vertices)
	if err != nil {
		return fmt.Errorf("update path %s: %w", id, err)
	}
	verticesJSON, err := encodeVertices(vertices)
	if err != nil {
		return err
	}

	res, err := s.db.Exec(`
		UPDATE reference_paths
		SET vertices_json = ?, vertex_count = ?, max_arc_length = ?, updated_at_ns = ?
		WHERE path_id = ?`,
		verticesJSON, len(vertices), m.MaxArcLength(), s.clock.Now().UnixNano(), id,
	)
	if err != nil {
		return fmt.Errorf("update path: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: id %s", ErrNotFound, id)
	}
	return nil
}

// Delete removes a stored path.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM reference_paths WHERE path_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete path: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: id %s", ErrNotFound, id)
	}
	logf("deleted %s", id)
	return nil
}

// Matcher loads a stored path and builds its matcher.
func (s *Store) Matcher(id string) (*frenet.PathMatcher, error) {
	sp, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return frenet.New(sp.Vertices)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPath(row rowScanner) (*StoredPath, error) {
	var (
		sp                       StoredPath
		description              sql.NullString
		verticesJSON             string
		createdAtNs, updatedAtNs int64
	)
	if err := row.Scan(&sp.ID, &sp.Name, &description, &verticesJSON, &sp.MaxArcLength, &createdAtNs, &updatedAtNs); err != nil {
		return nil, err
	}
	sp.Description = description.String
	sp.CreatedAt = time.Unix(0, createdAtNs).UTC()
	sp.UpdatedAt = time.Unix(0, updatedAtNs).UTC()

	var pairs [][2]float64
	if err := json.Unmarshal([]byte(verticesJSON), &pairs); err != nil {
		return nil, fmt.Errorf("decode vertices of %s: %w", sp.ID, err)
	}
	sp.Vertices = make([]r2.Vec, len(pairs))
	for i, p := range pairs {
		sp.Vertices[i] = r2.Vec{X: p[0], Y: p[1]}
	}
	return &sp, nil
}

func encodeVertices(vertices []r2.Vec) (string, error) {
	pairs := make([][2]float64, len(vertices))
	for i, v := range vertices {
		pairs[i] = [2]float64{v.X, v.Y}
	}
	data, err := json.Marshal(pairs)
	if err != nil {
		return "", fmt.Errorf("encode vertices: %w", err)
	}
	return string(data), nil
}
