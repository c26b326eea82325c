package pathstore

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/frenet/internal/frenet"
	"github.com/banshee-data/frenet/internal/monitoring"
	"github.com/banshee-data/frenet/internal/pathio"
	"github.com/banshee-data/frenet/internal/testutil"
	"github.com/banshee-data/frenet/internal/timeutil"
)

var epoch = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	monitoring.SetLogger(t.Logf)
	t.Cleanup(func() { monitoring.SetLogger(nil) })

	s, err := Open(filepath.Join(t.TempDir(), "paths.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.MigrateUp())

	clock := timeutil.NewMockClock(epoch)
	clock.SetStep(time.Second)
	s.clock = clock
	return s
}

func TestMigrate(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "paths.db"))
	require.NoError(t, err)
	defer s.Close()

	version, dirty, err := s.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
	assert.False(t, dirty)

	require.NoError(t, s.MigrateUp())
	require.NoError(t, s.MigrateUp(), "second MigrateUp must be a no-op")
	version, dirty, err = s.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	require.NoError(t, s.MigrateDown())
	_, err = s.List()
	assert.Error(t, err, "table should be dropped")
}

func TestInsertAndGet(t *testing.T) {
	s := newTestStore(t)

	sp := &StoredPath{Name: "stairs", Description: "test staircase", Vertices: testutil.Staircase()}
	require.NoError(t, s.Insert(sp))

	_, err := uuid.Parse(sp.ID)
	assert.NoError(t, err, "generated ID should be a UUID")
	assert.InDelta(t, 4*math.Sqrt2+4, sp.MaxArcLength, 1e-9)
	assert.Equal(t, epoch.Add(time.Second), sp.CreatedAt)

	got, err := s.Get(sp.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(sp, got); diff != "" {
		t.Errorf("Get mismatch (-want +got):\n%s", diff)
	}

	byName, err := s.GetByName("stairs")
	require.NoError(t, err)
	assert.Equal(t, sp.ID, byName.ID)
}

func TestInsert_KeepsExplicitID(t *testing.T) {
	s := newTestStore(t)

	sp := &StoredPath{ID: "main-street", Name: "main", Vertices: testutil.HorizontalLine()}
	require.NoError(t, s.Insert(sp))
	assert.Equal(t, "main-street", sp.ID)

	_, err := s.Get("main-street")
	assert.NoError(t, err)
}

func TestInsert_Rejects(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Insert(&StoredPath{Name: "line", Vertices: testutil.HorizontalLine()}))

	dup := &StoredPath{Name: "line", Vertices: testutil.SlopedLine()}
	err := s.Insert(dup)
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.Empty(t, dup.ID, "a rejected insert must not assign an ID")

	err = s.Insert(&StoredPath{Name: "point", Vertices: testutil.Vertices(1, 1)})
	assert.ErrorIs(t, err, frenet.ErrInvalidInput)

	paths, err := s.List()
	require.NoError(t, err)
	assert.Len(t, paths, 1)
}

func TestNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetByName("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete("missing"), ErrNotFound)
	assert.ErrorIs(t, s.UpdateVertices("missing", testutil.HorizontalLine()), ErrNotFound)
	_, err = s.Matcher("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList(t *testing.T) {
	s := newTestStore(t)

	for _, name := range []string{"charlie", "alpha", "bravo"} {
		require.NoError(t, s.Insert(&StoredPath{Name: name, Vertices: testutil.HorizontalLine()}))
	}
	paths, err := s.List()
	require.NoError(t, err)

	var names []string
	for _, p := range paths {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"alpha", "bravo", "charlie"}, names)
}

func TestUpdateVertices(t *testing.T) {
	s := newTestStore(t)

	sp := &StoredPath{Name: "line", Vertices: testutil.HorizontalLine()}
	require.NoError(t, s.Insert(sp))
	require.NoError(t, s.UpdateVertices(sp.ID, testutil.SlopedLine()))

	got, err := s.Get(sp.ID)
	require.NoError(t, err)
	assert.Equal(t, testutil.SlopedLine(), got.Vertices)
	assert.Equal(t, 15.0, got.MaxArcLength)
	assert.Equal(t, sp.CreatedAt, got.CreatedAt)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))

	err = s.UpdateVertices(sp.ID, testutil.Vertices(0, 0, 0, 0))
	assert.ErrorIs(t, err, frenet.ErrInvalidInput)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)

	sp := &StoredPath{Name: "line", Vertices: testutil.HorizontalLine()}
	require.NoError(t, s.Insert(sp))
	require.NoError(t, s.Delete(sp.ID))

	_, err := s.Get(sp.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMatcher(t *testing.T) {
	s := newTestStore(t)

	sp := &StoredPath{Name: "line", Vertices: testutil.HorizontalLine()}
	require.NoError(t, s.Insert(sp))

	m, err := s.Matcher(sp.ID)
	require.NoError(t, err)
	arc, offset, err := m.Match(0, 2)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, arc, 1e-9)
	assert.InDelta(t, 1.0, offset, 1e-9)
}

func TestFromPath(t *testing.T) {
	p := &pathio.Path{Name: "rect", Description: "loop", Vertices: []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}}}
	sp := FromPath(p)
	if diff := cmp.Diff(p, sp.Path()); diff != "" {
		t.Errorf("FromPath/Path mismatch (-want +got):\n%s", diff)
	}

	// The row owns its own copy of the vertices.
	p.Vertices[0].X = 9
	assert.Equal(t, 0.0, sp.Vertices[0].X)
}
