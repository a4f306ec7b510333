package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/gwen2d/internal/metrics"
	"github.com/mesh-intelligence/gwen2d/internal/paths"
	"github.com/mesh-intelligence/gwen2d/pkg/types"
)

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func newTestStore(t *testing.T) (*Store, *metrics.Metrics) {
	t.Helper()
	m := metrics.New(prometheus.NewRegistry())
	s, err := NewStore(types.DefaultConfig(), m, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, m
}

func frame(w, h int, fill byte) types.Frame {
	pix := make([]byte, w*h*types.BytesPerPixel)
	for i := range pix {
		pix[i] = fill + byte(i)
	}
	return types.Frame{Width: w, Height: h, Pix: pix}
}

// fixtureProject builds two user categories, three entities, five states and
// seven frames. Hero's first frame goes into Walk, so its size does not come
// from the state that sorts first.
func fixtureProject(t *testing.T, name string) *types.Project {
	t.Helper()
	p := types.NewProject(name)
	require.NoError(t, p.AddCategoryWithSize("Heroes", 16, 16))
	require.NoError(t, p.AddCategory("Props"))

	require.NoError(t, p.AddEntity(types.NewEntityCategory("Heroes"), "Hero"))
	require.NoError(t, p.AddEntity(types.NewEntityCategory("Heroes"), "Villain"))
	require.NoError(t, p.AddEntity(types.DefaultCategory(), "Crate"))

	require.NoError(t, p.AddEntityState("Hero", "Walk"))
	require.NoError(t, p.AddEntityState("Hero", "Idle"))
	require.NoError(t, p.AddEntityState("Villain", "Idle"))
	require.NoError(t, p.AddEntityState("Villain", "Attack"))
	require.NoError(t, p.AddEntityState("Crate", "Closed"))

	require.NoError(t, p.AddFrame("Hero", "Walk", frame(4, 4, 10)))
	require.NoError(t, p.AddFrame("Hero", "Walk", frame(4, 4, 20)))
	require.NoError(t, p.AddFrame("Hero", "Walk", frame(4, 4, 30)))
	require.NoError(t, p.AddFrame("Hero", "Idle", frame(2, 2, 40)))
	require.NoError(t, p.AddFrame("Villain", "Idle", frame(3, 2, 50)))
	require.NoError(t, p.AddFrame("Villain", "Attack", frame(3, 2, 60)))
	require.NoError(t, p.AddFrame("Villain", "Attack", frame(3, 2, 70)))
	return p
}

func tableCount(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('category', 'entity', 'state', 'frame')",
	).Scan(&n)
	require.NoError(t, err)
	return n
}

func TestNewStoreRejectsInvalidConfig(t *testing.T) {
	_, err := NewStore(types.Config{}, nil, nil)
	assert.ErrorIs(t, err, types.ErrBackendEmpty)

	_, err = NewStore(types.Config{Backend: "postgres"}, nil, nil)
	assert.ErrorIs(t, err, types.ErrBackendUnknown)
}

func TestOpenCreatesDatabaseAndSchema(t *testing.T) {
	ctx := testCtx(t)
	dir := t.TempDir()
	s, _ := newTestStore(t)

	assert.Equal(t, types.Status{State: types.StoreClosed}, s.Status())
	assert.False(t, s.IsLoaded())

	require.NoError(t, s.Open(ctx, filepath.Join(dir, "nested", "demo")))

	want := filepath.Join(dir, "nested", "demo.db")
	assert.FileExists(t, want)
	assert.True(t, s.IsLoaded())
	assert.Equal(t, want, s.Path())
	assert.Equal(t, types.Status{State: types.StoreOpen, Message: want}, s.Status())
	assert.Equal(t, 4, tableCount(t, s.db))
}

func TestOpenKeepsExplicitExtension(t *testing.T) {
	ctx := testCtx(t)
	dir := t.TempDir()
	s, _ := newTestStore(t)

	require.NoError(t, s.Open(ctx, filepath.Join(dir, "demo.db")))
	assert.Equal(t, filepath.Join(dir, "demo.db"), s.Path())
}

func TestOpenTwiceIsIdempotent(t *testing.T) {
	ctx := testCtx(t)
	path := filepath.Join(t.TempDir(), "demo")
	s, _ := newTestStore(t)

	require.NoError(t, s.Open(ctx, path))
	p := fixtureProject(t, "demo")
	require.NoError(t, s.Save(ctx, p))

	require.NoError(t, s.Open(ctx, path))
	assert.True(t, s.IsLoaded())

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, p.Equal(loaded), "reopening must not disturb existing rows")
}

func TestOpenFailure(t *testing.T) {
	ctx := testCtx(t)
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0o644))

	s, _ := newTestStore(t)
	require.NoError(t, s.Open(ctx, filepath.Join(dir, "good")))

	err := s.Open(ctx, filepath.Join(blocker, "sub", "demo"))
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrStoreConnection)

	st := s.Status()
	assert.Equal(t, types.StoreFailed, st.State)
	assert.Contains(t, st.Message, filepath.Join(blocker, "sub", "demo.db"))
	assert.False(t, s.IsLoaded())
	assert.Empty(t, s.Path())

	// The previously open database was released.
	assert.ErrorIs(t, s.Save(ctx, types.NewProject("good")), types.ErrStoreNotOpen)
}

func TestOpenSchemaFailureRollsBack(t *testing.T) {
	ctx := testCtx(t)
	path := filepath.Join(t.TempDir(), "clash.db")

	raw, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = raw.Exec("CREATE VIEW entity AS SELECT 1 AS id")
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	s, _ := newTestStore(t)
	err = s.Open(ctx, path)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrSchemaCreation)

	st := s.Status()
	assert.Equal(t, types.StoreFailed, st.State)
	assert.Contains(t, st.Message, path)
	assert.False(t, s.IsLoaded())

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, 0, tableCount(t, db), "no table of the schema survives a failed creation")
}

func TestOpenRejectsDSNCharacters(t *testing.T) {
	ctx := testCtx(t)
	dir := t.TempDir()
	s, _ := newTestStore(t)

	for _, name := range []string{"demo?mode=ro", "demo#1"} {
		err := s.Open(ctx, filepath.Join(dir, name))
		assert.ErrorIs(t, err, types.ErrStoreConnection, name)
		assert.ErrorIs(t, err, paths.ErrInvalidDatabasePath, name)
		assert.Equal(t, types.StoreFailed, s.Status().State)
	}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestConcurrentOpen(t *testing.T) {
	ctx := testCtx(t)
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	s, _ := newTestStore(t)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, path := range []string{a, b} {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			errs[i] = s.Open(ctx, path)
		}(i, path)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, types.StoreOpen, s.Status().State)
	assert.Contains(t, []string{a + ".db", b + ".db"}, s.Path())

	for _, path := range []string{a + ".db", b + ".db"} {
		db, err := sql.Open("sqlite", path)
		require.NoError(t, err)
		assert.Equal(t, 4, tableCount(t, db), "schema of %s", path)
		require.NoError(t, db.Close())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := testCtx(t)
	s, _ := newTestStore(t)
	require.NoError(t, s.Open(ctx, filepath.Join(t.TempDir(), "demo")))

	p := fixtureProject(t, "demo")
	require.NoError(t, s.Save(ctx, p))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, p.Equal(loaded))
	assert.Equal(t, types.Stats{Categories: 3, Entities: 3, States: 5, Frames: 7}, loaded.Stats())

	hero, ok := loaded.Entity("Hero")
	require.True(t, ok)
	assert.Equal(t, 4, hero.Width)
	assert.Equal(t, 4, hero.Height)
	assert.Equal(t, types.EntityCategory{Name: "Heroes", Width: 16, Height: 16}, hero.Category)

	walk := loaded.GetStates("Hero")[1]
	require.Equal(t, "Walk", walk.Name)
	require.Len(t, walk.Frames, 3)
	assert.Equal(t, byte(10), walk.Frames[0].Pix[0])
	assert.Equal(t, byte(20), walk.Frames[1].Pix[0])
	assert.Equal(t, byte(30), walk.Frames[2].Pix[0])
}

func TestLoadEmptyDatabase(t *testing.T) {
	ctx := testCtx(t)
	s, _ := newTestStore(t)
	require.NoError(t, s.Open(ctx, filepath.Join(t.TempDir(), "fresh")))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, types.NewProject("fresh").Equal(loaded))
}

func TestLoadNamesProjectAfterFile(t *testing.T) {
	ctx := testCtx(t)
	s, _ := newTestStore(t)
	require.NoError(t, s.Open(ctx, filepath.Join(t.TempDir(), "renamed")))

	p := fixtureProject(t, "original")
	require.NoError(t, s.Save(ctx, p))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "renamed", loaded.Name())
	assert.False(t, p.Equal(loaded))
	assert.True(t, fixtureProject(t, "renamed").Equal(loaded))
}

func TestSaveReplacesPreviousContents(t *testing.T) {
	ctx := testCtx(t)
	s, _ := newTestStore(t)
	require.NoError(t, s.Open(ctx, filepath.Join(t.TempDir(), "demo")))

	p := fixtureProject(t, "demo")
	require.NoError(t, s.Save(ctx, p))
	require.NoError(t, s.Save(ctx, p))

	for table, want := range map[string]int{
		tableCategory: 3,
		tableEntity:   3,
		tableState:    5,
		tableFrame:    7,
	} {
		n, err := countRows(ctx, s.db, table)
		require.NoError(t, err)
		assert.Equal(t, want, n, "rows in %s", table)
	}

	require.NoError(t, p.AddFrame("Crate", "Closed", frame(1, 1, 1)))
	require.NoError(t, s.Save(ctx, p))

	n, err := countRows(ctx, s.db, tableFrame)
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, p.Equal(loaded))
}

func TestOperationsRequireOpenStore(t *testing.T) {
	ctx := testCtx(t)
	s, _ := newTestStore(t)

	assert.ErrorIs(t, s.Save(ctx, types.NewProject("demo")), types.ErrStoreNotOpen)
	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, types.ErrStoreNotOpen)

	require.NoError(t, s.Open(ctx, filepath.Join(t.TempDir(), "demo")))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "Close is idempotent")

	assert.Equal(t, types.Status{State: types.StoreClosed}, s.Status())
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, types.ErrStoreNotOpen)
}

func TestStatusReadableWhileOperationInFlight(t *testing.T) {
	ctx := testCtx(t)
	s, _ := newTestStore(t)
	require.NoError(t, s.Open(ctx, filepath.Join(t.TempDir(), "demo")))

	require.NoError(t, s.sem.Acquire(ctx, 1))
	defer s.sem.Release(1)

	done := make(chan types.Status)
	go func() { done <- s.Status() }()
	select {
	case st := <-done:
		assert.Equal(t, types.StoreOpen, st.State)
	case <-time.After(5 * time.Second):
		t.Fatal("Status blocked behind the operation lock")
	}
	assert.True(t, s.IsLoaded())

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err := s.Load(cancelled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMetricsCountOperations(t *testing.T) {
	ctx := testCtx(t)
	s, m := newTestStore(t)

	assert.Error(t, s.Save(ctx, types.NewProject("demo")))
	require.NoError(t, s.Open(ctx, filepath.Join(t.TempDir(), "demo")))
	require.NoError(t, s.Save(ctx, fixtureProject(t, "demo")))
	_, err := s.Load(ctx)
	require.NoError(t, err)

	ops := m.Operations()
	assert.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues(opOpen, metrics.ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues(opSave, metrics.ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues(opSave, metrics.ResultError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues(opLoad, metrics.ResultOK)))

	rows := m.Rows()
	assert.Equal(t, 3.0, testutil.ToFloat64(rows.WithLabelValues(tableCategory)))
	assert.Equal(t, 7.0, testutil.ToFloat64(rows.WithLabelValues(tableFrame)))
}

func TestDSN(t *testing.T) {
	assert.Equal(t,
		"/tmp/demo.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(250)",
		dsn("/tmp/demo.db", 250),
	)
}
