package service_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/stepsync/internal/domain"
	"github.com/pkordes/stepsync/internal/mediafs"
	"github.com/pkordes/stepsync/internal/service"
	"github.com/pkordes/stepsync/testutil"
)

// mockMediaResolver is a hand-written test double for service.MediaResolver.
type mockMediaResolver struct {
	resolve func(root, stepID string) (domain.Media, error)
}

func (m *mockMediaResolver) Resolve(root, stepID string) (domain.Media, error) {
	return m.resolve(root, stepID)
}

// compile-time check: mockMediaResolver must satisfy service.MediaResolver.
var _ service.MediaResolver = (*mockMediaResolver)(nil)

func newLoader(opts ...service.LoaderOption) *service.TripLoader {
	return service.NewTripLoader(mediafs.NewResolver(), opts...)
}

// ---- TripLoader ------------------------------------------------------------

func TestTripLoader_Load_StepOrderPreserved(t *testing.T) {
	root := t.TempDir()
	dir := testutil.WriteTripDir(t, root, "vietnam_900", testutil.TripJSON("Vietnam",
		testutil.StepJSON(3, "Hue"),
		testutil.StepJSON(1, "Hanoi"),
		testutil.StepJSON(2, "Sapa"),
	))

	trip, err := newLoader().Load(dir)

	require.NoError(t, err)
	require.Len(t, trip.Steps, 3)
	assert.Equal(t, []string{"3", "1", "2"}, []string{trip.Steps[0].ID, trip.Steps[1].ID, trip.Steps[2].ID})
	assert.Equal(t, "Vietnam", trip.Name)
	assert.Equal(t, int64(0), trip.ID)
	require.NotNil(t, trip.StartDate)
	assert.Equal(t, time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC), *trip.StartDate)
	assert.Nil(t, trip.EndDate)
}

func TestTripLoader_Load_NoMediaFolder(t *testing.T) {
	root := t.TempDir()
	dir := testutil.WriteTripDir(t, root, "vietnam_900", testutil.TripJSON("Vietnam", testutil.StepJSON(1, "Hanoi")))

	trip, err := newLoader().Load(dir)

	require.NoError(t, err)
	require.Len(t, trip.Steps, 1)
	assert.Equal(t, []string{}, trip.Steps[0].Photos)
	assert.Equal(t, []string{}, trip.Steps[0].Videos)
}

func TestTripLoader_Load_AttachesMediaFromParent(t *testing.T) {
	root := t.TempDir()
	dir := testutil.WriteTripDir(t, root, "vietnam_900", testutil.TripJSON("Vietnam",
		testutil.StepJSON(41, "Hanoi"),
		testutil.StepJSON(42, "Hue"),
	))
	testutil.TouchMedia(t, root, "hanoi_41", "photos/b.jpg", "photos/a.jpg", "videos/v.mp4")

	trip, err := newLoader().Load(dir)

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "hanoi_41", "photos", "a.jpg"),
		filepath.Join(root, "hanoi_41", "photos", "b.jpg"),
	}, trip.Steps[0].Photos)
	assert.Equal(t, []string{filepath.Join(root, "hanoi_41", "videos", "v.mp4")}, trip.Steps[0].Videos)
	assert.Empty(t, trip.Steps[1].Photos)
}

func TestTripLoader_Load_WithMediaRoot(t *testing.T) {
	root := t.TempDir()
	dir := testutil.WriteTripDir(t, root, "vietnam_900", testutil.TripJSON("Vietnam", testutil.StepJSON(41, "Hanoi")))
	testutil.TouchMedia(t, dir, "hanoi_41", "photos/a.jpg")

	var roots []string
	resolver := &mockMediaResolver{resolve: func(r, id string) (domain.Media, error) {
		roots = append(roots, r)
		return mediafs.NewResolver().Resolve(r, id)
	}}

	trip, err := service.NewTripLoader(resolver, service.WithMediaRoot(dir)).Load(dir)

	require.NoError(t, err)
	assert.Equal(t, []string{dir}, roots)
	assert.Len(t, trip.Steps[0].Photos, 1)
}

func TestTripLoader_Load_MissingFile(t *testing.T) {
	_, err := newLoader().Load(t.TempDir())

	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}

func TestTripLoader_Load_MalformedJSON(t *testing.T) {
	for _, content := range []string{
		`{"name": "broken"`,
		`{"name": "x", "cover_photo_path": null, "all_steps": []} this is not json`,
	} {
		dir := t.TempDir()
		testutil.WriteFile(t, filepath.Join(dir, "trip.json"), []byte(content))

		trip, err := newLoader().Load(dir)

		assert.ErrorIs(t, err, domain.ErrParse, "content %q", content)
		assert.Empty(t, trip.Name)
	}
}

func TestTripLoader_Load_MissingField(t *testing.T) {
	doc := testutil.TripJSON("Vietnam", testutil.StepJSON(1, "Hanoi"))
	delete(doc, "cover_photo_path")
	dir := testutil.WriteTripDir(t, t.TempDir(), "trip", doc)

	trip, err := newLoader().Load(dir)

	var mf *domain.MissingFieldError
	require.True(t, errors.As(err, &mf))
	assert.Equal(t, "Trip", mf.Entity)
	assert.Equal(t, "cover_photo_path", mf.Key)
	assert.Equal(t, domain.Trip{}, trip)
}

func TestTripLoader_Load_ResolverError(t *testing.T) {
	dir := testutil.WriteTripDir(t, t.TempDir(), "trip", testutil.TripJSON("Vietnam", testutil.StepJSON(1, "Hanoi")))
	boom := errors.New("disk on fire")
	resolver := &mockMediaResolver{resolve: func(string, string) (domain.Media, error) {
		return domain.Media{}, boom
	}}

	trip, err := service.NewTripLoader(resolver).Load(dir)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, domain.Trip{}, trip)
}

// TestTripLoader_Load_NilMediaBecomesEmpty verifies that a resolver returning
// nil slices still yields empty, non-nil photo and video lists.
func TestTripLoader_Load_NilMediaBecomesEmpty(t *testing.T) {
	dir := testutil.WriteTripDir(t, t.TempDir(), "trip", testutil.TripJSON("Vietnam", testutil.StepJSON(1, "Hanoi")))
	resolver := &mockMediaResolver{resolve: func(string, string) (domain.Media, error) {
		return domain.Media{}, nil
	}}

	trip, err := service.NewTripLoader(resolver).Load(dir)

	require.NoError(t, err)
	assert.NotNil(t, trip.Steps[0].Photos)
	assert.NotNil(t, trip.Steps[0].Videos)
}

// ---- LocationLoader --------------------------------------------------------

func TestLocationLoader_Load(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteLocations(t, dir,
		map[string]any{"lat": 21.0, "lon": 105.0, "time": 1682935200.0},
		map[string]any{"lat": 16.4, "lon": 107.6, "time": 1682938800.0},
	)

	got, err := service.NewLocationLoader().Load(dir)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 21.0, got[0].Lat)
	assert.Equal(t, 16.4, got[1].Lat)
	assert.Equal(t, time.Date(2023, 5, 1, 11, 0, 0, 0, time.UTC), got[1].Time)
}

func TestLocationLoader_Load_Empty(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteLocations(t, dir)

	got, err := service.NewLocationLoader().Load(dir)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLocationLoader_Load_Errors(t *testing.T) {
	_, err := service.NewLocationLoader().Load(t.TempDir())
	assert.ErrorIs(t, err, domain.ErrFileNotFound)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "locations.json"), []byte(`not json`), 0o644))
	_, err = service.NewLocationLoader().Load(dir)
	assert.ErrorIs(t, err, domain.ErrParse)

	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "locations.json"), []byte(`{"locations": []} {"locations": []}`), 0o644))
	_, err = service.NewLocationLoader().Load(dir)
	assert.ErrorIs(t, err, domain.ErrParse)

	dir = t.TempDir()
	testutil.WriteJSON(t, filepath.Join(dir, "locations.json"), map[string]any{"points": []any{}})
	_, err = service.NewLocationLoader().Load(dir)
	assert.ErrorIs(t, err, domain.ErrMissingField)
}
