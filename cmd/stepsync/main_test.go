package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/stepsync/internal/domain"
	"github.com/pkordes/stepsync/testutil"
)

// setupCLIEnv isolates configuration from the host and returns the export
// root: <root>/vietnam_900 holds trip.json and locations.json, <root>/hanoi_41
// holds one photo for step 41.
func setupCLIEnv(t *testing.T) (root, tripDir string) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, k := range []string{"MEDIA_ROOT", "UPLOAD_TOKEN", "UPLOAD_TIMEOUT", "DATABASE_URL", "PORT"} {
		t.Setenv(k, "")
	}
	t.Setenv("LOG_LEVEL", "error")

	root = t.TempDir()
	tripDir = testutil.WriteTripDir(t, root, "vietnam_900",
		testutil.TripJSON("Vietnam", testutil.StepJSON(41, "Hanoi"), testutil.StepJSON(42, "Hue")))
	testutil.WriteLocations(t, tripDir,
		map[string]any{"lat": 21.0285, "lon": 105.8542, "time": 1682935200.0},
		map[string]any{"lat": 16.4637, "lon": 107.5909, "time": 1683021600.0},
	)
	testutil.TouchMedia(t, root, "hanoi_41", "photos/1.jpg")
	return root, tripDir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestShowCommand_Table(t *testing.T) {
	_, dir := setupCLIEnv(t)

	out, err := runCLI(t, "show", dir)

	require.NoError(t, err)
	assert.Contains(t, out, "Trip:  Vietnam (id 0)")
	assert.Contains(t, out, "Dates: 2023-05-01 to -")
	assert.Contains(t, out, "Hanoi")
	assert.Contains(t, out, "Hue")
	assert.Contains(t, out, "2023-05-01 10:00 UTC")
}

func TestShowCommand_JSONWithTripID(t *testing.T) {
	_, dir := setupCLIEnv(t)

	out, err := runCLI(t, "show", dir, "--json", "--trip-id", "77")
	require.NoError(t, err)

	var trip domain.Trip
	require.NoError(t, json.Unmarshal([]byte(out), &trip))
	assert.Equal(t, int64(77), trip.ID)
	require.Len(t, trip.Steps, 2)
	assert.Equal(t, "41", trip.Steps[0].ID)
	assert.Len(t, trip.Steps[0].Photos, 1)
	assert.Empty(t, trip.Steps[1].Photos)
}

func TestShowCommand_MissingTrip(t *testing.T) {
	root, _ := setupCLIEnv(t)

	_, err := runCLI(t, "show", root)

	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}

func TestShowCommand_RequiresDirectory(t *testing.T) {
	setupCLIEnv(t)

	_, err := runCLI(t, "show")

	assert.Error(t, err)
}

func TestLocationsCommand(t *testing.T) {
	_, dir := setupCLIEnv(t)

	out, err := runCLI(t, "locations", dir)

	require.NoError(t, err)
	assert.Contains(t, out, "21.028500")
	assert.Contains(t, out, "107.590900")
	assert.Contains(t, out, "2023-05-01 10:00 UTC")
}

func TestUploadCommand(t *testing.T) {
	_, dir := setupCLIEnv(t)

	var got map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(srv.Close)
	t.Setenv("UPLOAD_URL", srv.URL)
	t.Setenv("UPLOAD_TOKEN", "secret")

	out, err := runCLI(t, "upload", dir, "--step", "41", "--location-id", "5", "--trip-id", "77")

	require.NoError(t, err)
	assert.Contains(t, out, "Uploaded step 41 to trip 77")
	assert.Equal(t, "Bearer secret", auth)
	assert.EqualValues(t, 77, got["trip_id"])
	assert.EqualValues(t, 5, got["location_id"])
	assert.Equal(t, "Hanoi", got["name"])
}

func TestUploadCommand_RemoteRejects(t *testing.T) {
	_, dir := setupCLIEnv(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "trip is locked", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)
	t.Setenv("UPLOAD_URL", srv.URL)

	_, err := runCLI(t, "upload", dir, "--step", "41", "--location-id", "5", "--trip-id", "77")

	var upErr *domain.UploadError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusForbidden, upErr.StatusCode)
}

func TestUploadCommand_MissingFlags(t *testing.T) {
	_, dir := setupCLIEnv(t)

	_, err := runCLI(t, "upload", dir, "--step", "41")

	assert.ErrorContains(t, err, "location-id")
}

func TestImportCommand_RequiresDatabase(t *testing.T) {
	_, dir := setupCLIEnv(t)

	_, err := runCLI(t, "import", dir)

	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	_, dir := setupCLIEnv(t)
	t.Setenv("UPLOAD_TIMEOUT", "soon")

	_, err := runCLI(t, "show", dir)

	assert.ErrorContains(t, err, "UPLOAD_TIMEOUT")
}
