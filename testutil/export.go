package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// StepJSON returns a minimal valid all_steps entry with the given id and name.
func StepJSON(id int, name string) map[string]any {
	return map[string]any{
		"id":           id,
		"name":         name,
		"display_name": name + " (display)",
		"description":  "Description of " + name,
		"location": map[string]any{
			"lat":    21.0285,
			"lon":    105.8542,
			"name":   name,
			"detail": "Vietnam",
		},
		"start_time":    1682935200.0,
		"creation_time": 1682936000.5,
		"timezone_id":   "Asia/Ho_Chi_Minh",
	}
}

// TripJSON returns a trip.json document holding steps in order.
func TripJSON(name string, steps ...map[string]any) map[string]any {
	all := make([]any, len(steps))
	for i, s := range steps {
		all[i] = s
	}
	return map[string]any{
		"name":             name,
		"start_date":       1682899200.0,
		"end_date":         nil,
		"cover_photo_path": "cover.jpg",
		"all_steps":        all,
	}
}

// WriteTripDir creates <root>/<name>/trip.json from doc and returns the trip
// directory. Step media folders belong in root, next to the trip directory.
func WriteTripDir(t *testing.T, root, name string, doc map[string]any) string {
	t.Helper()
	dir := filepath.Join(root, name)
	WriteJSON(t, filepath.Join(dir, "trip.json"), doc)
	return dir
}

// WriteLocations writes <dir>/locations.json with the given points.
func WriteLocations(t *testing.T, dir string, points ...map[string]any) {
	t.Helper()
	list := make([]any, len(points))
	for i, p := range points {
		list[i] = p
	}
	WriteJSON(t, filepath.Join(dir, "locations.json"), map[string]any{"locations": list})
}

// WriteJSON marshals v to path, creating parent directories.
func WriteJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("testutil.WriteJSON: marshal: %v", err)
	}
	WriteFile(t, path, data)
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("testutil.WriteFile: mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("testutil.WriteFile: %v", err)
	}
}

// TouchMedia creates empty files below <root>/<folder>.
// Paths are relative to the step folder, e.g. "photos/1.jpg".
func TouchMedia(t *testing.T, root, folder string, files ...string) {
	t.Helper()
	for _, f := range files {
		WriteFile(t, filepath.Join(root, folder, f), nil)
	}
}
