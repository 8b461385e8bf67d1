package service

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkordes/stepsync/internal/domain"
	"github.com/pkordes/stepsync/internal/parse"
)

// File names inside an exported trip directory.
const (
	TripFile      = "trip.json"
	LocationsFile = "locations.json"
)

// MediaResolver finds the media files that belong to a step.
// mediafs.Resolver is the filesystem implementation.
type MediaResolver interface {
	Resolve(root, stepID string) (domain.Media, error)
}

// TripLoader builds a Trip from an exported trip directory.
// Loading runs in two phases: the JSON is decoded into a pure record, then
// every step is enriched with the media found under the media root.
type TripLoader struct {
	media     MediaResolver
	mediaRoot string
	log       *slog.Logger
}

// LoaderOption customises a TripLoader.
type LoaderOption func(*TripLoader)

// WithMediaRoot overrides where step media folders are looked up.
// By default they are expected next to the trip directory, in its parent.
func WithMediaRoot(root string) LoaderOption {
	return func(l *TripLoader) { l.mediaRoot = root }
}

// WithLogger sets the logger used for debug output.
func WithLogger(log *slog.Logger) LoaderOption {
	return func(l *TripLoader) { l.log = log }
}

// NewTripLoader constructs a TripLoader backed by the provided MediaResolver.
func NewTripLoader(media MediaResolver, opts ...LoaderOption) *TripLoader {
	l := &TripLoader{media: media, log: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads <dir>/trip.json and returns the fully populated trip.
// Returns domain.ErrFileNotFound when trip.json is missing, domain.ErrParse
// for malformed JSON, and any entity decoding error unchanged. No partial
// trip is returned on failure.
func (l *TripLoader) Load(dir string) (domain.Trip, error) {
	m, err := readJSONFile(filepath.Join(dir, TripFile))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripLoader.Load: %w", err)
	}

	trip, err := parse.Decode(m, parse.EntityTrip, parse.Trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripLoader.Load: %w", err)
	}

	root := l.mediaRoot
	if root == "" {
		root = filepath.Dir(filepath.Clean(dir))
	}
	if err := l.attachMedia(&trip, root); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripLoader.Load: %w", err)
	}

	l.log.Debug("trip loaded", "dir", dir, "name", trip.Name, "steps", len(trip.Steps))
	return trip, nil
}

// attachMedia is the second loading phase.
func (l *TripLoader) attachMedia(trip *domain.Trip, root string) error {
	for i := range trip.Steps {
		step := &trip.Steps[i]
		media, err := l.media.Resolve(root, step.ID)
		if err != nil {
			return fmt.Errorf("step %s media: %w", step.ID, err)
		}
		step.Photos = nonNil(media.Photos)
		step.Videos = nonNil(media.Videos)
		l.log.Debug("step media attached", "step_id", step.ID, "photos", len(step.Photos), "videos", len(step.Videos))
	}
	return nil
}

// LocationLoader reads the tracked positions of an exported trip.
// It shares no state with TripLoader.
type LocationLoader struct{}

// NewLocationLoader constructs a LocationLoader.
func NewLocationLoader() *LocationLoader {
	return &LocationLoader{}
}

// Load reads <dir>/locations.json and returns its "locations" in file order.
// Errors map the same way as TripLoader.Load.
func (l *LocationLoader) Load(dir string) ([]domain.Location, error) {
	m, err := readJSONFile(filepath.Join(dir, LocationsFile))
	if err != nil {
		return nil, fmt.Errorf("service.LocationLoader.Load: %w", err)
	}

	locations, err := parse.List(parse.Object(m, "locations.json"), "locations", parse.EntityLocation, parse.Location)
	if err != nil {
		return nil, fmt.Errorf("service.LocationLoader.Load: %w", err)
	}
	return locations, nil
}

// readJSONFile opens, decodes and closes path.
func readJSONFile(path string) (map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrFileNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	m, err := parse.ReadObject(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
