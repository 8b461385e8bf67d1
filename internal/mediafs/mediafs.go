// Package mediafs locates the media that belongs to a step.
//
// An export keeps one folder per step under a media root, named after the
// step (e.g. "hanoi_102938"), with optional photos/ and videos/ subfolders.
// A step without a folder simply has no media; that is not an error.
package mediafs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/pkordes/stepsync/internal/domain"
)

const (
	photosDir = "photos"
	videosDir = "videos"
)

// FindFolderByID returns the immediate subdirectory of root that belongs to
// the step id. A folder named exactly id, or ending in "_"+id, is preferred;
// otherwise the first folder (in name order) whose name contains id wins.
// ok is false when nothing matches or root does not exist.
func FindFolderByID(root, id string) (path string, ok bool, err error) {
	if id == "" {
		return "", false, nil
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("mediafs.FindFolderByID: %w", err)
	}

	var fallback string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if name == id || strings.HasSuffix(name, "_"+id) {
			return filepath.Join(root, name), true, nil
		}
		if fallback == "" && strings.Contains(name, id) {
			fallback = name
		}
	}
	if fallback == "" {
		return "", false, nil
	}
	return filepath.Join(root, fallback), true, nil
}

// ListFilesInFolder returns the regular files directly inside dir in name
// order. The result is never nil.
// A missing dir, or a path that is not a directory, yields an empty slice
// unless mustExist is set, in which case domain.ErrFileNotFound is returned.
func ListFilesInFolder(dir string, mustExist bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			if mustExist {
				return nil, fmt.Errorf("mediafs.ListFilesInFolder: %w: %s", domain.ErrFileNotFound, dir)
			}
			return []string{}, nil
		}
		return nil, fmt.Errorf("mediafs.ListFilesInFolder: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// Resolver looks up step media on the local filesystem.
type Resolver struct{}

// NewResolver constructs a Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve returns the photos and videos stored for stepID under root.
// Both lists are empty when the step has no folder.
func (r *Resolver) Resolve(root, stepID string) (domain.Media, error) {
	empty := domain.Media{Photos: []string{}, Videos: []string{}}

	dir, ok, err := FindFolderByID(root, stepID)
	if err != nil {
		return domain.Media{}, err
	}
	if !ok {
		return empty, nil
	}

	photos, err := ListFilesInFolder(filepath.Join(dir, photosDir), false)
	if err != nil {
		return domain.Media{}, err
	}
	videos, err := ListFilesInFolder(filepath.Join(dir, videosDir), false)
	if err != nil {
		return domain.Media{}, err
	}
	return domain.Media{Photos: photos, Videos: videos}, nil
}
