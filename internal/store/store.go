package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vidgrab/vidgrab/internal/media"
)

// ErrNotFound indicates the named artifact does not exist in the
// store - either it never existed, or it has already been reclaimed.
var ErrNotFound = errors.New("artifact not found")

type (
	// Artifact is a name reservation inside the store. The file it
	// refers to only exists once the extractor has written it; until
	// then the Artifact simply pins down a unique, deterministic path.
	Artifact struct {
		ID       string
		Platform media.Platform
		Name     string
		Path     string
	}

	// Entry is a single listed artifact alongside its last-modified
	// time, which the retention sweeper treats as the creation time.
	Entry struct {
		Name    string
		ModTime time.Time
	}

	// Store manages the flat directory holding downloaded artifacts.
	// There is no index; the directory contents are the sole source
	// of truth. Artifacts are immutable once written, so the only
	// contention on the directory is create vs delete on distinct names.
	Store struct {
		root string
	}
)

// New constructs a Store rooted at the given directory, creating it
// if missing. An existing non-directory at the path is an error.
func New(root string) (*Store, error) {
	if info, err := os.Stat(root); err == nil {
		if !info.IsDir() {
			return nil, fmt.Errorf("artifact store path '%s' is not a directory", root)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(root, os.ModeDir|os.ModePerm); err != nil {
			return nil, fmt.Errorf("artifact store path '%s' could not be created: %w", root, err)
		}
	} else {
		return nil, fmt.Errorf("artifact store path '%s' could not be accessed: %w", root, err)
	}

	return &Store{root: root}, nil
}

// Allocate reserves a fresh, unique artifact name for the given
// platform. The file itself is not created; collisions are avoided
// statistically by the random id component.
func (store *Store) Allocate(platform media.Platform) Artifact {
	id := uuid.NewString()[:8]
	name := fmt.Sprintf("%s_%s.mp4", platform, id)

	return Artifact{
		ID:       id,
		Platform: platform,
		Name:     name,
		Path:     filepath.Join(store.root, name),
	}
}

// Exists reports whether the named artifact is present on disk.
func (store *Store) Exists(name string) bool {
	path, err := store.resolve(name)
	if err != nil {
		return false
	}

	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// OpenForRead opens the named artifact for streaming. The caller
// owns the returned file and must close it. Missing or malformed
// names both surface as ErrNotFound.
func (store *Store) OpenForRead(name string) (*os.File, error) {
	path, err := store.resolve(name)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	return file, nil
}

// Delete removes the named artifact. Deleting a name that is already
// absent is not an error; the sweeper and a concurrent reader may
// race on the same name and the loser should see a no-op.
func (store *Store) Delete(name string) error {
	path, err := store.resolve(name)
	if err != nil {
		return nil
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return nil
}

// ListAll enumerates the regular files directly under the store root,
// skipping directories and anything whose metadata cannot be read.
func (store *Store) ListAll() ([]Entry, error) {
	dirEntries, err := os.ReadDir(store.root)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifact store '%s': %w", store.root, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, dirEntry := range dirEntries {
		if dirEntry.IsDir() {
			continue
		}

		info, err := dirEntry.Info()
		if err != nil {
			continue
		}

		entries = append(entries, Entry{Name: dirEntry.Name(), ModTime: info.ModTime()})
	}

	return entries, nil
}

// resolve maps an artifact name to its path under the store root,
// rejecting any name that could escape the root. Client-supplied
// names pass through here, so traversal sequences must not survive.
func (store *Store) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", ErrNotFound
	}

	return filepath.Join(store.root, name), nil
}
