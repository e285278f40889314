package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// tsLayout is fixed-width, zero-padded and colon-free so that lexical order
// of filenames equals chronological order.
const tsLayout = "20060102T150405.000"

// Snapshot is one retained capture for a camera.
type Snapshot struct {
	Camera string
	Taken  time.Time
	Path   string
}

// Store persists camera frames as timestamp-qualified files in a single
// output directory. The scan loop is the only writer.
type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Dir() string {
	return s.dir
}

// EnsureDir creates the output directory if it does not exist.
func (s *Store) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory '%s': %v", s.dir, err)
	}
	return nil
}

// WriteStates dumps the startup entity-state snapshot to states.json.
func (s *Store) WriteStates(states any) error {
	file, err := os.Create(filepath.Join(s.dir, "states.json"))
	if err != nil {
		return fmt.Errorf("failed to create states file: %v", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(states)
}

// Save writes one new snapshot file for the camera. If a file for the same
// millisecond already exists the timestamp is bumped until the name is free.
func (s *Store) Save(camera string, taken time.Time, data []byte) (Snapshot, error) {
	taken = taken.UTC()
	for {
		path := filepath.Join(s.dir, fileName(camera, taken))
		if _, err := os.Stat(path); err == nil {
			taken = taken.Add(time.Millisecond)
			continue
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return Snapshot{}, fmt.Errorf("failed to save snapshot: %v", err)
		}
		return Snapshot{Camera: camera, Taken: taken, Path: path}, nil
	}
}

// List returns the camera's snapshots ordered newest first.
func (s *Store) List(camera string) ([]Snapshot, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read output directory '%s': %v", s.dir, err)
	}

	prefix := safeName(camera) + "_"
	var names []string
	for _, file := range files {
		name := file.Name()
		if !file.IsDir() && strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".jpg") {
			names = append(names, name)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	snaps := make([]Snapshot, 0, len(names))
	for _, name := range names {
		ts := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".jpg")
		taken, err := time.Parse(tsLayout, ts)
		if err != nil {
			continue // foreign file that happens to match the prefix
		}
		snaps = append(snaps, Snapshot{
			Camera: camera,
			Taken:  taken,
			Path:   filepath.Join(s.dir, name),
		})
	}

	return snaps, nil
}

// Remove deletes one snapshot file.
func (s *Store) Remove(snap Snapshot) error {
	return os.Remove(snap.Path)
}

func fileName(camera string, taken time.Time) string {
	return fmt.Sprintf("%s_%s.jpg", safeName(camera), taken.Format(tsLayout))
}

// FileBase returns the filesystem-safe form of a camera id, usable for
// server-side snapshot paths as well as local filenames.
func FileBase(camera string) string {
	return safeName(camera)
}

// safeName makes an entity id usable as a filename component.
func safeName(camera string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '-'
		}
		return r
	}, camera)
}
