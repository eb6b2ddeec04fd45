package config

import (
	"fmt"
	"iter"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/vietdv277/lambda-cli/pkg/provider"
	"github.com/vietdv277/lambda-cli/pkg/types"
)

// Store maps absolute directory paths to the settings saved for them.
// Lookups walk up the directory tree, like git does for its config.
type Store struct {
	path    string
	entries map[string]Entry
}

// New returns an empty store backed by path. Nothing is written until Save.
func New(path string) *Store {
	return &Store{path: path, entries: make(map[string]Entry)}
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Len returns the number of saved entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Save rewrites the whole backing file.
func (s *Store) Save() error {
	data, err := encode(s.entries)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return &IOError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

// Set stores entry for path and saves. When path already has an entry,
// confirm decides whether it is overwritten; declining returns
// provider.ErrAborted and leaves the file untouched.
func (s *Store) Set(path string, entry Entry, confirm types.ConfirmFunc) error {
	key, err := Normalize(path)
	if err != nil {
		return err
	}

	if _, exists := s.entries[key]; exists {
		ok, err := ask(confirm, fmt.Sprintf("An entry already exists for %s, overwrite?", key))
		if err != nil {
			return err
		}
		if !ok {
			return provider.ErrAborted
		}
	}

	s.entries[key] = entry
	return s.Save()
}

// Resolve returns the effective entry for path: the exact entry if there is
// one, otherwise (with includeAncestors) the entry of the nearest parent
// directory.
func (s *Store) Resolve(path string, includeAncestors bool) (string, Entry, bool) {
	key, err := Normalize(path)
	if err != nil {
		return "", Entry{}, false
	}

	for {
		if entry, ok := s.entries[key]; ok {
			return key, entry, true
		}
		if !includeAncestors {
			return "", Entry{}, false
		}

		parent := filepath.Dir(key)
		if parent == key {
			return "", Entry{}, false
		}
		key = parent
	}
}

// Delete removes the effective entry for path after confirmation and saves.
// It reports whether an entry was removed.
func (s *Store) Delete(path string, includeAncestors bool, confirm types.ConfirmFunc) (bool, error) {
	key, _, ok := s.Resolve(path, includeAncestors)
	if !ok {
		return false, nil
	}

	yes, err := ask(confirm, fmt.Sprintf("Found config from %s, delete?", key))
	if err != nil {
		return false, err
	}
	if !yes {
		return false, provider.ErrAborted
	}

	delete(s.entries, key)
	if err := s.Save(); err != nil {
		return false, err
	}
	return true, nil
}

// List yields every entry in lexicographic path order.
func (s *Store) List() iter.Seq2[string, Entry] {
	return func(yield func(string, Entry) bool) {
		for _, key := range slices.Sorted(maps.Keys(s.entries)) {
			if !yield(key, s.entries[key]) {
				return
			}
		}
	}
}

func ask(confirm types.ConfirmFunc, message string) (bool, error) {
	if confirm == nil {
		return false, nil
	}
	return confirm(message)
}
