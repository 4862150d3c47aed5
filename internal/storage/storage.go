package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/countclock/internal/validate"
)

// currentVersion is the on-disk layout version.
const currentVersion = 1

// Data represents the structure of the storage file.
type Data struct {
	Version int               `json:"version" validate:"eq=1"`
	Values  map[string]string `json:"values"`
}

// Storage is a JSON file of string values keyed by name. It implements the
// KV collaborator used by the saved-target store. Every Set rewrites the file.
type Storage struct {
	Path string `validate:"required"`
	Data Data
}

// NewStorage creates a Storage instance, loading the file when it exists.
func NewStorage(path string) (*Storage, error) {
	expandedPath, err := expandTilde(path)
	if err != nil {
		return nil, err
	}

	s := &Storage{
		Path: expandedPath,
		Data: Data{
			Version: currentVersion,
			Values:  make(map[string]string),
		},
	}
	if err := validate.Struct(s); err != nil {
		return nil, err
	}

	if err := s.Load(); err != nil {
		// If the file doesn't exist, we can ignore the error.
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	return s, nil
}

// NewOrExistingStorage returns existing storage if the file exists, or creates a new one otherwise.
// When creating a new storage, it writes the initial structure to disk immediately.
func NewOrExistingStorage(path string) (*Storage, error) {
	expandedPath, err := expandTilde(path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(expandedPath); err == nil {
		return NewStorage(path)
	} else if os.IsNotExist(err) {
		s, err := NewStorage(path)
		if err != nil {
			return nil, err
		}
		if err := s.Save(); err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, err
}

func (s *Storage) Load() error {
	logrus.Debug("Loading storage file from: ", s.Path)
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return err
	}

	var loaded Data
	if err := json.Unmarshal(data, &loaded); err != nil {
		// A corrupt file is replaced rather than blocking the timer.
		logrus.Warnf("Storage file %s is not valid JSON; starting empty: %v", s.Path, err)
		return s.Save()
	}
	s.Data = loaded

	// Validate loaded data and self-heal when possible.
	changed := false
	if s.Data.Values == nil {
		s.Data.Values = make(map[string]string)
		changed = true
	}
	if err := validate.Struct(s.Data); err != nil {
		logrus.Warnf("Unexpected storage version %d; rewriting as %d.", s.Data.Version, currentVersion)
		s.Data.Version = currentVersion
		changed = true
	}
	if changed {
		return s.Save()
	}
	return nil
}

// Save writes the storage data to the file.
func (s *Storage) Save() error {
	logrus.Debug("Saving storage file to: ", s.Path)
	// Ensure parent directory exists.
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.Data, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.Path, data, 0o600)
}

// Get returns the value stored under key.
func (s *Storage) Get(key string) (string, bool, error) {
	v, ok := s.Data.Values[key]
	return v, ok, nil
}

// Set stores value under key and persists the file. On write failure the
// previous value is restored in memory.
func (s *Storage) Set(key, value string) error {
	prev, had := s.Data.Values[key]
	s.Data.Values[key] = value
	if err := s.Save(); err != nil {
		if had {
			s.Data.Values[key] = prev
		} else {
			delete(s.Data.Values, key)
		}
		return err
	}
	return nil
}

// expandTilde expands the tilde in a path to the user's home directory.
func expandTilde(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}
