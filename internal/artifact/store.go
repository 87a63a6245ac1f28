package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/kingrea/coursepack/internal/archive"
	"github.com/kingrea/coursepack/internal/config"
)

// Store inspects and clears artifacts for one project layout.
type Store struct {
	layout *config.Layout
}

// NewStore builds a store for a layout.
func NewStore(l *config.Layout) *Store {
	return &Store{layout: l}
}

// Layout returns the layout the store resolves paths against.
func (s *Store) Layout() *config.Layout {
	return s.layout
}

// Path resolves ref for the store's layout.
func (s *Store) Path(ref ArtifactRef) string {
	return ref.Path(s.layout)
}

// Check inspects the artifact on disk and returns its status.
func (s *Store) Check(ref ArtifactRef) (CheckResult, error) {
	path := ref.Path(s.layout)
	if path == "" {
		err := fmt.Errorf("artifact: %s path could not be resolved", ref.ID)
		return CheckResult{Ref: ref, Path: path, State: StateError, Err: err}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return CheckResult{Ref: ref, Path: path, State: StateMissing}, nil
		}
		return CheckResult{Ref: ref, Path: path, State: StateError, Err: err}, err
	}
	result := CheckResult{Ref: ref, Path: path, State: StateReady, Size: info.Size(), ModTime: info.ModTime()}
	switch ref.Kind {
	case KindDirectory:
		if !info.IsDir() {
			result.State = StateInvalid
			result.Err = fmt.Errorf("artifact: expected directory at %s", path)
		}
	default:
		if info.IsDir() {
			result.State = StateInvalid
			result.Err = fmt.Errorf("artifact: expected file at %s, got directory", path)
		}
	}
	return result, nil
}

// Exists reports whether the artifact is ready.
func (s *Store) Exists(ref ArtifactRef) (bool, error) {
	result, err := s.Check(ref)
	if err != nil {
		return false, err
	}
	return result.Ready(), nil
}

// Remove deletes the artifact if present. Removing a missing artifact is not
// an error.
func (s *Store) Remove(ref ArtifactRef) error {
	path := ref.Path(s.layout)
	if path == "" {
		return fmt.Errorf("artifact: %s path could not be resolved", ref.ID)
	}
	if err := archive.RemoveIfExists(path); err != nil {
		return fmt.Errorf("artifact: %s: %w", ref.ID, err)
	}
	return nil
}

// Missing returns the first ref that is not ready, or nil when all are.
func (s *Store) Missing(refs ...ArtifactRef) (*ArtifactRef, error) {
	for i := range refs {
		ok, err := s.Exists(refs[i])
		if err != nil {
			return nil, err
		}
		if !ok {
			return &refs[i], nil
		}
	}
	return nil, nil
}
