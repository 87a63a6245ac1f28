// Package artifact defines the filesystem-level contracts (inputs/outputs)
// that pipeline modules exchange. Each artifact has a stable identifier, a
// kind, and a resolver that maps it to a path for one project.

package artifact

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/kingrea/coursepack/internal/config"
)

// Kind captures the storage shape of an artifact.
type Kind string

const (
	// KindFile is a regular file such as a zip or PDF.
	KindFile Kind = "file"
	// KindDirectory is a directory tree.
	KindDirectory Kind = "directory"
)

// PathResolver returns the fully-qualified path to an artifact for a project.
type PathResolver func(*config.Layout) string

// ArtifactRef declares a stable identifier and metadata for an artifact.
type ArtifactRef struct {
	ID          string
	Name        string
	Description string
	Kind        Kind
	path        PathResolver
}

// Path resolves the artifact path for the provided layout.
func (r ArtifactRef) Path(l *config.Layout) string {
	if l == nil || r.path == nil {
		return ""
	}
	return filepath.Clean(r.path(l))
}

// Validate ensures the reference is well-formed.
func (r ArtifactRef) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("artifact: id is required")
	}
	if r.Kind == "" {
		return fmt.Errorf("artifact: kind is required for %s", r.ID)
	}
	if r.path == nil {
		return fmt.Errorf("artifact: path resolver missing for %s", r.ID)
	}
	return nil
}

// State reports what Check found on disk.
type State string

const (
	StateReady   State = "ready"
	StateMissing State = "missing"
	StateInvalid State = "invalid"
	StateError   State = "error"
)

// CheckResult captures the outcome of inspecting one artifact.
type CheckResult struct {
	Ref     ArtifactRef
	Path    string
	State   State
	Size    int64
	ModTime time.Time
	Err     error
}

// Ready reports whether the artifact exists in the expected shape.
func (c CheckResult) Ready() bool {
	return c.State == StateReady
}

// Published artifacts land in the output directory.
var (
	InstructionsPDF = ArtifactRef{
		ID:          "instructions-pdf",
		Name:        "Instructions",
		Description: "Compiled project instructions.",
		Kind:        KindFile,
		path:        (*config.Layout).InstructionsPath,
	}
	GradedZip = ArtifactRef{
		ID:          "graded-zip",
		Name:        "Graded archive",
		Description: "Full solution with grading assets.",
		Kind:        KindFile,
		path:        (*config.Layout).GradedZipPath,
	}
	StudentZip = ArtifactRef{
		ID:          "student-zip",
		Name:        "Student archive",
		Description: "Sanitized starter project.",
		Kind:        KindFile,
		path:        (*config.Layout).StudentZipPath,
	}
)

// Working artifacts exist only while a pipeline is running.
var (
	GradedStaging = ArtifactRef{
		ID:   "graded-staging",
		Name: "Extracted graded tree",
		Kind: KindDirectory,
		path: (*config.Layout).GradedDirPath,
	}
	StudentStaging = ArtifactRef{
		ID:   "student-staging",
		Name: "Student staging tree",
		Kind: KindDirectory,
		path: (*config.Layout).StudentDirPath,
	}
	StaleGradedZip = ArtifactRef{
		ID:   "stale-graded-zip",
		Name: "Graded archive left in eclipse-projects",
		Kind: KindFile,
		path: (*config.Layout).StaleGradedZip,
	}
	GradedBuildOutput = ArtifactRef{
		ID:   "graded-build-output",
		Name: "Compiled classes in the graded project",
		Kind: KindDirectory,
		path: func(l *config.Layout) string {
			return filepath.Join(l.GradedProjectDir(), config.BuildOutputDir)
		},
	}
)

// Published lists the artifacts a finished pipeline leaves behind.
func Published() []ArtifactRef {
	return []ArtifactRef{InstructionsPDF, GradedZip, StudentZip}
}
