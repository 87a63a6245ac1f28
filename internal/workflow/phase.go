// internal/workflow/phase.go
//
// Phases of the per-project packaging pipeline. They run strictly in order,
// once each, and the first failure stops the project.

package workflow

// Phase represents a stage in the packaging pipeline
type Phase int

const (
	PhaseCleanup Phase = iota
	PhaseDoc
	PhaseGraded
	PhaseStudent
	PhaseDone
)

// Order lists the phases that do work, in execution order.
var Order = []Phase{PhaseCleanup, PhaseDoc, PhaseGraded, PhaseStudent}

// String returns the phase name used in logs
func (p Phase) String() string {
	switch p {
	case PhaseCleanup:
		return "CLEANUP"
	case PhaseDoc:
		return "DOC"
	case PhaseGraded:
		return "GRADED"
	case PhaseStudent:
		return "STUDENT"
	case PhaseDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// FriendlyName returns a short description suitable for progress display
func (p Phase) FriendlyName() string {
	switch p {
	case PhaseCleanup:
		return "Cleaning previous build"
	case PhaseDoc:
		return "Compiling instructions"
	case PhaseGraded:
		return "Zipping graded project"
	case PhaseStudent:
		return "Building student archive"
	case PhaseDone:
		return "Done"
	default:
		return p.String()
	}
}

// ModuleID returns the registry ID of the module that implements the phase.
func (p Phase) ModuleID() string {
	switch p {
	case PhaseCleanup:
		return "cleanup"
	case PhaseDoc:
		return "docs"
	case PhaseGraded:
		return "graded"
	case PhaseStudent:
		return "student"
	default:
		return ""
	}
}

// Next returns the phase that follows p.
func (p Phase) Next() Phase {
	if p >= PhaseDone {
		return PhaseDone
	}
	return p + 1
}
