package cleanup

import (
	"fmt"

	"github.com/kingrea/coursepack/internal/artifact"
	"github.com/kingrea/coursepack/internal/module"
)

const (
	moduleID      = "cleanup"
	moduleVersion = "1.0.0"
)

// Leftovers from an earlier run, removed before anything is rebuilt.
var leftovers = []artifact.ArtifactRef{
	artifact.StudentStaging,
	artifact.GradedStaging,
	artifact.StudentZip,
	artifact.GradedZip,
	artifact.StaleGradedZip,
}

// Module clears previous build output for one project.
type Module struct {
	*module.Base
}

// Register installs the cleanup module factory.
func Register(reg *module.Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(moduleID, func(module.Config) (module.Module, error) {
		return New(), nil
	})
}

// New constructs the cleanup module.
func New() *Module {
	base := module.NewBase(module.Info{
		ID:          moduleID,
		Name:        "Clean Previous Build",
		Description: "Removes staging trees and archives left by an earlier run.",
		Version:     moduleVersion,
	})
	return &Module{Base: &base}
}

// Run removes every leftover. Missing paths are not an error.
func (m *Module) Run(ctx *module.ModuleContext) (module.Result, error) {
	if err := module.ValidateContext(moduleID, ctx); err != nil {
		return module.Result{Status: module.StatusFailed}, err
	}
	if done, err := m.IsComplete(ctx); err != nil {
		return module.Failed(moduleID, err)
	} else if done {
		return module.Result{Status: module.StatusNoOp, Message: "nothing to clean"}, nil
	}
	removed := 0
	for _, ref := range leftovers {
		ok, err := ctx.Artifacts.Exists(ref)
		if err != nil {
			return module.Failed(moduleID, err)
		}
		if err := ctx.Artifacts.Remove(ref); err != nil {
			return module.Failed(moduleID, err)
		}
		if ok {
			ctx.Log.Printf("%s: removed %s", moduleID, ctx.Artifacts.Path(ref))
			removed++
		}
	}
	return module.Result{Status: module.StatusCompleted, Message: fmt.Sprintf("removed %d leftover(s)", removed)}, nil
}

// IsComplete reports whether no leftovers remain.
func (m *Module) IsComplete(ctx *module.ModuleContext) (bool, error) {
	if err := module.ValidateContext(moduleID, ctx); err != nil {
		return false, err
	}
	for _, ref := range leftovers {
		res, err := ctx.Artifacts.Check(ref)
		if err != nil {
			return false, err
		}
		if res.State != artifact.StateMissing {
			return false, nil
		}
	}
	return true, nil
}
