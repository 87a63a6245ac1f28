package graded

import (
	"fmt"

	"github.com/kingrea/coursepack/internal/artifact"
	"github.com/kingrea/coursepack/internal/module"
)

const (
	moduleID      = "graded"
	moduleVersion = "1.0.0"
)

// Module zips the graded Eclipse project and publishes the archive.
type Module struct {
	*module.Base
}

// Register installs the graded module factory.
func Register(reg *module.Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(moduleID, func(module.Config) (module.Module, error) {
		return New(), nil
	})
}

// New constructs the graded module.
func New() *Module {
	base := module.NewBase(module.Info{
		ID:          moduleID,
		Name:        "Build Graded Archive",
		Description: "Zips eclipse-projects/<name>-graded into the output directory.",
		Version:     moduleVersion,
	})
	base.SetOutputs(artifact.GradedZip)
	return &Module{Base: &base}
}

// Run drops the compiled classes, zips the project next to itself, then moves
// the zip into the output directory.
func (m *Module) Run(ctx *module.ModuleContext) (module.Result, error) {
	if err := module.ValidateContext(moduleID, ctx); err != nil {
		return module.Result{Status: module.StatusFailed}, err
	}
	if ctx.Archives == nil {
		return module.Failed(moduleID, fmt.Errorf("archive builder is required"))
	}
	layout := ctx.Layout
	if err := ctx.Artifacts.Remove(artifact.GradedBuildOutput); err != nil {
		return module.Failed(moduleID, err)
	}
	if err := ctx.Artifacts.Remove(artifact.StaleGradedZip); err != nil {
		return module.Failed(moduleID, err)
	}
	if err := ctx.Archives.BuildZip(ctx.Context(), layout.GradedName(), layout.GradedZipName(), layout.EclipseProjectsDir()); err != nil {
		return module.Failed(moduleID, err)
	}
	if _, err := ctx.Archives.Relocate(ctx.Artifacts.Path(artifact.StaleGradedZip), layout.OutputDir); err != nil {
		return module.Failed(moduleID, err)
	}
	return module.Result{Status: module.StatusCompleted, Message: "wrote " + layout.GradedZipName()}, nil
}

// IsComplete reports whether the graded archive has been published.
func (m *Module) IsComplete(ctx *module.ModuleContext) (bool, error) {
	return m.OutputsReady(ctx)
}
