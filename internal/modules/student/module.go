package student

import (
	"errors"
	"fmt"

	"github.com/kingrea/coursepack/internal/archive"
	"github.com/kingrea/coursepack/internal/artifact"
	"github.com/kingrea/coursepack/internal/module"
	"github.com/kingrea/coursepack/internal/sanitize"
)

const (
	moduleID      = "student"
	moduleVersion = "1.0.0"

	// ConfigExtension selects which source and test files are sanitized.
	ConfigExtension = "extension"
)

// ErrGradedMissing is returned when the student archive is requested before
// the graded archive exists in the output directory.
var ErrGradedMissing = errors.New("Must build graded first")

// Module derives the student archive from the published graded archive.
type Module struct {
	*module.Base
	extension string
}

// Register installs the student module factory.
func Register(reg *module.Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(moduleID, func(cfg module.Config) (module.Module, error) {
		return New(cfg.String(ConfigExtension, sanitize.DefaultExtension)), nil
	})
}

// New constructs the student module sanitizing files with the given extension.
func New(extension string) *Module {
	base := module.NewBase(module.Info{
		ID:          moduleID,
		Name:        "Build Student Archive",
		Description: "Unpacks the graded archive, strips solutions and private tests, and rezips it.",
		Version:     moduleVersion,
	})
	base.SetInputs(artifact.GradedZip)
	base.SetOutputs(artifact.StudentZip)
	if extension == "" {
		extension = sanitize.DefaultExtension
	}
	return &Module{Base: &base, extension: extension}
}

// Run extracts the graded archive, renames the tree, sanitizes it, zips it as
// the student archive and removes the staging tree.
func (m *Module) Run(ctx *module.ModuleContext) (module.Result, error) {
	if err := module.ValidateContext(moduleID, ctx); err != nil {
		return module.Result{Status: module.StatusFailed}, err
	}
	if missing, err := m.MissingInput(ctx); err != nil {
		return module.Failed(moduleID, err)
	} else if missing != nil {
		return module.Result{Status: module.StatusNeedsInput, Message: ErrGradedMissing.Error()}, ErrGradedMissing
	}
	if ctx.Archives == nil {
		return module.Failed(moduleID, fmt.Errorf("archive builder is required"))
	}
	layout := ctx.Layout
	for _, ref := range []artifact.ArtifactRef{artifact.GradedStaging, artifact.StudentStaging, artifact.StudentZip} {
		if err := ctx.Artifacts.Remove(ref); err != nil {
			return module.Failed(moduleID, err)
		}
	}
	if err := ctx.Archives.ExtractZip(ctx.Context(), layout.GradedZipName(), layout.OutputDir); err != nil {
		return module.Failed(moduleID, err)
	}
	gradedDir := ctx.Artifacts.Path(artifact.GradedStaging)
	studentDir := ctx.Artifacts.Path(artifact.StudentStaging)
	if err := archive.Rename(gradedDir, studentDir); err != nil {
		return module.Failed(moduleID, err)
	}
	report, err := sanitize.Directory(studentDir, sanitize.Options{
		Extension:  m.extension,
		Exclusions: layout.Project.Exclusions(),
		Log:        ctx.Log,
	})
	if err != nil {
		return module.Failed(moduleID, err)
	}
	if err := ctx.Archives.BuildZip(ctx.Context(), layout.StudentName(), layout.StudentZipName(), layout.OutputDir); err != nil {
		return module.Failed(moduleID, err)
	}
	if err := ctx.Artifacts.Remove(artifact.StudentStaging); err != nil {
		return module.Failed(moduleID, err)
	}
	msg := fmt.Sprintf("wrote %s (%d sources sanitized, %d private tests removed, %d paths excluded)",
		layout.StudentZipName(), len(report.Sources), len(report.PrivateTests), len(report.Excluded))
	return module.Result{Status: module.StatusCompleted, Message: msg}, nil
}

// IsComplete reports whether the student archive has been published.
func (m *Module) IsComplete(ctx *module.ModuleContext) (bool, error) {
	return m.OutputsReady(ctx)
}
