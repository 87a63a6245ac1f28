package docs

import (
	"fmt"

	"github.com/kingrea/coursepack/internal/artifact"
	"github.com/kingrea/coursepack/internal/module"
)

const (
	moduleID      = "docs"
	moduleVersion = "1.0.0"
)

// Module compiles the instructions PDF.
type Module struct {
	*module.Base
}

// Register installs the docs module factory.
func Register(reg *module.Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(moduleID, func(module.Config) (module.Module, error) {
		return New(), nil
	})
}

// New constructs the docs module.
func New() *Module {
	base := module.NewBase(module.Info{
		ID:          moduleID,
		Name:        "Build Instructions",
		Description: "Compiles document/project.tex and publishes <name>-instructions.pdf.",
		Version:     moduleVersion,
	})
	base.SetOutputs(artifact.InstructionsPDF)
	return &Module{Base: &base}
}

// Run compiles the document and copies it to the output directory.
func (m *Module) Run(ctx *module.ModuleContext) (module.Result, error) {
	if err := module.ValidateContext(moduleID, ctx); err != nil {
		return module.Result{Status: module.StatusFailed}, err
	}
	if ctx.Documents == nil {
		return module.Failed(moduleID, fmt.Errorf("document builder is required"))
	}
	dest := ctx.Artifacts.Path(artifact.InstructionsPDF)
	if err := ctx.Documents.Build(ctx.Context(), ctx.Layout.DocDir(), dest); err != nil {
		return module.Failed(moduleID, err)
	}
	return module.Result{Status: module.StatusCompleted, Message: "wrote " + ctx.Layout.InstructionsName()}, nil
}

// IsComplete reports whether the PDF has been published.
func (m *Module) IsComplete(ctx *module.ModuleContext) (bool, error) {
	return m.OutputsReady(ctx)
}
