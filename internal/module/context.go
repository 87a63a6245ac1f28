package module

import (
	"context"
	"fmt"

	"github.com/kingrea/coursepack/internal/archive"
	"github.com/kingrea/coursepack/internal/artifact"
	"github.com/kingrea/coursepack/internal/config"
	"github.com/kingrea/coursepack/internal/document"
	"github.com/kingrea/coursepack/internal/logging"
)

// ModuleContext carries shared runtime dependencies into every module.
type ModuleContext struct {
	Ctx       context.Context
	Layout    *config.Layout
	Artifacts *artifact.Store
	Archives  *archive.Builder
	Documents *document.Builder
	Log       *logging.Logger
}

// NewContext builds a ModuleContext for one project with a fresh store.
func NewContext(ctx context.Context, layout *config.Layout, archives *archive.Builder, docs *document.Builder, log *logging.Logger) *ModuleContext {
	return &ModuleContext{
		Ctx:       ctx,
		Layout:    layout,
		Artifacts: artifact.NewStore(layout),
		Archives:  archives,
		Documents: docs,
		Log:       log,
	}
}

// Context returns the cancellation context, never nil.
func (ctx *ModuleContext) Context() context.Context {
	if ctx == nil || ctx.Ctx == nil {
		return context.Background()
	}
	return ctx.Ctx
}

// ValidateContext ensures modules receive a usable context.
func ValidateContext(moduleID string, ctx *ModuleContext) error {
	if ctx == nil {
		return fmt.Errorf("%s: context is nil", moduleID)
	}
	if ctx.Layout == nil {
		return fmt.Errorf("%s: layout is required", moduleID)
	}
	if ctx.Artifacts == nil {
		return fmt.Errorf("%s: artifact store is required", moduleID)
	}
	return nil
}
