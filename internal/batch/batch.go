// Package batch runs the packaging pipeline over every configured project,
// one after another.
package batch

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kingrea/coursepack/internal/archive"
	"github.com/kingrea/coursepack/internal/config"
	"github.com/kingrea/coursepack/internal/document"
	"github.com/kingrea/coursepack/internal/logging"
	"github.com/kingrea/coursepack/internal/module"
	"github.com/kingrea/coursepack/internal/modules"
	"github.com/kingrea/coursepack/internal/toolrun"
	"github.com/kingrea/coursepack/internal/workflow"
)

// Options configures a batch run.
type Options struct {
	OutputDir string
	Tools     config.Tools
	// Extension selects the source and test files the student stage sanitizes
	Extension string
	Runner    toolrun.Runner
	Log       *logging.Logger
	Observer  workflow.Observer
	Registry  *module.Registry
}

// Driver runs projects sequentially. The first failing project aborts the
// batch; projects after it are not attempted.
type Driver struct {
	opts     Options
	archives *archive.Builder
	docs     *document.Builder
	pipeline *workflow.Pipeline
}

// New validates opts and wires the shared builders.
func New(opts Options) (*Driver, error) {
	if opts.OutputDir == "" {
		opts.OutputDir = config.DefaultOutputDir
	}
	if opts.Log == nil {
		opts.Log = logging.Discard()
	}
	if opts.Runner == nil {
		opts.Runner = toolrun.NewExecRunner(opts.Log)
	}
	if opts.Registry == nil {
		opts.Registry = modules.NewRegistry()
	}
	tools := opts.Tools.Normalized()
	opts.Tools = tools

	pipeOpts := []workflow.Option{workflow.WithObserver(opts.Observer)}
	if opts.Extension != "" {
		pipeOpts = append(pipeOpts, workflow.WithModuleConfig(workflow.PhaseStudent.ModuleID(), module.Config{"extension": opts.Extension}))
	}
	pipeline, err := workflow.New(opts.Registry, pipeOpts...)
	if err != nil {
		return nil, err
	}
	return &Driver{
		opts:     opts,
		archives: archive.New(opts.Runner, tools.Zip, tools.Unzip, opts.Log),
		docs:     document.New(opts.Runner, tools.Latex, tools.Document, opts.Log),
		pipeline: pipeline,
	}, nil
}

// Run creates the output directory and packages each project in order.
func (d *Driver) Run(ctx context.Context, projects []config.ProjectConfig) ([]workflow.Summary, error) {
	if err := os.MkdirAll(d.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("batch: ensure output dir: %w", err)
	}
	summaries := make([]workflow.Summary, 0, len(projects))
	for _, project := range projects {
		if err := ctx.Err(); err != nil {
			return summaries, fmt.Errorf("batch: %w", err)
		}
		d.opts.Log.Info("== %s (%s)", project.Name, project.Directory)
		summary, err := d.pipeline.Run(d.Context(ctx, project))
		summaries = append(summaries, summary)
		if err != nil {
			d.opts.Log.Error("%v", err)
			return summaries, fmt.Errorf("batch: %w", err)
		}
		d.opts.Log.Info("%s packaged in %s", project.Name, summary.Duration().Round(time.Millisecond))
	}
	return summaries, nil
}

// Context builds the module context for one project.
func (d *Driver) Context(ctx context.Context, project config.ProjectConfig) *module.ModuleContext {
	layout := config.NewLayout(project, d.opts.OutputDir)
	return module.NewContext(ctx, layout, d.archives, d.docs, d.opts.Log)
}
