package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/kingrea/coursepack/internal/module"
)

// EventKind distinguishes phase start from phase end notifications.
type EventKind string

const (
	EventStarted  EventKind = "started"
	EventFinished EventKind = "finished"
)

// Event reports pipeline progress to an observer.
type Event struct {
	Project string
	Phase   Phase
	Kind    EventKind
	Result  module.Result
	Err     error
	At      time.Time
}

// Observer receives events synchronously, in order.
type Observer func(Event)

// Summary records what one pipeline run did.
type Summary struct {
	Project  string
	Reached  Phase
	Results  map[Phase]module.Result
	Started  time.Time
	Finished time.Time
}

// Duration returns how long the run took.
func (s Summary) Duration() time.Duration {
	return s.Finished.Sub(s.Started)
}

// Pipeline drives one project through CLEANUP, DOC, GRADED and STUDENT.
type Pipeline struct {
	registry *module.Registry
	configs  map[string]module.Config
	observer Observer
	clock    func() time.Time
}

// Option customizes the pipeline instance.
type Option func(*Pipeline)

// WithObserver registers a progress callback.
func WithObserver(obs Observer) Option {
	return func(p *Pipeline) {
		p.observer = obs
	}
}

// WithClock injects a deterministic clock (primarily for tests).
func WithClock(clock func() time.Time) Option {
	return func(p *Pipeline) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// WithModuleConfig passes settings to the module behind id.
func WithModuleConfig(id string, cfg module.Config) Option {
	return func(p *Pipeline) {
		p.configs[id] = cfg
	}
}

// New wires a pipeline to a module registry holding every phase's module.
func New(registry *module.Registry, opts ...Option) (*Pipeline, error) {
	if registry == nil {
		return nil, fmt.Errorf("workflow: module registry is required")
	}
	p := &Pipeline{
		registry: registry,
		configs:  map[string]module.Config{},
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	for _, phase := range Order {
		if !registry.Has(phase.ModuleID()) {
			return nil, fmt.Errorf("workflow: no module registered for %s (%s); registered: [%s]",
				phase, phase.ModuleID(), strings.Join(registry.IDs(), ", "))
		}
	}
	return p, nil
}

// Run executes every phase in order. The first error stops the run; the
// summary reports the phase that failed.
func (p *Pipeline) Run(ctx *module.ModuleContext) (Summary, error) {
	if err := module.ValidateContext("workflow", ctx); err != nil {
		return Summary{}, err
	}
	summary := Summary{
		Project: ctx.Layout.Name(),
		Results: map[Phase]module.Result{},
		Started: p.clock(),
	}
	for phase := Order[0]; phase != PhaseDone; phase = phase.Next() {
		summary.Reached = phase
		result, err := p.RunPhase(ctx, phase)
		summary.Results[phase] = result
		if err != nil {
			summary.Finished = p.clock()
			return summary, err
		}
	}
	summary.Reached = PhaseDone
	summary.Finished = p.clock()
	return summary, nil
}

// RunPhase executes a single phase and confirms its outputs exist afterwards.
func (p *Pipeline) RunPhase(ctx *module.ModuleContext, phase Phase) (module.Result, error) {
	if err := module.ValidateContext("workflow", ctx); err != nil {
		return module.Result{Status: module.StatusFailed}, err
	}
	project := ctx.Layout.Name()
	p.emit(Event{Project: project, Phase: phase, Kind: EventStarted})
	result, err := p.runPhase(ctx, phase)
	if err != nil {
		if result.Status == "" {
			result.Status = module.StatusFailed
		}
		err = fmt.Errorf("%s %s: %w", project, phase, err)
	}
	p.emit(Event{Project: project, Phase: phase, Kind: EventFinished, Result: result, Err: err})
	return result, err
}

func (p *Pipeline) runPhase(ctx *module.ModuleContext, phase Phase) (module.Result, error) {
	id := phase.ModuleID()
	if id == "" {
		return module.Result{}, fmt.Errorf("phase has no module")
	}
	mod, err := p.registry.Resolve(id, p.configs[id])
	if err != nil {
		return module.Result{}, err
	}
	ctx.Log.Printf("%s: %s", ctx.Layout.Name(), phase.FriendlyName())
	result, err := mod.Run(ctx)
	if err != nil {
		return result, err
	}
	switch result.Status {
	case module.StatusCompleted, module.StatusNoOp:
	default:
		return result, fmt.Errorf("%s finished with status %s: %s", id, result.Status, result.Message)
	}
	done, err := mod.IsComplete(ctx)
	if err != nil {
		return result, err
	}
	if !done {
		return result, fmt.Errorf("%s reported %s but its outputs are missing", id, result.Status)
	}
	return result, nil
}

func (p *Pipeline) emit(ev Event) {
	if p.observer == nil {
		return
	}
	ev.At = p.clock()
	p.observer(ev)
}
