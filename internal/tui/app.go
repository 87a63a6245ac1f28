// Package tui renders batch progress with bubbletea.
//
// The model is fed from the pipeline observer: every workflow.Event becomes
// an eventMsg via tea.Program.Send, and the batch result arrives as a
// doneMsg once the driver returns.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/coursepack/internal/batch"
	"github.com/kingrea/coursepack/internal/config"
	"github.com/kingrea/coursepack/internal/module"
	"github.com/kingrea/coursepack/internal/workflow"
)

// ErrInterrupted is returned when the user quits before the batch finishes.
var ErrInterrupted = errors.New("tui: interrupted")

type eventMsg workflow.Event

type doneMsg struct {
	summaries []workflow.Summary
	err       error
}

// phaseState is the last known state of one phase of one project.
type phaseState int

const (
	phasePending phaseState = iota
	phaseRunning
	phaseDone
	phaseSkipped
	phaseFailed
)

type projectRow struct {
	name   string
	phases map[workflow.Phase]phaseState
	detail string
}

// Model tracks per-project phase state for the progress view.
type Model struct {
	rows     []*projectRow
	index    map[string]*projectRow
	spinner  spinner.Model
	finished bool
	err      error
	quitting bool
	width    int
}

// NewModel returns a model listing projects in batch order.
func NewModel(projects []config.ProjectConfig) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = labelStyleRunning
	m := Model{index: map[string]*projectRow{}, spinner: s}
	for _, p := range projects {
		row := &projectRow{name: p.Name, phases: map[workflow.Phase]phaseState{}}
		m.rows = append(m.rows, row)
		m.index[p.Name] = row
	}
	return m
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update folds pipeline events and key presses into the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if !m.finished {
				m.quitting = true
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case eventMsg:
		m.apply(workflow.Event(msg))
	case doneMsg:
		m.finished = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) apply(ev workflow.Event) {
	row, ok := m.index[ev.Project]
	if !ok {
		row = &projectRow{name: ev.Project, phases: map[workflow.Phase]phaseState{}}
		m.rows = append(m.rows, row)
		m.index[ev.Project] = row
	}
	if ev.Kind == workflow.EventStarted {
		row.phases[ev.Phase] = phaseRunning
		row.detail = ev.Phase.FriendlyName()
		return
	}
	switch {
	case ev.Err != nil:
		row.phases[ev.Phase] = phaseFailed
		row.detail = ev.Err.Error()
	case ev.Result.Message != "" && ev.Result.Status != module.StatusCompleted:
		row.phases[ev.Phase] = phaseSkipped
		row.detail = ev.Result.Message
	default:
		row.phases[ev.Phase] = phaseDone
		row.detail = ""
	}
	if ev.Phase == workflow.PhaseStudent && ev.Err == nil {
		row.detail = "packaged"
	}
}

// Err reports the batch error, or ErrInterrupted when the user quit early.
func (m Model) Err() error {
	if m.quitting {
		return ErrInterrupted
	}
	return m.err
}

// Run drives a batch under the progress view. The observer in opts is
// replaced by one feeding the program.
func Run(ctx context.Context, opts batch.Options, projects []config.ProjectConfig, progOpts ...tea.ProgramOption) ([]workflow.Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(NewModel(projects), append([]tea.ProgramOption{tea.WithContext(ctx)}, progOpts...)...)
	opts.Observer = func(ev workflow.Event) { program.Send(eventMsg(ev)) }
	driver, err := batch.New(opts)
	if err != nil {
		return nil, err
	}

	results := make(chan doneMsg, 1)
	go func() {
		s, runErr := driver.Run(ctx, projects)
		msg := doneMsg{summaries: s, err: runErr}
		results <- msg
		program.Send(msg)
	}()

	final, err := program.Run()
	cancel()
	done := <-results
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return done.summaries, fmt.Errorf("tui: %w", err)
	}
	model, ok := final.(Model)
	if !ok {
		return done.summaries, fmt.Errorf("tui: unexpected model %T", final)
	}
	if model.quitting {
		return done.summaries, ErrInterrupted
	}
	return done.summaries, done.err
}
