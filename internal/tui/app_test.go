package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/coursepack/internal/config"
	"github.com/kingrea/coursepack/internal/module"
	"github.com/kingrea/coursepack/internal/workflow"
)

func newTestModel() Model {
	return NewModel([]config.ProjectConfig{{Name: "P1"}, {Name: "P2"}})
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return model, cmd
}

func TestUpdateTracksPhases(t *testing.T) {
	m := newTestModel()
	m, _ = send(t, m, eventMsg{Project: "P1", Phase: workflow.PhaseDoc, Kind: workflow.EventStarted})
	if got := m.index["P1"].phases[workflow.PhaseDoc]; got != phaseRunning {
		t.Fatalf("expected running, got %d", got)
	}
	if m.index["P1"].detail != workflow.PhaseDoc.FriendlyName() {
		t.Fatalf("unexpected detail %q", m.index["P1"].detail)
	}
	m, _ = send(t, m, eventMsg{Project: "P1", Phase: workflow.PhaseDoc, Kind: workflow.EventFinished,
		Result: module.Result{Status: module.StatusCompleted}})
	if got := m.index["P1"].phases[workflow.PhaseDoc]; got != phaseDone {
		t.Fatalf("expected done, got %d", got)
	}
	m, _ = send(t, m, eventMsg{Project: "P1", Phase: workflow.PhaseCleanup, Kind: workflow.EventFinished,
		Result: module.Result{Status: module.StatusNoOp, Message: "nothing to clean"}})
	if got := m.index["P1"].phases[workflow.PhaseCleanup]; got != phaseSkipped {
		t.Fatalf("expected skipped, got %d", got)
	}
	m, _ = send(t, m, eventMsg{Project: "P2", Phase: workflow.PhaseGraded, Kind: workflow.EventFinished,
		Err: errors.New("zip exited 12")})
	if got := m.index["P2"].phases[workflow.PhaseGraded]; got != phaseFailed {
		t.Fatalf("expected failed, got %d", got)
	}
	if !strings.Contains(m.View(), "zip exited 12") {
		t.Fatalf("view should show the failure detail:\n%s", m.View())
	}
}

func TestUnknownProjectGetsRow(t *testing.T) {
	m := newTestModel()
	m, _ = send(t, m, eventMsg{Project: "Extra", Phase: workflow.PhaseCleanup, Kind: workflow.EventStarted})
	if len(m.rows) != 3 || m.rows[2].name != "Extra" {
		t.Fatalf("expected a new row for Extra")
	}
}

func TestDoneQuits(t *testing.T) {
	m := newTestModel()
	m, cmd := send(t, m, doneMsg{})
	if !m.finished || cmd == nil {
		t.Fatalf("done should finish and quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit command")
	}
	if m.Err() != nil {
		t.Fatalf("unexpected error %v", m.Err())
	}
	if !strings.Contains(m.View(), "2 project(s) packaged") {
		t.Fatalf("unexpected view:\n%s", m.View())
	}
}

func TestDoneWithError(t *testing.T) {
	m := newTestModel()
	m, _ = send(t, m, doneMsg{err: errors.New("boom")})
	if m.Err() == nil || !strings.Contains(m.View(), "failed: boom") {
		t.Fatalf("expected failure to surface, view:\n%s", m.View())
	}
}

func TestQuitBeforeDoneInterrupts(t *testing.T) {
	m := newTestModel()
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil || !errors.Is(m.Err(), ErrInterrupted) {
		t.Fatalf("expected interrupt, got %v", m.Err())
	}
	if !strings.Contains(m.View(), "interrupted") {
		t.Fatalf("view should mention the interrupt")
	}
}

func TestViewListsProjectsInOrder(t *testing.T) {
	view := newTestModel().View()
	first, second := strings.Index(view, "P1"), strings.Index(view, "P2")
	if first < 0 || second < first {
		t.Fatalf("projects out of order:\n%s", view)
	}
	if !strings.Contains(view, "cleanup") || !strings.Contains(view, "student") {
		t.Fatalf("phase labels missing:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef\nsecond", 4); got != "abc…" {
		t.Fatalf("unexpected %q", got)
	}
	if got := truncate("abc", 0); got != "abc" {
		t.Fatalf("unexpected %q", got)
	}
}
