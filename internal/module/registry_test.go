package module

import (
	"testing"

	"github.com/kingrea/coursepack/internal/artifact"
)

type stubModule struct {
	Base
}

func (s *stubModule) IsComplete(*ModuleContext) (bool, error) { return false, nil }

func (s *stubModule) Run(*ModuleContext) (Result, error) {
	return Result{Status: StatusCompleted}, nil
}

func newStub(info Info) Factory {
	return func(Config) (Module, error) {
		base := NewBase(info)
		base.SetOutputs(artifact.GradedZip)
		return &stubModule{Base: base}, nil
	}
}

func TestRegistryResolve(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("graded", newStub(Info{ID: "graded", Name: "Graded", Version: "1.0.0"}))
	if err := reg.Register("graded", newStub(Info{})); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	mod, err := reg.Resolve("graded", nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(mod.Outputs()) != 1 || mod.Outputs()[0].ID != artifact.GradedZip.ID {
		t.Fatalf("unexpected outputs %+v", mod.Outputs())
	}
	if _, err := reg.Resolve("missing", nil); err == nil {
		t.Fatalf("expected unknown id error")
	}
	if !reg.Has("graded") || reg.Has("missing") {
		t.Fatalf("Has returned wrong answer")
	}
}

func TestRegistryRejectsMismatchedOrInvalidInfo(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("a", newStub(Info{ID: "b", Name: "B", Version: "1"}))
	reg.MustRegister("c", newStub(Info{ID: "c"}))
	if _, err := reg.Resolve("a", nil); err == nil {
		t.Fatalf("expected id mismatch error")
	}
	if _, err := reg.Resolve("c", nil); err == nil {
		t.Fatalf("expected validation error")
	}
	if ids := reg.IDs(); len(ids) != 2 || ids[0] != "a" || ids[1] != "c" {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestConfigString(t *testing.T) {
	cfg := Config{"extension": ".py", "n": 3}
	if cfg.String("extension", ".java") != ".py" {
		t.Fatalf("expected configured value")
	}
	if cfg.String("n", "x") != "x" || Config(nil).String("extension", ".java") != ".java" {
		t.Fatalf("expected fallback")
	}
}

func TestValidateContext(t *testing.T) {
	if err := ValidateContext("x", nil); err == nil {
		t.Fatalf("expected error for nil context")
	}
	if err := ValidateContext("x", &ModuleContext{}); err == nil {
		t.Fatalf("expected error for missing layout")
	}
	if (*ModuleContext)(nil).Context() == nil {
		t.Fatalf("Context must never be nil")
	}
}
