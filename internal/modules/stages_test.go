package modules

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/kingrea/coursepack/internal/artifact"
	"github.com/kingrea/coursepack/internal/module"
	"github.com/kingrea/coursepack/internal/module/moduletest"
	"github.com/kingrea/coursepack/internal/modules/student"
	"github.com/kingrea/coursepack/internal/toolrun/tooltest"
)

func resolve(t *testing.T, id string) module.Module {
	t.Helper()
	mod, err := NewRegistry().Resolve(id, nil)
	if err != nil {
		t.Fatalf("resolve %s: %v", id, err)
	}
	return mod
}

func runStage(t *testing.T, ctx *module.ModuleContext, id string) module.Result {
	t.Helper()
	result, err := resolve(t, id).Run(ctx)
	if err != nil {
		t.Fatalf("%s: %v", id, err)
	}
	if result.Status != module.StatusCompleted {
		t.Fatalf("%s: unexpected status %+v", id, result)
	}
	return result
}

func zipEntries(t *testing.T, path string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer zr.Close()
	out := map[string]string{}
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		out[f.Name] = string(data)
	}
	return out
}

func TestRegisterBuiltins(t *testing.T) {
	ids := NewRegistry().IDs()
	sort.Strings(ids)
	if strings.Join(ids, ",") != "cleanup,docs,graded,student" {
		t.Fatalf("unexpected ids %v", ids)
	}
	RegisterBuiltins(nil)
}

func TestCleanupRemovesLeftovers(t *testing.T) {
	project := moduletest.NewProject(t, "P1")
	ctx := moduletest.NewContext(t, project, tooltest.New())
	mod := resolve(t, "cleanup")
	result, err := mod.Run(ctx)
	if err != nil || result.Status != module.StatusNoOp {
		t.Fatalf("expected no-op on a clean tree, got %+v %v", result, err)
	}
	moduletest.WriteTree(t, ctx.Layout.OutputDir, map[string]string{
		"P1-student/x.java":   "x",
		"P1-graded/x.java":    "x",
		"P1-student.zip":      "z",
		"P1-graded.zip":       "z",
		"P1-instructions.pdf": "keep",
	})
	moduletest.WriteTree(t, ctx.Layout.EclipseProjectsDir(), map[string]string{"P1-graded.zip": "stale"})
	runStage(t, ctx, "cleanup")
	done, err := mod.IsComplete(ctx)
	if err != nil || !done {
		t.Fatalf("expected complete after cleanup, got %v %v", done, err)
	}
	if _, err := os.Stat(ctx.Layout.InstructionsPath()); err != nil {
		t.Fatalf("cleanup should leave the instructions alone: %v", err)
	}
	if _, err := os.Stat(ctx.Layout.GradedProjectDir()); err != nil {
		t.Fatalf("cleanup touched the graded source tree: %v", err)
	}
}

func TestDocsPublishesInstructions(t *testing.T) {
	fake := tooltest.New()
	ctx := moduletest.NewContext(t, moduletest.NewProject(t, "P1"), fake)
	runStage(t, ctx, "docs")
	if ok, _ := ctx.Artifacts.Exists(artifact.InstructionsPDF); !ok {
		t.Fatalf("instructions not published")
	}
	if len(fake.Calls()) != 2 {
		t.Fatalf("expected two compiler passes, got %q", fake.Commands())
	}
}

func TestDocsFailsWhenCompilerFails(t *testing.T) {
	fake := tooltest.New()
	fake.Fail["pdflatex"] = 1
	ctx := moduletest.NewContext(t, moduletest.NewProject(t, "P1"), fake)
	result, err := resolve(t, "docs").Run(ctx)
	if err == nil || result.Status != module.StatusFailed {
		t.Fatalf("expected failure, got %+v %v", result, err)
	}
}

func TestGradedPublishesArchive(t *testing.T) {
	ctx := moduletest.NewContext(t, moduletest.NewProject(t, "P1"), tooltest.New())
	runStage(t, ctx, "graded")
	entries := zipEntries(t, ctx.Layout.GradedZipPath())
	if entries["P1-graded/src/list/List.java"] != moduletest.SolutionSource {
		t.Fatalf("graded archive missing solution source")
	}
	if _, ok := entries["P1-graded/bin/list/List.class"]; ok {
		t.Fatalf("graded archive should not contain bin/")
	}
	if _, ok := entries["P1-graded/test/list/ListPrivateTest.java"]; !ok {
		t.Fatalf("graded archive should keep private tests")
	}
	if _, err := os.Stat(ctx.Layout.StaleGradedZip()); !os.IsNotExist(err) {
		t.Fatalf("zip left behind in eclipse-projects")
	}
}

func TestGradedFailsOnArchiverError(t *testing.T) {
	fake := tooltest.New()
	fake.Fail["zip"] = 15
	ctx := moduletest.NewContext(t, moduletest.NewProject(t, "P1"), fake)
	if _, err := resolve(t, "graded").Run(ctx); err == nil {
		t.Fatalf("expected archiver failure to surface")
	}
	if ok, _ := ctx.Artifacts.Exists(artifact.GradedZip); ok {
		t.Fatalf("graded zip should not be published")
	}
}

func TestStudentRequiresGraded(t *testing.T) {
	fake := tooltest.New()
	ctx := moduletest.NewContext(t, moduletest.NewProject(t, "P1"), fake)
	result, err := resolve(t, "student").Run(ctx)
	if !errors.Is(err, student.ErrGradedMissing) {
		t.Fatalf("expected ErrGradedMissing, got %v", err)
	}
	if result.Status != module.StatusNeedsInput || result.Message != "Must build graded first" {
		t.Fatalf("unexpected result %+v", result)
	}
	if ok, _ := ctx.Artifacts.Exists(artifact.StudentZip); ok {
		t.Fatalf("student zip must not exist")
	}
	if len(fake.Calls()) != 0 {
		t.Fatalf("no tool should run, got %q", fake.Commands())
	}
}

func TestStudentBuildsSanitizedArchive(t *testing.T) {
	ctx := moduletest.NewContext(t, moduletest.NewProject(t, "P1"), tooltest.New())
	runStage(t, ctx, "graded")
	runStage(t, ctx, "student")
	entries := zipEntries(t, ctx.Layout.StudentZipPath())
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	want := []string{
		"P1-student/.classpath",
		"P1-student/.project",
		"P1-student/src/list/List.java",
		"P1-student/test/list/ListTest.java",
	}
	if strings.Join(names, "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected student entries:\n%s", strings.Join(names, "\n"))
	}
	if entries["P1-student/src/list/List.java"] != moduletest.StudentSource {
		t.Fatalf("source not sanitized:\n%s", entries["P1-student/src/list/List.java"])
	}
	if entries["P1-student/test/list/ListTest.java"] != moduletest.StudentTestSource {
		t.Fatalf("test not sanitized:\n%s", entries["P1-student/test/list/ListTest.java"])
	}
	if entries["P1-student/.project"] != "<name>P1-student</name>\n" {
		t.Fatalf("descriptor not renamed: %q", entries["P1-student/.project"])
	}
	for _, dir := range []string{ctx.Layout.StudentDirPath(), ctx.Layout.GradedDirPath()} {
		if _, err := os.Stat(dir); !os.IsNotExist(err) {
			t.Fatalf("staging dir %s left behind", filepath.Base(dir))
		}
	}
	done, err := resolve(t, "student").IsComplete(ctx)
	if err != nil || !done {
		t.Fatalf("expected student stage complete, got %v %v", done, err)
	}
}

func TestStudentExtensionFromConfig(t *testing.T) {
	mod, err := NewRegistry().Resolve("student", module.Config{student.ConfigExtension: ".py"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(mod.Inputs()) != 1 || mod.Inputs()[0].ID != artifact.GradedZip.ID {
		t.Fatalf("student stage must depend on the graded zip")
	}
}
