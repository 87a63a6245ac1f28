// Package moduletest builds throwaway project trees and module contexts for
// pipeline tests.
package moduletest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kingrea/coursepack/internal/archive"
	"github.com/kingrea/coursepack/internal/config"
	"github.com/kingrea/coursepack/internal/document"
	"github.com/kingrea/coursepack/internal/logging"
	"github.com/kingrea/coursepack/internal/module"
	"github.com/kingrea/coursepack/internal/toolrun"
)

// SolutionSource is the graded copy of src/list/List.java.
const SolutionSource = `package list;

public class List {
    public int size() {
        // BEGIN PRIVATE CODE
        return count;
        // END PRIVATE CODE
        // STUDENT CODE
    }
}
`

// StudentSource is SolutionSource after sanitization.
const StudentSource = `package list;

public class List {
    public int size() {
    }
}
`

// GradedTestSource is the graded copy of test/list/ListTest.java.
const GradedTestSource = `package list;

import com.gradescope.jh61b.grader.GradedTest;

public class ListTest {
    @GradedTest(points=2) public void testSize() {
    }
}
`

// StudentTestSource is GradedTestSource after sanitization.
const StudentTestSource = `package list;


public class ListTest {
    public void testSize() {
    }
}
`

// GradedTree returns the files of a graded Eclipse project.
func GradedTree(name string) map[string]string {
	return map[string]string{
		".project":                           "<name>" + name + "-graded</name>\n",
		".classpath":                         "<classpath/>\n",
		"build.xml":                          "<project/>\n",
		"bin/list/List.class":                "\xca\xfe\xba\xbe",
		"src/list/List.java":                 SolutionSource,
		"test/list/ListTest.java":            GradedTestSource,
		"test/list/ListPrivateTest.java":     "class Hidden {}\n",
		"support/com/gradescope/Runner.java": "class Runner {}\n",
		"extras.json":                        "{}\n",
		name + ".iml":                        "<module/>\n",
		"solutions/answers.txt":              "42\n",
	}
}

// WriteTree writes files under root.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, body := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// NewProject lays out a complete project directory under a temp dir and
// returns its configuration. private_files lists solutions/*.
func NewProject(t *testing.T, name string) config.ProjectConfig {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "projects", name)
	WriteTree(t, filepath.Join(dir, config.DocumentDir), map[string]string{
		"project.tex": "\\documentclass{article}\n\\begin{document}x\\end{document}\n",
	})
	WriteTree(t, filepath.Join(dir, config.EclipseProjectsDir, name+"-graded"), GradedTree(name))
	return config.ProjectConfig{Name: name, Directory: dir, PrivateFiles: []string{"solutions/*"}}
}

// NewContext wires a module context for project around runner, writing into
// a fresh output directory.
func NewContext(t *testing.T, project config.ProjectConfig, runner toolrun.Runner) *module.ModuleContext {
	t.Helper()
	out := filepath.Join(t.TempDir(), config.DefaultOutputDir)
	if err := os.MkdirAll(out, 0o755); err != nil {
		t.Fatal(err)
	}
	log := logging.Discard()
	tools := config.DefaultTools()
	return module.NewContext(
		context.Background(),
		config.NewLayout(project, out),
		archive.New(runner, tools.Zip, tools.Unzip, log),
		document.New(runner, tools.Latex, tools.Document, log),
		log,
	)
}
