package sanitize

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kingrea/coursepack/internal/config"
)

func gradedTree() map[string]string {
	return map[string]string{
		".project":                           "<name>BST-graded</name>\n",
		".classpath":                         "<classpath/>\n",
		"build.xml":                          "<project/>\n",
		"build.properties":                   "a=b\n",
		"BST.iml":                            "<module/>\n",
		"extras.json":                        "{}\n",
		"tests.py":                           "print()\n",
		"notes/solution-notes.txt":           "spoilers\n",
		"bin/BST.class":                      "\xca\xfe",
		"libs/junit.jar":                     "jar",
		".idea/workspace.xml":                "<xml/>\n",
		"support/com/gradescope/Runner.java": "class Runner {}\n",
		"support/com/other/Keep.java":        "class Keep {}\n",
		"test/bst/BSTTest.java":              "import com.gradescope.x;\n@GradedTest(points=1) public void t() {}\n",
		"test/bst/BSTPrivateTest.java":       "class Hidden {}\n",
		"test/bst/Notes.txt":                 "// BEGIN PRIVATE CODE\nkept as-is\n",
		"src/bst/BST.java":                   "a\n// BEGIN PRIVATE CODE\nb\n// END PRIVATE CODE\nc\n",
		"src/bst/deep/Node.java":             "// STUDENT CODE\nnode\n",
	}
}

func listTree(t *testing.T, root string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(files)
	return files
}

func studentExclusions() []string {
	pc := config.ProjectConfig{Name: "BST", Directory: "/unused", PrivateFiles: []string{"notes/*.txt"}}
	return pc.Exclusions()
}

func TestDirectoryProducesStudentTree(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, gradedTree())
	report, err := Directory(root, Options{Exclusions: studentExclusions()})
	if err != nil {
		t.Fatalf("Directory: %v", err)
	}
	want := []string{
		".classpath",
		".project",
		"src/bst/BST.java",
		"src/bst/deep/Node.java",
		"support/com/other/Keep.java",
		"test/bst/BSTTest.java",
		"test/bst/Notes.txt",
	}
	if diff := cmp.Diff(want, listTree(t, root)); diff != "" {
		t.Fatalf("unexpected tree (-want +got):\n%s", diff)
	}
	checks := map[string]string{
		".project":               "<name>BST-student</name>\n",
		"src/bst/BST.java":       "a\nc\n",
		"src/bst/deep/Node.java": "node\n",
		"test/bst/BSTTest.java":  "public void t() {}\n",
		"test/bst/Notes.txt":     "// BEGIN PRIVATE CODE\nkept as-is\n",
	}
	for rel, body := range checks {
		data, err := os.ReadFile(filepath.Join(root, rel))
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != body {
			t.Fatalf("%s: got %q want %q", rel, data, body)
		}
	}
	if !report.SupportRemoved {
		t.Fatalf("expected support removal to be reported")
	}
	if diff := cmp.Diff([]string{"build.properties", "build.xml"}, report.BuildFiles); diff != "" {
		t.Fatalf("build files (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"test/bst/BSTPrivateTest.java"}, report.PrivateTests); diff != "" {
		t.Fatalf("private tests (-want +got):\n%s", diff)
	}
	if len(report.Sources) != 2 || len(report.Tests) != 1 {
		t.Fatalf("unexpected counts %+v", report)
	}
}

func TestDirectoryWithoutSupportDir(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{".project": "x-graded\n", "src/A.java": "a\n"})
	report, err := Directory(root, Options{})
	if err != nil {
		t.Fatalf("Directory: %v", err)
	}
	if report.SupportRemoved {
		t.Fatalf("support reported removed when absent")
	}
}

func TestDirectoryCustomExtension(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".project":    "p\n",
		"src/a.py":    "x\n# BEGIN PRIVATE CODE\ny\n# END PRIVATE CODE\n",
		"src/B.java":  "// STUDENT CODE\n",
		"test/t_a.py": "@GradedTest(points=3) def test_a(): pass\n",
	})
	if _, err := Directory(root, Options{Extension: "py"}); err != nil {
		t.Fatalf("Directory: %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(root, "src", "a.py"))
	if string(data) != "x\n" {
		t.Fatalf("python source not sanitized: %q", data)
	}
	data, _ = os.ReadFile(filepath.Join(root, "src", "B.java"))
	if string(data) != "// STUDENT CODE\n" {
		t.Fatalf("java source touched with .py extension: %q", data)
	}
	data, _ = os.ReadFile(filepath.Join(root, "test", "t_a.py"))
	if string(data) != "def test_a(): pass\n" {
		t.Fatalf("python test not sanitized: %q", data)
	}
}

func TestDirectoryMissingDescriptorFails(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"src/A.java": "a\n"})
	if _, err := Directory(root, Options{}); err == nil {
		t.Fatalf("expected error for missing .project")
	}
}

func TestDirectoryMissingRootFails(t *testing.T) {
	if _, err := Directory(filepath.Join(t.TempDir(), "nope"), Options{}); err == nil {
		t.Fatalf("expected error for missing root")
	}
}

func TestRemoveMatchesIsIdempotent(t *testing.T) {
	once := t.TempDir()
	twice := t.TempDir()
	writeTree(t, once, gradedTree())
	writeTree(t, twice, gradedTree())
	patterns := studentExclusions()
	if _, err := RemoveMatches(once, patterns...); err != nil {
		t.Fatalf("RemoveMatches: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := RemoveMatches(twice, patterns...); err != nil {
			t.Fatalf("RemoveMatches pass %d: %v", i, err)
		}
	}
	if diff := cmp.Diff(listTree(t, once), listTree(t, twice)); diff != "" {
		t.Fatalf("second pass changed the tree (-once +twice):\n%s", diff)
	}
	removed, err := RemoveMatches(twice, patterns...)
	if err != nil {
		t.Fatalf("RemoveMatches: %v", err)
	}
	if len(removed) != 0 {
		t.Fatalf("expected nothing left to remove, got %v", removed)
	}
}

func TestRemoveMatchesRecursivePattern(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a/Secret.java":   "x",
		"a/b/Secret.java": "x",
		"a/b/Public.java": "x",
	})
	if _, err := RemoveMatches(root, "**/Secret.java"); err != nil {
		t.Fatalf("RemoveMatches: %v", err)
	}
	if diff := cmp.Diff([]string{"a/b/Public.java"}, listTree(t, root)); diff != "" {
		t.Fatalf("unexpected tree (-want +got):\n%s", diff)
	}
}

func TestRemoveMatchesRejectsAbsolutePattern(t *testing.T) {
	if _, err := RemoveMatches(t.TempDir(), "/etc/passwd"); err == nil {
		t.Fatalf("expected invalid pattern error")
	}
}

func TestRemoveMatchesStarIncludesDotfiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"BST.iml":     "<module/>\n",
		".hidden.iml": "<module/>\n",
		"keep.xml":    "<x/>\n",
	})
	removed, err := RemoveMatches(root, "*.iml")
	if err != nil {
		t.Fatalf("RemoveMatches: %v", err)
	}
	if diff := cmp.Diff([]string{".hidden.iml", "BST.iml"}, removed); diff != "" {
		t.Fatalf("unexpected removals (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"keep.xml"}, listTree(t, root)); diff != "" {
		t.Fatalf("unexpected tree (-want +got):\n%s", diff)
	}
}
