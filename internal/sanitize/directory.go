package sanitize

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/kingrea/coursepack/internal/logging"
)

// Fixed locations inside an Eclipse project tree.
const (
	BuildFilesPattern = "build.*"
	SupportDir        = "support/com/gradescope"
	TestDir           = "test"
	SourceDir         = "src"
	DefaultExtension  = ".java"
)

// Options controls a directory sanitization pass.
type Options struct {
	// Extension selects test and source files, including the dot
	Extension string
	// Exclusions are glob patterns relative to the tree root, deleted after
	// the code passes
	Exclusions []string
	Log        *logging.Logger
}

// Report summarizes what a pass changed. Paths are relative to the root.
type Report struct {
	BuildFiles     []string
	PrivateTests   []string
	Tests          []string
	Sources        []string
	Excluded       []string
	SupportRemoved bool
}

// Directory turns an extracted graded tree into a student tree in place:
// build files and grading support go first, then tests and sources are
// sanitized, then exclusions are deleted and the descriptor is renamed.
func Directory(root string, opts Options) (Report, error) {
	var report Report
	ext := opts.Extension
	if ext == "" {
		ext = DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if info, err := os.Stat(root); err != nil {
		return report, fmt.Errorf("sanitize: %w", err)
	} else if !info.IsDir() {
		return report, fmt.Errorf("sanitize: %s is not a directory", root)
	}

	removed, err := RemoveMatches(root, BuildFilesPattern)
	if err != nil {
		return report, err
	}
	report.BuildFiles = removed

	supportPath := filepath.Join(root, filepath.FromSlash(SupportDir))
	if _, err := os.Lstat(supportPath); err == nil {
		report.SupportRemoved = true
	}
	if err := os.RemoveAll(supportPath); err != nil {
		return report, fmt.Errorf("sanitize: remove %s: %w", SupportDir, err)
	}

	tests, err := glob(root, path.Join(TestDir, "**", "*"+ext))
	if err != nil {
		return report, err
	}
	for _, rel := range tests {
		if IsPrivateTest(rel) {
			report.PrivateTests = append(report.PrivateTests, rel)
		} else {
			report.Tests = append(report.Tests, rel)
		}
		if err := SanitizeTest(filepath.Join(root, filepath.FromSlash(rel))); err != nil {
			return report, fmt.Errorf("sanitize: test %s: %w", rel, err)
		}
	}

	sources, err := glob(root, path.Join(SourceDir, "**", "*"+ext))
	if err != nil {
		return report, err
	}
	for _, rel := range sources {
		if err := SanitizeSource(filepath.Join(root, filepath.FromSlash(rel))); err != nil {
			return report, fmt.Errorf("sanitize: source %s: %w", rel, err)
		}
		report.Sources = append(report.Sources, rel)
	}

	excluded, err := RemoveMatches(root, opts.Exclusions...)
	if err != nil {
		return report, err
	}
	report.Excluded = excluded

	if err := RenameProject(filepath.Join(root, DescriptorFile)); err != nil {
		return report, fmt.Errorf("sanitize: rename project: %w", err)
	}

	opts.Log.Printf("sanitized %s: %d sources, %d tests, %d private tests, %d excluded",
		root, len(report.Sources), len(report.Tests), len(report.PrivateTests), len(report.Excluded))
	return report, nil
}

// RemoveMatches deletes every path under root matching any of the patterns.
// Each pattern is expanded against the tree as it stands when its turn
// comes, so earlier deletions shrink later matches. Absent paths are not an
// error.
func RemoveMatches(root string, patterns ...string) ([]string, error) {
	var removed []string
	for _, pattern := range patterns {
		matches, err := glob(root, pattern)
		if err != nil {
			return removed, err
		}
		for _, rel := range matches {
			if err := os.RemoveAll(filepath.Join(root, filepath.FromSlash(rel))); err != nil {
				return removed, fmt.Errorf("sanitize: remove %s: %w", rel, err)
			}
			removed = append(removed, rel)
		}
	}
	return removed, nil
}

func glob(root, pattern string) ([]string, error) {
	pattern = strings.TrimPrefix(filepath.ToSlash(strings.TrimSpace(pattern)), "./")
	if pattern == "" {
		return nil, nil
	}
	if !doublestar.ValidatePattern(pattern) || strings.HasPrefix(pattern, "/") {
		return nil, fmt.Errorf("sanitize: invalid pattern %q", pattern)
	}
	matches, err := doublestar.Glob(os.DirFS(root), pattern)
	if err != nil {
		return nil, fmt.Errorf("sanitize: glob %q: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}
