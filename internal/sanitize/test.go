package sanitize

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/kingrea/coursepack/internal/linefilter"
)

var (
	// @GradedTest(points=2) plus the whitespace that separated it from the
	// rest of the line. Quoted arguments may contain parentheses.
	gradedAnnotationPattern = regexp.MustCompile(`@GradedTest\s*\((?:[^()"]|"(?:[^"\\]|\\.)*")*\)[ \t]*`)
	gradingImportPattern    = regexp.MustCompile(`import\s+com\.gradescope`)
	privateHelperPattern    = regexp.MustCompile(`PrivateTestHelpers`)
	privateTestNamePattern  = regexp.MustCompile(`(?i)private`)
)

// IsPrivateTest reports whether a test file is withheld from students
// entirely. Only the file name is considered, not its directories.
func IsPrivateTest(path string) bool {
	return privateTestNamePattern.MatchString(filepath.Base(path))
}

// TestLine implements linefilter.Decision for test sources.
func TestLine(line string) (string, bool) {
	line = gradedAnnotationPattern.ReplaceAllString(line, "")
	if gradingImportPattern.MatchString(line) || privateHelperPattern.MatchString(line) {
		return "", false
	}
	return line, true
}

// SanitizeTest deletes private test files. Other test files keep every line
// except grading imports and private helper references, with @GradedTest
// annotations cut out.
func SanitizeTest(path string) error {
	if IsPrivateTest(path) {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("sanitize: remove private test %s: %w", path, err)
		}
		return nil
	}
	return linefilter.Apply(path, TestLine)
}
