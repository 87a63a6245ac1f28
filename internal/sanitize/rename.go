package sanitize

import (
	"strings"

	"github.com/kingrea/coursepack/internal/linefilter"
)

// DescriptorFile is the Eclipse project descriptor at the root of the tree.
const DescriptorFile = ".project"

// RenameProject rewrites every "graded" in the descriptor to "student".
func RenameProject(path string) error {
	return linefilter.Apply(path, func(line string) (string, bool) {
		return strings.ReplaceAll(line, "graded", "student"), true
	})
}
