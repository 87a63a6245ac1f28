package contracts

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/kingrea/coursepack/internal/config"
)

// ValidateProject checks a project against every stage contract and its
// private_files patterns. All problems are returned, not just the first.
func ValidateProject(l *config.Layout, document string) []error {
	var errs []error
	if l == nil {
		return []error{fmt.Errorf("layout is nil")}
	}
	if document == "" {
		document = config.DefaultTools().Document
	}
	seen := map[string]struct{}{}
	for _, contract := range stageContracts {
		for _, req := range contract.Requirements {
			path := req.Path(l, document)
			if _, dup := seen[path]; dup {
				continue
			}
			seen[path] = struct{}{}
			if err := checkPath(path, req.Kind); err != nil {
				errs = append(errs, fmt.Errorf("%s: %s %w", contract.Stage, req.Name, err))
			}
		}
	}
	for index, pattern := range l.Project.PrivateFiles {
		if !doublestar.ValidatePattern(pattern) {
			errs = append(errs, fmt.Errorf("private_files[%d]: invalid pattern %q", index, pattern))
		}
	}
	return errs
}

func checkPath(path string, kind Kind) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("missing at %s", path)
		}
		return fmt.Errorf("unreadable at %s: %w", path, err)
	}
	switch {
	case kind == KindDirectory && !info.IsDir():
		return fmt.Errorf("at %s is not a directory", path)
	case kind == KindFile && info.IsDir():
		return fmt.Errorf("at %s is a directory", path)
	}
	return nil
}
