package contracts

import (
	"github.com/kingrea/coursepack/internal/config"
)

// Report captures validation results for one project.
type Report struct {
	Project string
	Errors  []error
}

// CheckConfig validates every configured project, in config order.
func CheckConfig(cfg *config.Config) []*Report {
	if cfg == nil {
		return nil
	}
	reports := make([]*Report, 0, len(cfg.Projects))
	for _, pc := range cfg.Projects {
		layout := config.NewLayout(pc, cfg.OutputDir)
		reports = append(reports, &Report{
			Project: pc.Name,
			Errors:  ValidateProject(layout, cfg.Tools.Document),
		})
	}
	return reports
}

// IsValid reports whether the validation passed.
func (r *Report) IsValid() bool {
	return r != nil && len(r.Errors) == 0
}
