package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kingrea/coursepack/internal/contracts"
)

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify every project has the files the pipeline needs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			failed := 0
			for _, report := range contracts.CheckConfig(cfg) {
				if report.IsValid() {
					fmt.Fprintf(a.stdout, "ok    %s\n", report.Project)
					continue
				}
				failed++
				fmt.Fprintf(a.stdout, "FAIL  %s\n", report.Project)
				for _, e := range report.Errors {
					fmt.Fprintf(a.stdout, "      %v\n", e)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d project(s) failed the check", failed)
			}
			return nil
		},
	}
}
