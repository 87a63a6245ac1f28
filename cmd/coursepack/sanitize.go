package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kingrea/coursepack/internal/config"
	"github.com/kingrea/coursepack/internal/sanitize"
)

func (a *app) sanitizeCmd() *cobra.Command {
	var private []string
	cmd := &cobra.Command{
		Use:   "sanitize DIR",
		Short: "Turn an extracted graded tree into a student tree in place",
		Long: `sanitize runs the student-stage cleanup on DIR without zipping it:
build files and grading support are removed, private tests deleted, private
code blocks stripped, the default exclusions and every --private pattern
deleted, and the .project descriptor renamed.

DIR is modified in place; run it on a copy.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := os.Stat(args[0])
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", args[0])
			}
			log, err := a.logger(true)
			if err != nil {
				return err
			}
			defer log.Close()
			pc := config.ProjectConfig{PrivateFiles: private}
			report, err := sanitize.Directory(args[0], sanitize.Options{
				Extension:  a.extension,
				Exclusions: pc.Exclusions(),
				Log:        log,
			})
			if err != nil {
				return err
			}
			if !a.quiet {
				fmt.Fprintf(a.stdout, "sanitized %d source(s), %d test(s); removed %d private test(s) and %d excluded path(s)\n",
					len(report.Sources), len(report.Tests), len(report.PrivateTests), len(report.Excluded))
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&private, "private", nil, "extra glob to delete, relative to DIR (repeatable)")
	return cmd
}
