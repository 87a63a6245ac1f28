package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kingrea/coursepack/internal/batch"
	"github.com/kingrea/coursepack/internal/tui"
)

type buildFlags struct {
	projects []string
	progress bool
}

func (a *app) buildCmd() *cobra.Command {
	var flags buildFlags
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the instructions, graded and student archives for each project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBuild(cmd, flags)
		},
	}
	cmd.Flags().StringArrayVarP(&flags.projects, "project", "p", nil, "only build this project (repeatable)")
	cmd.Flags().BoolVar(&flags.progress, "progress", false, "show a live progress view instead of echoing commands")
	return cmd
}

func (a *app) runBuild(cmd *cobra.Command, flags buildFlags) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	projects, err := cfg.Select(flags.projects)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		return fmt.Errorf("no projects in %s", cfg.Path)
	}

	log, err := a.logger(!flags.progress)
	if err != nil {
		return err
	}
	defer log.Close()

	opts := batch.Options{
		OutputDir: cfg.OutputDir,
		Tools:     cfg.Tools,
		Extension: a.extension,
		Runner:    a.runner,
		Log:       log,
	}
	if flags.progress {
		_, err := tui.Run(cmd.Context(), opts, projects)
		return err
	}
	driver, err := batch.New(opts)
	if err != nil {
		return err
	}
	summaries, err := driver.Run(cmd.Context(), projects)
	if err != nil {
		return err
	}
	if !a.quiet {
		fmt.Fprintf(a.stdout, "packaged %d project(s) into %s\n", len(summaries), cfg.OutputDir)
	}
	return nil
}
