package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/kingrea/coursepack/internal/artifact"
	"github.com/kingrea/coursepack/internal/config"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured projects and the state of their artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			return a.printProjects(cfg)
		},
	}
}

func (a *app) printProjects(cfg *config.Config) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("PROJECT", "DIRECTORY", "PRIVATE", "INSTRUCTIONS", "GRADED", "STUDENT")
	for _, pc := range cfg.Projects {
		store := artifact.NewStore(config.NewLayout(pc, cfg.OutputDir))
		row := []string{pc.Name, pc.Directory, "-"}
		if len(pc.PrivateFiles) > 0 {
			row[2] = strings.Join(pc.PrivateFiles, ",")
		}
		for _, ref := range artifact.Published() {
			res, err := store.Check(ref)
			if err != nil {
				return err
			}
			row = append(row, string(res.State))
		}
		t.Row(row...)
	}
	_, err := fmt.Fprintln(a.stdout, t.Render())
	return err
}
