package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kingrea/coursepack/internal/contracts"
	"github.com/kingrea/coursepack/internal/modules"
	"github.com/kingrea/coursepack/internal/workflow"
)

func (a *app) stagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "Describe the pipeline stages and the project files each one reads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := modules.NewRegistry()
			n := 0
			for phase := workflow.Order[0]; phase != workflow.PhaseDone; phase = phase.Next() {
				n++
				mod, err := registry.Resolve(phase.ModuleID(), nil)
				if err != nil {
					return err
				}
				info := mod.Info()
				fmt.Fprintf(a.stdout, "%d. %-8s %s: %s\n", n, phase, info.Name, info.Description)
				contract, ok := contracts.ContractFor(info.ID)
				if !ok {
					continue
				}
				names := make([]string, 0, len(contract.Requirements))
				for _, req := range contract.Requirements {
					names = append(names, req.Name)
				}
				fmt.Fprintf(a.stdout, "   needs: %s\n", strings.Join(names, ", "))
			}
			return nil
		},
	}
}
