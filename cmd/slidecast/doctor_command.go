package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"slidecast/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external binaries and configured directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			depRows := make([][]string, 0, 4)
			failures := 0
			for _, status := range preflight.CheckSystemDeps(cfg) {
				state := "ok"
				detail := status.Command
				if !status.Available {
					state = "missing"
					detail = status.Detail
					failures++
				}
				depRows = append(depRows, []string{status.Name, state, detail, status.Description})
			}
			fmt.Fprintln(out, "Binaries:")
			fmt.Fprintln(out, renderTable(
				[]string{"Name", "State", "Detail", "Purpose"},
				depRows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft}))

			checkRows := make([][]string, 0, 4)
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				state := "ok"
				if !result.Passed {
					state = "fail"
					failures++
				}
				checkRows = append(checkRows, []string{result.Name, state, result.Detail})
			}
			fmt.Fprintln(out, "Checks:")
			fmt.Fprintln(out, renderTable(
				[]string{"Name", "State", "Detail"},
				checkRows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft}))

			if failures > 0 {
				return fmt.Errorf("%d check(s) failed", failures)
			}
			fmt.Fprintln(out, "All checks passed.")
			return nil
		},
	}
}
