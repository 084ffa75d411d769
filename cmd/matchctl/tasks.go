package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"artmatch/pkg/registry"
)

func newTasksCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List the Zeebe task types served by worker-manager",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := registry.Default()
			if path != "" {
				var err error
				if reg, err = registry.LoadRegistry(path); err != nil {
					return fmt.Errorf("loading %s: %w", path, err)
				}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TASK TYPE\tTIMEOUT\tRETRIES\tERROR CODES")
			for _, a := range reg.Activities {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", a.TaskType, a.Timeout, a.Retries, strings.Join(a.ErrorCodes, ","))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&path, "registry", "", "activity registry file (defaults to the built-in one)")
	return cmd
}
