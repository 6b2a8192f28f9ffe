package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newNextCmd creates the next command.
func newNextCmd() *cobra.Command {
	var (
		flags    tagFlags
		ciOutput bool
	)
	cmd := &cobra.Command{
		Use:       "next [major|minor|patch]",
		Short:     "Print the tag the next run would create",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"major", "minor", "patch"},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer(cmd, flags.overrides(cmd, args))
			if err != nil {
				return err
			}
			defer c.close()
			release, err := c.tagger().Plan(cmd.Context())
			if err != nil {
				return err
			}
			if ciOutput {
				fmt.Fprintf(cmd.OutOrStdout(), "next_tag=%s\n", release.Name)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), release.Name)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&ciOutput, "ci-output", false, "Output in CI-friendly format")
	return cmd
}
