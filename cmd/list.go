package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newListCmd creates the list command.
func newListCmd() *cobra.Command {
	var flags tagFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the repository's version tags in ascending order",
		Long: `List the repository's version tags in ascending order.

Tags that do not match the tag name template are skipped, unless --strict
is given, in which case the first unmatched tag aborts the command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newContainer(cmd, flags.overrides(cmd, nil))
			if err != nil {
				return err
			}
			defer c.close()
			tags, err := c.tagger().Tags(cmd.Context())
			if err != nil {
				return err
			}
			matcher, err := c.cfg.Matcher()
			if err != nil {
				return err
			}
			for _, tag := range tags {
				fmt.Fprintln(cmd.OutOrStdout(), tag.Name(matcher))
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
