package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newHistoryCmd creates the history command.
func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show tags created by previous autotag runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newContainer(cmd, nil)
			if err != nil {
				return err
			}
			defer c.close()
			records, err := c.journal.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "no recorded runs")
				return nil
			}
			for _, rec := range records {
				pushed := ""
				if rec.Pushed {
					pushed = fmt.Sprintf("\tpushed to %s", rec.Remote)
				}
				fmt.Fprintf(out, "%s\t%s%s\n", rec.FinishedAt.Format("2006-01-02 15:04:05"), rec.CreatedTag, pushed)
			}
			return nil
		},
	}
	return cmd
}
