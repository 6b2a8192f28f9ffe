package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tagworks/autotag/internal/config"
	"github.com/tagworks/autotag/internal/orchestrator"
)

// tagFlags are the flags shared by the commands that resolve tagging
// configuration. Only flags the user changed become overrides.
type tagFlags struct {
	template       string
	message        string
	step           string
	push           bool
	pull           bool
	remote         string
	strict         bool
	minimumVersion string
}

func (f *tagFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.template, "template", "", "Tag name template, e.g. {major}.{minor}.{patch}")
	cmd.Flags().StringVar(&f.message, "message", "", "Tag message template; {tagname} expands to the tag name")
	cmd.Flags().StringVar(&f.step, "step", "", "Version component to increment (major, minor or patch)")
	cmd.Flags().BoolVar(&f.push, "push", false, "Push the new tag to the remote after creating it")
	cmd.Flags().BoolVar(&f.pull, "pull", false, "Pull from the remote before tagging")
	cmd.Flags().StringVar(&f.remote, "remote", "", "Remote to fetch from and push to")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "Fail when an existing tag does not match the template")
	cmd.Flags().StringVar(&f.minimumVersion, "minimum-version", "", "Version floor for the created tag")
}

// overrides translates changed flags (and the optional step argument) into
// config overrides.
func (f *tagFlags) overrides(cmd *cobra.Command, args []string) *config.Overrides {
	o := &config.Overrides{}
	if cmd.Flags().Changed("template") {
		o.TagnameTemplate = &f.template
	}
	if cmd.Flags().Changed("message") {
		o.TagmessageTemplate = &f.message
	}
	if cmd.Flags().Changed("step") {
		o.Step = &f.step
	}
	if len(args) > 0 {
		o.Step = &args[0]
	}
	if cmd.Flags().Changed("push") {
		o.PushAfterTagging = &f.push
	}
	if cmd.Flags().Changed("remote") {
		o.RemoteName = &f.remote
	}
	if cmd.Flags().Changed("strict") {
		o.StrictParse = &f.strict
	}
	if cmd.Flags().Changed("minimum-version") {
		o.MinimumVersion = &f.minimumVersion
	}
	return o
}

// newCreateCmd creates the create command.
func newCreateCmd() *cobra.Command {
	var (
		flags    tagFlags
		dryRun   bool
		ciOutput bool
	)
	cmd := &cobra.Command{
		Use:   "create [major|minor|patch]",
		Short: "Create the next semantic-version tag",
		Long: `Create the next semantic-version tag.

The repository's existing tags are parsed through the tag name template,
the latest version is incremented per the requested step and the resulting
tag is created at HEAD. With push_after_tagging (or --push) the tag is
pushed to the configured remote afterwards.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"major", "minor", "patch"},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer(cmd, flags.overrides(cmd, args))
			if err != nil {
				return err
			}
			defer c.close()
			release, err := c.tagger().Execute(cmd.Context(), orchestrator.RunOptions{
				DryRun:   dryRun,
				CIOutput: ciOutput,
				Pull:     flags.pull,
			})
			if err != nil {
				return err
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "would create tag %s\n", release.Name)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created tag %s\n", release.Name)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute the tag without creating it")
	cmd.Flags().BoolVar(&ciOutput, "ci-output", false, "Output in CI-friendly format")
	return cmd
}
