package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jwhan/tallypad/internal/engine"
)

// NewClickCommand creates the click command, the hot path of the tool.
func NewClickCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "click <slot>",
		Short: "Record a click on a slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, rootOpts, func(eng *engine.Engine, out *OutputFormatter) error {
				count, err := eng.RecordClick(args[0])
				if err != nil {
					return out.Fail(err)
				}
				name := eng.State().Current().Users[args[0]].Name
				return out.Success(
					fmt.Sprintf("%s: %d", name, count),
					map[string]any{"slot": args[0], "name": name, "count": count},
				)
			})
		},
	}
}

// NewUndoCommand creates the undo command.
func NewUndoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Undo the most recent click",
		Long: `Remove the most recent click from the ledger and decrement the
matching slot's count. Only the latest click can be undone; undo is not
a multi-step history.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, rootOpts, func(eng *engine.Engine, out *OutputFormatter) error {
				if err := eng.Undo(); err != nil {
					return out.Fail(err)
				}
				return out.Success("last click undone", nil)
			})
		},
	}
}

// NewResetCommand creates the reset command. It zeroes every preset, so
// it requires --yes.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset every counter in the current preset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := confirm(engine.OpResetAll, yes); err != nil {
				return err
			}
			return withEngine(cmd, rootOpts, func(eng *engine.Engine, out *OutputFormatter) error {
				if err := eng.ResetAll(); err != nil {
					return out.Fail(err)
				}
				return out.Success("all counters reset", nil)
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the destructive operation")
	return cmd
}
