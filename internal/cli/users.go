package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jwhan/tallypad/internal/engine"
)

// NewBindCommand creates the bind command.
func NewBindCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bind <slot> <name>",
		Short: "Bind a participant name to a slot",
		Long: `Bind a 2-4 character participant name to a numpad slot in the
current preset. The slot's count starts at zero. A name may occupy only
one slot per preset.

Example:
  tallypad bind 7 가나다`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, rootOpts, func(eng *engine.Engine, out *OutputFormatter) error {
				if err := eng.BindUser(args[0], args[1]); err != nil {
					return out.Fail(err)
				}
				return out.Success(
					fmt.Sprintf("bound %s to slot %s", args[1], args[0]),
					map[string]string{"slot": args[0], "name": args[1]},
				)
			})
		},
	}
}

// NewUnbindCommand creates the unbind command. Unbinding is destructive
// (the count is lost), so it requires --yes.
func NewUnbindCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "unbind <slot>",
		Short: "Remove a slot's participant and count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := confirm(engine.OpUnbind, yes); err != nil {
				return err
			}
			return withEngine(cmd, rootOpts, func(eng *engine.Engine, out *OutputFormatter) error {
				if err := eng.UnbindUser(args[0]); err != nil {
					return out.Fail(err)
				}
				return out.Success(
					fmt.Sprintf("slot %s cleared", args[0]),
					map[string]string{"slot": args[0]},
				)
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the destructive operation")
	return cmd
}

// NewRenameCommand creates the rename command. Renaming resets the
// slot's count, so it requires --yes.
func NewRenameCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rename <slot> <new-name>",
		Short: "Rename a slot's participant, resetting its count",
		Long: `Rebind a slot to a new participant name. The count is reset to
zero: a renamed identity is a new counter, not a continuation.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := confirm(engine.OpRename, yes); err != nil {
				return err
			}
			return withEngine(cmd, rootOpts, func(eng *engine.Engine, out *OutputFormatter) error {
				if err := eng.RenameUser(args[0], args[1]); err != nil {
					return out.Fail(err)
				}
				return out.Success(
					fmt.Sprintf("slot %s renamed to %s (count reset)", args[0], args[1]),
					map[string]string{"slot": args[0], "name": args[1]},
				)
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the destructive operation")
	return cmd
}

// confirm enforces the engine's confirmation-required marker for
// destructive operations.
func confirm(op engine.Op, yes bool) error {
	if engine.RequiresConfirmation(op) && !yes {
		return WrapExitError(ExitCommandError,
			fmt.Sprintf("%s is destructive; re-run with --yes to confirm", op), nil)
	}
	return nil
}
