package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jwhan/tallypad/internal/engine"
	"github.com/jwhan/tallypad/internal/model"
)

// NewPresetCommand creates the preset command group.
func NewPresetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Show or switch the active preset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPresetShow(cmd, rootOpts)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "switch <1-3>",
		Short: "Switch to another preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError,
					fmt.Sprintf("preset must be a number 1-%d", model.NumPresets), err)
			}
			return withEngine(cmd, rootOpts, func(eng *engine.Engine, out *OutputFormatter) error {
				// Operator-facing preset numbers are 1-based.
				if err := eng.SwitchPreset(n - 1); err != nil {
					return out.Fail(err)
				}
				return out.Success(
					fmt.Sprintf("switched to preset %d", n),
					map[string]int{"preset": n},
				)
			})
		},
	})
	return cmd
}

func runPresetShow(cmd *cobra.Command, rootOpts *RootOptions) error {
	return withEngine(cmd, rootOpts, func(eng *engine.Engine, out *OutputFormatter) error {
		st := eng.State()
		type presetInfo struct {
			Number  int    `json:"number"`
			Name    string `json:"name"`
			Bound   int    `json:"bound"`
			Current bool   `json:"current"`
		}
		infos := make([]presetInfo, 0, model.NumPresets)
		text := ""
		for i := range st.Presets {
			p := &st.Presets[i]
			marker := " "
			if i == st.CurrentPreset {
				marker = "*"
			}
			text += fmt.Sprintf("%s %d  %s (%d bound)\n", marker, i+1, p.Name, len(p.Users))
			infos = append(infos, presetInfo{
				Number:  i + 1,
				Name:    p.Name,
				Bound:   len(p.Users),
				Current: i == st.CurrentPreset,
			})
		}
		return out.Success(text[:len(text)-1], infos)
	})
}
