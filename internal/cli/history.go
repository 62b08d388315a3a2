package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jwhan/tallypad/internal/engine"
	"github.com/jwhan/tallypad/internal/model"
)

// logTailLines bounds how much of an archived day's app log the show
// subcommand prints.
const logTailLines = 20

// NewHistoryCommand creates the history command group for browsing
// per-date archives.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, rootOpts, func(eng *engine.Engine, out *OutputFormatter) error {
				dates, err := eng.ListArchiveDates()
				if err != nil {
					return out.Fail(WrapExitError(ExitCommandError, "failed to list archives", err))
				}
				if len(dates) == 0 {
					return out.Success("no archives", dates)
				}
				return out.Success(strings.Join(dates, "\n"), dates)
			})
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show <date>",
		Short: "Show one archived day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, rootOpts, func(eng *engine.Engine, out *OutputFormatter) error {
				arc, err := eng.LoadArchive(args[0])
				if err != nil {
					if errors.Is(err, os.ErrNotExist) {
						return out.Fail(WrapExitError(ExitFailure,
							fmt.Sprintf("no archive for %s", args[0]), nil))
					}
					return out.Fail(WrapExitError(ExitCommandError, "failed to read archive", err))
				}
				return out.Success(renderArchive(arc), arc)
			})
		},
	})
	return cmd
}

func renderArchive(arc model.Archive) string {
	// Archive users are keyed by slot; sort by count, then slot.
	slots := make([]string, 0, len(arc.Users))
	total := 0
	for slot := range arc.Users {
		slots = append(slots, slot)
		total += arc.Users[slot].Count
	}
	sort.Slice(slots, func(i, j int) bool {
		if arc.Users[slots[i]].Count != arc.Users[slots[j]].Count {
			return arc.Users[slots[i]].Count > arc.Users[slots[j]].Count
		}
		return slots[i] < slots[j]
	})

	var b strings.Builder
	fmt.Fprintf(&b, "%s · preset %d · %d participants · total %d\n",
		arc.Date, arc.Preset+1, len(arc.Users), total)
	for _, slot := range slots {
		fmt.Fprintf(&b, "  %s: %d\n", arc.Users[slot].Name, arc.Users[slot].Count)
	}

	if len(arc.Logs) > 0 {
		tail := arc.Logs
		if len(tail) > logTailLines {
			tail = tail[len(tail)-logTailLines:]
		}
		b.WriteString("log:\n")
		for _, line := range tail {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
