package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jwhan/tallypad/internal/engine"
)

// NewExportCommand creates the export command: the shareable plain-text
// result report for today's counts.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write today's result report",
		Long: `Produce the plain-text result report for the current preset:
date header, one line per participant ranked by count, and the total.
By default the report goes to stdout; --out writes it to a file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, rootOpts, func(eng *engine.Engine, out *OutputFormatter) error {
				report := eng.ExportSummaryText(time.Now())
				if outPath != "" {
					if err := os.WriteFile(outPath, []byte(report+"\n"), 0o644); err != nil {
						return out.Fail(WrapExitError(ExitCommandError, "failed to write report", err))
					}
					return out.Success(
						fmt.Sprintf("report written to %s", outPath),
						map[string]string{"path": outPath},
					)
				}
				return out.Success(report, map[string]string{"report": report})
			})
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "write the report to a file instead of stdout")
	return cmd
}
