package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/jwhan/tallypad/internal/model"
)

// ExportSummaryText renders the deterministic plain-text report for the
// current preset: a dated header, one line per user with a positive count
// in descending count order, and a total footer.
func (e *Engine) ExportSummaryText(now time.Time) string {
	s := e.Summary()

	var b strings.Builder
	fmt.Fprintf(&b, "=== %s 카운터 결과 ===\n", now.Format(model.DateFormat))
	b.WriteString("\n")
	for _, uc := range s.Ranked {
		fmt.Fprintf(&b, "%s: %d회\n", uc.Name, uc.Count)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "총합: %d회", s.Total)
	return b.String()
}
