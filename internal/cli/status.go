package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jwhan/tallypad/internal/engine"
	"github.com/jwhan/tallypad/internal/model"
)

// NewStatusCommand creates the status command: the slot board plus the
// ranked summary of the current preset.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show slot bindings, counts, and the ranked summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, rootOpts, func(eng *engine.Engine, out *OutputFormatter) error {
				st := eng.State()
				sum := eng.Summary()
				return out.Success(renderStatus(st, sum), statusData(st, sum))
			})
		},
	}
}

type slotStatus struct {
	Slot      string `json:"slot"`
	Name      string `json:"name"`
	Count     int    `json:"count"`
	LastOrder int    `json:"last_order,omitempty"`
}

type statusPayload struct {
	Preset  int              `json:"preset"`
	Date    string           `json:"date"`
	Total   int              `json:"total"`
	Slots   []slotStatus     `json:"slots"`
	Ranking []engineRankItem `json:"ranking"`
}

type engineRankItem struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func statusData(st *model.State, sum engine.Summary) statusPayload {
	payload := statusPayload{
		Preset: st.CurrentPreset + 1,
		Date:   st.LastDate,
		Total:  sum.Total,
	}
	p := st.Current()
	for _, slot := range model.Slots() {
		b, ok := p.Users[slot]
		if !ok {
			continue
		}
		payload.Slots = append(payload.Slots, slotStatus{
			Slot:      slot,
			Name:      b.Name,
			Count:     b.Count,
			LastOrder: sum.LastOrder(b.Name),
		})
	}
	for i, uc := range sum.Ranked {
		payload.Ranking = append(payload.Ranking, engineRankItem{Rank: i + 1, Name: uc.Name, Count: uc.Count})
	}
	return payload
}

func renderStatus(st *model.State, sum engine.Summary) string {
	var b strings.Builder
	p := st.Current()
	fmt.Fprintf(&b, "preset %d · %s · total %d\n", st.CurrentPreset+1, st.LastDate, sum.Total)

	for _, slot := range model.Slots() {
		bind, ok := p.Users[slot]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "  [%s] %-8s %4d", slot, bind.Name, bind.Count)
		if order := sum.LastOrder(bind.Name); order > 0 {
			fmt.Fprintf(&b, "  (last #%d)", order)
		}
		b.WriteByte('\n')
	}

	if len(sum.Ranked) > 0 {
		b.WriteString("ranking:\n")
		for i, uc := range sum.Ranked {
			fmt.Fprintf(&b, "  %d. %s: %d\n", i+1, uc.Name, uc.Count)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// NewMatrixCommand creates the matrix command: the per-user history
// table, clicks as global order numbers.
func NewMatrixCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "matrix",
		Short: "Show the per-user click history table",
		Long: `Render the current preset's ledger as a table: one column per
bound participant, one row per personal click number, each cell the
global order of that click. The most recent click is marked with *.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, rootOpts, func(eng *engine.Engine, out *OutputFormatter) error {
				m := eng.Matrix()
				return out.Success(renderMatrix(m), matrixData(m))
			})
		},
	}
}

type matrixPayload struct {
	Columns   []string `json:"columns"`
	Rows      [][]int  `json:"rows"` // 0 marks an empty cell
	Highlight []int    `json:"highlight,omitempty"`
}

func matrixData(m engine.Matrix) matrixPayload {
	payload := matrixPayload{Columns: m.Columns}
	for row := 0; row < m.RowCount; row++ {
		cells := make([]int, len(m.Columns))
		for col := range m.Columns {
			if order, ok := m.Cell(row, col); ok {
				cells[col] = order
			}
		}
		payload.Rows = append(payload.Rows, cells)
	}
	if row, col, ok := m.Highlight(); ok {
		payload.Highlight = []int{row, col}
	}
	return payload
}

func renderMatrix(m engine.Matrix) string {
	if len(m.Columns) == 0 {
		return "no participants"
	}
	hlRow, hlCol, hasHL := m.Highlight()

	var b strings.Builder
	b.WriteString("     ")
	for _, name := range m.Columns {
		fmt.Fprintf(&b, " %-8s", name)
	}
	for row := 0; row < m.RowCount; row++ {
		fmt.Fprintf(&b, "\n%4d:", row+1)
		for col := range m.Columns {
			order, ok := m.Cell(row, col)
			switch {
			case ok && hasHL && row == hlRow && col == hlCol:
				fmt.Fprintf(&b, " %-8s", fmt.Sprintf("%d*", order))
			case ok:
				fmt.Fprintf(&b, " %-8d", order)
			default:
				b.WriteString(" ·       ")
			}
		}
	}
	return b.String()
}
