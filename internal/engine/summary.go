package engine

import (
	"sort"

	"github.com/jwhan/tallypad/internal/model"
)

// UserCount is one row of the ranked summary.
type UserCount struct {
	Name  string
	Count int
}

// Summary is the derived overview of the current preset: the total count,
// the per-user ranking, and each user's most recent global order.
//
// A Summary is a snapshot; it does not track later mutations.
type Summary struct {
	// Total is the sum of counts over bound slots.
	Total int

	// Ranked lists every user with count > 0, highest count first.
	// Ties break by ascending slot identifier, so the order is
	// deterministic.
	Ranked []UserCount

	lastOrder map[string]int
}

// LastOrder returns the highest global order in the ledger whose entry
// names the user, or 0 when the user never clicked. Views use it to badge
// a slot with its most recent rank.
func (s Summary) LastOrder(name string) int {
	return s.lastOrder[name]
}

// Summary recomputes the summary view from the current preset.
// Cost is linear in slots plus ledger length.
func (e *Engine) Summary() Summary {
	p := e.state.Current()
	s := Summary{lastOrder: map[string]int{}}

	// Walk slots in ascending order so equal counts keep a stable rank.
	for _, slot := range model.Slots() {
		b, ok := p.Users[slot]
		if !ok {
			continue
		}
		s.Total += b.Count
		if b.Count > 0 {
			s.Ranked = append(s.Ranked, UserCount{Name: b.Name, Count: b.Count})
		}
	}
	sort.SliceStable(s.Ranked, func(i, j int) bool {
		return s.Ranked[i].Count > s.Ranked[j].Count
	})

	for i, ev := range p.ClickHistory {
		s.lastOrder[ev.Name] = i + 1
	}
	return s
}
