package model

import (
	"encoding/json"
	"fmt"
)

// NumPresets is the fixed number of preset banks. The count never changes;
// every schema generation stores exactly three.
const NumPresets = 3

// MaxRecentLogs bounds the in-memory and persisted app log.
const MaxRecentLogs = 100

// DateFormat is the calendar-date layout used by last_date, archive
// filenames and the embedded archive date field.
const DateFormat = "2006-01-02"

// slotKeys lists every slot identifier in ascending order. "Ascending slot
// identifier" everywhere in the engine means this byte order: the symbol
// keys sort below the digits, matching how user-facing views have always
// ordered them.
var slotKeys = []string{"*", ".", "/", "0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}

// Slots returns the fixed slot identifiers in ascending order.
// The returned slice is a copy; callers may reorder it freely.
func Slots() []string {
	out := make([]string, len(slotKeys))
	copy(out, slotKeys)
	return out
}

// IsSlot reports whether key names one of the fixed slots.
func IsSlot(key string) bool {
	for _, k := range slotKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Binding is a slot's current occupant: a participant name and that
// participant's running count for the active date.
type Binding struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ClickEvent is one entry in a preset's click ledger.
//
// PersonalCount is the participant's running total immediately after the
// click. A ClickEvent's 1-based position in the ledger is its global order;
// the order is never stored explicitly.
type ClickEvent struct {
	Name          string
	PersonalCount int
}

// MarshalJSON encodes the event as a [name, count] pair, the shape the
// click_history array has used since the first release.
func (e ClickEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.Name, e.PersonalCount})
}

// UnmarshalJSON decodes a [name, count] pair.
func (e *ClickEvent) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("click event: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("click event: expected [name, count] pair, got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &e.Name); err != nil {
		return fmt.Errorf("click event name: %w", err)
	}
	if err := json.Unmarshal(pair[1], &e.PersonalCount); err != nil {
		return fmt.Errorf("click event count: %w", err)
	}
	return nil
}

// Preset is one independent bank of slot bindings plus its click ledger.
type Preset struct {
	Name         string             `json:"name"`
	Users        map[string]Binding `json:"users"`
	ClickHistory []ClickEvent       `json:"click_history"`
}

// State is the complete active state: the three presets, the selected
// preset index, the date the counters belong to, and the bounded app log.
type State struct {
	Presets       [NumPresets]Preset `json:"presets"`
	CurrentPreset int                `json:"current_preset"`
	LastDate      string             `json:"last_date"`
	Logs          []string           `json:"logs"`
}

// Archive is the immutable per-date snapshot written at rollover.
// Users holds only bindings whose count was greater than zero.
type Archive struct {
	Date   string             `json:"date"`
	Preset int                `json:"preset"`
	Users  map[string]Binding `json:"users"`
	Logs   []string           `json:"logs"`
}

// DefaultState returns an empty three-preset state for the given date.
func DefaultState(lastDate string) *State {
	st := &State{LastDate: lastDate}
	for i := range st.Presets {
		st.Presets[i] = Preset{
			Name:  fmt.Sprintf("프리셋 %d", i+1),
			Users: map[string]Binding{},
		}
	}
	return st
}

// Current returns the currently selected preset.
func (s *State) Current() *Preset {
	return &s.Presets[s.CurrentPreset]
}

// Normalize repairs a state loaded from disk so the rest of the engine can
// rely on its invariants: non-nil user maps, default preset names, a
// current index inside 0..2, slot keys restricted to the fixed set, and the
// log bounded to MaxRecentLogs.
func (s *State) Normalize() {
	if s.CurrentPreset < 0 || s.CurrentPreset >= NumPresets {
		s.CurrentPreset = 0
	}
	for i := range s.Presets {
		p := &s.Presets[i]
		if p.Name == "" {
			p.Name = fmt.Sprintf("프리셋 %d", i+1)
		}
		if p.Users == nil {
			p.Users = map[string]Binding{}
		}
		for key := range p.Users {
			if !IsSlot(key) {
				delete(p.Users, key)
			}
		}
	}
	if n := len(s.Logs); n > MaxRecentLogs {
		s.Logs = append([]string(nil), s.Logs[n-MaxRecentLogs:]...)
	}
}

// AppendLog appends one app log line, trimming to the last MaxRecentLogs.
func (s *State) AppendLog(line string) {
	s.Logs = append(s.Logs, line)
	if n := len(s.Logs); n > MaxRecentLogs {
		s.Logs = s.Logs[n-MaxRecentLogs:]
	}
}
