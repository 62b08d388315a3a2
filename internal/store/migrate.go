package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jwhan/tallypad/internal/model"
)

// Load reads the active state, migrating whichever schema generation is on
// disk into the canonical model. today is the current calendar date in
// model.DateFormat; it drives the stale-log policy and the default state.
//
// A missing file yields a fresh default state. Unrecognized content yields
// a *SchemaError; the caller decides whether to fall back.
//
// The stored last_date is preserved even when it is stale, so the first
// rollover check after a restart can still archive the old date. Only the
// stored logs are discarded on a date mismatch.
func (m *Manager) Load(today string) (*model.State, error) {
	path := m.StatePath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultState(today), nil
		}
		return nil, fmt.Errorf("load state: %w", err)
	}

	st, err := m.decodeState(path, data)
	if err != nil {
		return nil, err
	}

	st.Normalize()
	if st.LastDate == "" {
		st.LastDate = today
	} else if st.LastDate != today {
		st.Logs = nil
	}
	return st, nil
}

// decodeState detects the schema generation by shape and dispatches to the
// matching migration function.
func (m *Manager) decodeState(path string, data []byte) (*model.State, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, &SchemaError{Path: path, Reason: "empty file"}
	}
	switch trimmed[0] {
	case '{':
		return migrateCurrent(path, data)
	case '[':
		return m.migrateLegacyArray(path, data)
	default:
		return nil, &SchemaError{Path: path, Reason: "not a JSON object or array"}
	}
}

// migrateCurrent reads the wrapper-object schema, which is already the
// canonical shape.
func migrateCurrent(path string, data []byte) (*model.State, error) {
	var probe struct {
		Presets json.RawMessage `json:"presets"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &SchemaError{Path: path, Reason: "unparseable object", Err: err}
	}
	if probe.Presets == nil {
		return nil, &SchemaError{Path: path, Reason: "object schema without presets field"}
	}

	var st model.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, &SchemaError{Path: path, Reason: "invalid presets wrapper", Err: err}
	}
	return &st, nil
}

// legacyPreset can hold an element of either array-based generation: the
// legacy slot-keyed shape, or the oldest user_seats/counters shape.
type legacyPreset struct {
	Name         string                   `json:"name"`
	Users        map[string]model.Binding `json:"users"`
	ClickHistory []model.ClickEvent       `json:"click_history"`
	UserSeats    map[string]string        `json:"user_seats"`
	Counters     map[string]int           `json:"counters"`
}

// migrateLegacyArray reads a bare preset array. Each element is migrated
// independently: seat-map elements come from the oldest generation, slot
// keyed elements from the one after it. current_preset and logs for these
// generations live in the counter_data.json side file.
func (m *Manager) migrateLegacyArray(path string, data []byte) (*model.State, error) {
	var raw []legacyPreset
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &SchemaError{Path: path, Reason: "unparseable preset array", Err: err}
	}
	if len(raw) != model.NumPresets {
		return nil, &SchemaError{Path: path, Reason: fmt.Sprintf("preset array has %d elements, want %d", len(raw), model.NumPresets)}
	}

	st := model.DefaultState("")
	for i, lp := range raw {
		p := &st.Presets[i]
		if lp.Name != "" {
			p.Name = lp.Name
		}
		switch {
		case lp.Users != nil:
			p.Users = lp.Users
			p.ClickHistory = lp.ClickHistory
		case lp.UserSeats != nil && lp.Counters != nil:
			p.Users = convertSeatMap(lp.UserSeats, lp.Counters)
		}
	}

	m.loadLegacySide(st)
	return st, nil
}

// convertSeatMap inverts the oldest generation's name→slot map into the
// canonical slot→binding map, carrying counts across.
func convertSeatMap(seats map[string]string, counters map[string]int) map[string]model.Binding {
	users := make(map[string]model.Binding, len(seats))
	for name, slot := range seats {
		users[slot] = model.Binding{Name: name, Count: counters[name]}
	}
	return users
}

// loadLegacySide merges current_preset, date and logs from the old side
// file, when present. A corrupt side file is logged once and skipped; the
// preset data itself already migrated.
func (m *Manager) loadLegacySide(st *model.State) {
	path := filepath.Join(m.dataDir, legacySideFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var side struct {
		CurrentPreset int      `json:"current_preset"`
		Date          string   `json:"date"`
		Logs          []string `json:"logs"`
	}
	if err := json.Unmarshal(data, &side); err != nil {
		slog.Warn("ignoring corrupt legacy side file", "path", path, "error", err)
		return
	}
	st.CurrentPreset = side.CurrentPreset
	st.LastDate = side.Date
	st.Logs = side.Logs
}
