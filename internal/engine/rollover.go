package engine

import (
	"time"

	"github.com/jwhan/tallypad/internal/model"
)

// CheckRollover compares the state's date against now and, on a date
// change, archives the old date and resets the live counters. Returns
// whether a rollover happened.
//
// Rollover sequence:
//  1. write the archive for the old date: count>0 bindings of the current
//     preset plus the accumulated app log
//  2. zero the current preset's counts and clear its ledger
//  3. clear the app log, advance the date, persist
//  4. prune archives past the retention window
//
// The check is idempotent within a date: once LastDate equals today it is
// a no-op, and the store skips archive writes for dates already on disk.
func (e *Engine) CheckRollover(now time.Time) (bool, error) {
	today := now.Format(model.DateFormat)
	if e.state.LastDate == today {
		return false, nil
	}

	if err := e.mgr.WriteArchive(e.buildArchive()); err != nil {
		return false, err
	}

	p := e.state.Current()
	for slot, b := range p.Users {
		b.Count = 0
		p.Users[slot] = b
	}
	p.ClickHistory = nil
	e.state.Logs = nil
	e.state.LastDate = today
	e.log("[자동] 날짜가 변경되어 카운터가 초기화되었습니다")
	if err := e.persist(); err != nil {
		return false, err
	}

	if _, err := e.mgr.Prune(now); err != nil {
		return true, err
	}
	return true, nil
}

// buildArchive snapshots the current preset for the state's (old) date.
// Only slots with a positive count are archived.
func (e *Engine) buildArchive() model.Archive {
	p := e.state.Current()
	users := map[string]model.Binding{}
	for slot, b := range p.Users {
		if b.Count > 0 {
			users[slot] = b
		}
	}
	logs := append([]string(nil), e.state.Logs...)
	return model.Archive{
		Date:   e.state.LastDate,
		Preset: e.state.CurrentPreset,
		Users:  users,
		Logs:   logs,
	}
}
