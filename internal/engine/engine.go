package engine

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/jwhan/tallypad/internal/model"
	"github.com/jwhan/tallypad/internal/store"
)

// Name length bounds, in runes after NFC normalization.
const (
	minNameLen = 2
	maxNameLen = 4
)

// Engine owns the active counter state and applies every operation the
// presentation layer exposes. One Engine instance per process; see the
// package documentation for the execution model.
type Engine struct {
	mgr   *store.Manager
	clock Clock
	state *model.State
}

// Open loads (and migrates, if needed) the persisted state and returns a
// ready engine.
//
// A schema error on load is logged once and replaced with a default empty
// state rather than aborting startup; any other load failure propagates.
func Open(mgr *store.Manager, clock Clock) (*Engine, error) {
	today := clock.Now().Format(model.DateFormat)
	st, err := mgr.Load(today)
	if err != nil {
		if store.IsSchemaError(err) {
			slog.Warn("state file unreadable, starting from empty state", "error", err)
			st = model.DefaultState(today)
		} else {
			return nil, err
		}
	}
	return &Engine{mgr: mgr, clock: clock, state: st}, nil
}

// State exposes the live state for read-only use by the presentation
// layer. Use with caution - mutate only through engine operations.
func (e *Engine) State() *model.State {
	return e.state
}

// CurrentPreset returns the selected preset index.
func (e *Engine) CurrentPreset() int {
	return e.state.CurrentPreset
}

// normalizeName trims and NFC-normalizes a participant name. Korean IME
// input can arrive as decomposed jamo; uniqueness checks must not treat
// the two forms as different names.
func normalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// validateName enforces the 2-4 character bound on the normalized name.
func validateName(name string) error {
	if n := utf8.RuneCountInString(name); n < minNameLen || n > maxNameLen {
		return newInvalidNameError(name)
	}
	return nil
}

// findName returns the slot the name is bound to in the current preset,
// or "" when unbound.
func (e *Engine) findName(name string) string {
	for slot, b := range e.state.Current().Users {
		if b.Name == name {
			return slot
		}
	}
	return ""
}

// BindUser binds a participant name to an empty or occupied slot, count
// reset to zero. Fails with a duplicate-name error when the name is
// already on a different slot in the same preset; rebinding a name to the
// slot it already occupies is allowed.
func (e *Engine) BindUser(slot, name string) error {
	if !model.IsSlot(slot) {
		return newUnknownSlotError(slot)
	}
	name = normalizeName(name)
	if err := validateName(name); err != nil {
		return err
	}
	if bound := e.findName(name); bound != "" && bound != slot {
		return newDuplicateNameError(name, bound)
	}

	e.state.Current().Users[slot] = model.Binding{Name: name}
	e.log(fmt.Sprintf("[등록] %s: '%s' 등록됨", slot, name))
	return e.persist()
}

// UnbindUser clears a slot's binding and count. Already-unbound slots are
// a silent no-op.
func (e *Engine) UnbindUser(slot string) error {
	if !model.IsSlot(slot) {
		return newUnknownSlotError(slot)
	}
	p := e.state.Current()
	b, ok := p.Users[slot]
	if !ok {
		return nil
	}

	delete(p.Users, slot)
	e.log(fmt.Sprintf("[삭제] %s: '%s' 삭제됨", slot, b.Name))
	return e.persist()
}

// RenameUser rebinds a slot to a new name with the count reset to zero.
// A renamed identity is a new counter, not a continuation of the old one.
func (e *Engine) RenameUser(slot, newName string) error {
	if !model.IsSlot(slot) {
		return newUnknownSlotError(slot)
	}
	p := e.state.Current()
	old, ok := p.Users[slot]
	if !ok {
		return newSlotUnboundError(slot)
	}
	newName = normalizeName(newName)
	if err := validateName(newName); err != nil {
		return err
	}
	if bound := e.findName(newName); bound != "" && bound != slot {
		return newDuplicateNameError(newName, bound)
	}

	p.Users[slot] = model.Binding{Name: newName}
	e.log(fmt.Sprintf("[수정] %s: '%s' → '%s' (카운트 초기화)", slot, old.Name, newName))
	return e.persist()
}

// RecordClick increments the slot's count and appends the event to the
// preset's ledger. Returns the participant's new personal count.
// A click on an unbound slot is a not-found error and mutates nothing.
func (e *Engine) RecordClick(slot string) (int, error) {
	if !model.IsSlot(slot) {
		return 0, newUnknownSlotError(slot)
	}
	p := e.state.Current()
	b, ok := p.Users[slot]
	if !ok {
		return 0, newSlotUnboundError(slot)
	}

	b.Count++
	p.Users[slot] = b
	p.ClickHistory = append(p.ClickHistory, model.ClickEvent{Name: b.Name, PersonalCount: b.Count})
	e.log(fmt.Sprintf("[+] %s: %s (총 %d회)", slot, b.Name, b.Count))
	if err := e.persist(); err != nil {
		return b.Count, err
	}
	return b.Count, nil
}

// Undo reverts the most recent click: the last ledger entry is popped and
// the slot currently bound to that (name, count) pair is decremented.
//
// Matching uses the count as well as the name because the user may have
// been rebound to a different slot since the click. When no slot matches,
// the ledger stays popped - the click's recoverability was already lost
// when the state diverged - and a not-found error is returned after the
// popped ledger has been persisted.
func (e *Engine) Undo() error {
	p := e.state.Current()
	n := len(p.ClickHistory)
	if n == 0 {
		return &Error{Code: ErrCodeNothingToUndo, Message: "click ledger is empty"}
	}

	last := p.ClickHistory[n-1]
	p.ClickHistory = p.ClickHistory[:n-1]

	for slot, b := range p.Users {
		if b.Name == last.Name && b.Count == last.PersonalCount {
			b.Count--
			p.Users[slot] = b
			e.log(fmt.Sprintf("[취소] %s: %s (총 %d회)", slot, b.Name, b.Count))
			return e.persist()
		}
	}

	if err := e.persist(); err != nil {
		return err
	}
	return &Error{
		Code:    ErrCodeNotFound,
		Message: "no slot matches the last click",
		Name:    last.Name,
	}
}

// ResetAll zeroes every slot count in the current preset and clears its
// ledger. Bindings and the other presets are untouched.
func (e *Engine) ResetAll() error {
	p := e.state.Current()
	for slot, b := range p.Users {
		b.Count = 0
		p.Users[slot] = b
	}
	p.ClickHistory = nil
	e.log("[초기화] 모든 카운터 초기화됨")
	return e.persist()
}

// SwitchPreset selects another preset bank. Switching to the current
// index is a no-op. The outgoing preset's bindings and ledger are part of
// the same persisted state, so one save covers both sides of the switch.
func (e *Engine) SwitchPreset(index int) error {
	if index < 0 || index >= model.NumPresets {
		return &Error{
			Code:    ErrCodeInvalidPreset,
			Message: fmt.Sprintf("preset index %d outside 0..%d", index, model.NumPresets-1),
		}
	}
	if index == e.state.CurrentPreset {
		return nil
	}

	e.state.CurrentPreset = index
	e.log(fmt.Sprintf("[프리셋] 프리셋 %d로 전환", index+1))
	return e.persist()
}

// log appends a timestamped line to the bounded app log.
func (e *Engine) log(message string) {
	e.state.AppendLog(fmt.Sprintf("[%s] %s", e.clock.Now().Format("15:04:05"), message))
}

// persist saves the full active state. On failure the in-memory state
// keeps the mutation; the caller decides how to surface the error.
func (e *Engine) persist() error {
	return e.mgr.Save(e.state)
}

// ListArchiveDates returns the archived dates, most recent first.
func (e *Engine) ListArchiveDates() ([]string, error) {
	return e.mgr.ListArchiveDates()
}

// LoadArchive reads one per-date archive.
func (e *Engine) LoadArchive(date string) (model.Archive, error) {
	return e.mgr.LoadArchive(date)
}

// Op names an engine operation, for the confirmation-required marker.
type Op string

const (
	OpBind     Op = "bind"
	OpUnbind   Op = "unbind"
	OpRename   Op = "rename"
	OpClick    Op = "click"
	OpUndo     Op = "undo"
	OpResetAll Op = "reset"
	OpSwitch   Op = "switch"
	OpRollover Op = "rollover"
)

// RequiresConfirmation reports whether the operation is destructive enough
// that the presentation layer should ask the operator first. The engine
// itself never prompts.
func RequiresConfirmation(op Op) bool {
	switch op {
	case OpUnbind, OpRename, OpResetAll, OpRollover:
		return true
	}
	return false
}
