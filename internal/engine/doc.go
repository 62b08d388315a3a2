// Package engine implements the counter state and history engine: slot
// bindings across three presets, the append-only click ledger with
// single-step undo, the derived summary and history-matrix views, daily
// rollover, and the plain-text export report.
//
// # Execution model
//
// The engine is single-writer and synchronous. Every mutating operation
// runs to completion before the next one starts; in-memory state needs no
// locking. The caller (the CLI, or any other presentation layer) is
// responsible for not invoking operations concurrently and for holding the
// cross-process lock in internal/lock while an Engine is open.
//
// Every mutating operation persists through the store before returning.
// A failed save is returned to the caller; the in-memory state keeps the
// mutation and remains the source of truth until the next successful save.
//
// # Error policy
//
//   - Validation failures (name length, duplicate name, unknown slot)
//     return *Error with a validation code and mutate nothing.
//   - Not-found conditions (unbound slot, empty ledger, unmatched undo)
//     return *Error with a not-found code; they are non-fatal and the
//     caller decides whether to log or display them.
//   - I/O failures during save propagate unchanged.
//
// Destructive operations (rename, unbind, reset, rollover) carry a
// confirmation-required marker via RequiresConfirmation; the engine never
// prompts by itself.
package engine
