// Package model defines the domain types shared by the engine, the store,
// and the CLI, together with the canonical on-disk JSON schema.
//
// The wire schema is fixed and versioned by shape, not by an explicit
// version field:
//
//	{ "presets": [Preset, Preset, Preset],
//	  "current_preset": 0..2,
//	  "last_date": "YYYY-MM-DD",
//	  "logs": [string, ...] }
//
// Preset.ClickHistory entries serialize as two-element [name, count]
// arrays for compatibility with data written by earlier releases.
// Older schema generations (a bare 3-element preset array, and the
// user_seats/counters maps before that) are read by internal/store and
// normalized into these types.
package model
