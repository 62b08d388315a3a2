// Package store provides durable JSON-file storage for the counter state
// and the per-date archives.
//
// Layout under the data directory:
//
//	presets.json          active state (canonical schema, model.State)
//	counter_data.json     legacy side file, read-only, oldest schema only
//	history/<date>.json   one immutable archive per calendar date
//
// # Contracts
//
//   - Save is atomic: state is written to a temp file in the same
//     directory and renamed into place. A failed save leaves the previous
//     file intact; the caller's in-memory state stays the source of truth.
//   - Load accepts three schema generations and normalizes all of them to
//     model.State. Detection is by shape: a wrapper object with a
//     "presets" field (current), a bare 3-element preset array (legacy),
//     or per-preset user_seats/counters maps (oldest). One migration
//     function per generation.
//   - Unparseable or unrecognized JSON surfaces as *SchemaError so the
//     caller can decide to fall back to a default state.
//   - Archives are write-once: WriteArchive is a no-op when the date's
//     file already exists, which keeps rollover idempotent.
//   - Retention is keyed on the date embedded in the archive filename,
//     never on file modification time, so copying or touching a file
//     cannot extend its life.
package store
