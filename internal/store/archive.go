package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jwhan/tallypad/internal/model"
)

// archivePath returns history/<date>.json for the given date.
func (m *Manager) archivePath(date string) string {
	return filepath.Join(m.historyDir, date+".json")
}

// WriteArchive writes the per-date snapshot. Archives are immutable: when
// the date's file already exists the call is a no-op, which makes repeated
// rollover checks within the same date idempotent.
func (m *Manager) WriteArchive(a model.Archive) error {
	path := m.archivePath(a.Date)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("write archive %s: %w", a.Date, err)
	}

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("write archive %s: %w", a.Date, err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("write archive %s: %w", a.Date, err)
	}
	return nil
}

// ListArchiveDates returns the dates with an archive on disk, most recent
// first. Files that are not named <YYYY-MM-DD>.json are ignored.
func (m *Manager) ListArchiveDates() ([]string, error) {
	entries, err := os.ReadDir(m.historyDir)
	if err != nil {
		return nil, fmt.Errorf("list archives: %w", err)
	}

	var dates []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		date, ok := archiveDate(entry.Name())
		if !ok {
			continue
		}
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

// LoadArchive reads one archive by date.
func (m *Manager) LoadArchive(date string) (model.Archive, error) {
	path := m.archivePath(date)
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Archive{}, fmt.Errorf("load archive %s: %w", date, err)
	}
	var a model.Archive
	if err := json.Unmarshal(data, &a); err != nil {
		return model.Archive{}, &SchemaError{Path: path, Reason: "unparseable archive", Err: err}
	}
	if a.Users == nil {
		a.Users = map[string]model.Binding{}
	}
	return a, nil
}

// Prune deletes archives older than the retention window and returns how
// many were removed. Age is computed from the date embedded in the
// filename, not the file's modification time, so copying or touching an
// old archive cannot resurrect it.
func (m *Manager) Prune(now time.Time) (int, error) {
	entries, err := os.ReadDir(m.historyDir)
	if err != nil {
		return 0, fmt.Errorf("prune archives: %w", err)
	}

	// Whole-date comparison: an archive is pruned once its date is more
	// than retentionDays calendar days behind now. ISO dates compare
	// correctly as strings.
	cutoff := now.AddDate(0, 0, -m.retentionDays).Format(model.DateFormat)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		date, ok := archiveDate(entry.Name())
		if !ok {
			continue
		}
		if date < cutoff {
			if err := os.Remove(filepath.Join(m.historyDir, entry.Name())); err != nil {
				return removed, fmt.Errorf("prune archive %s: %w", date, err)
			}
			removed++
		}
	}
	return removed, nil
}

// archiveDate extracts and validates the date from an archive filename.
func archiveDate(filename string) (string, bool) {
	if !strings.HasSuffix(filename, ".json") {
		return "", false
	}
	date := strings.TrimSuffix(filename, ".json")
	if _, err := time.Parse(model.DateFormat, date); err != nil {
		return "", false
	}
	return date, true
}
