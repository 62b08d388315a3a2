package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwhan/tallypad/internal/model"
	"github.com/jwhan/tallypad/internal/store"
	"github.com/jwhan/tallypad/internal/testutil"
)

func TestEngine_CheckRollover_SameDateNoOp(t *testing.T) {
	eng, clock := newEngine(t)
	rolled, err := eng.CheckRollover(clock.Now())
	require.NoError(t, err)
	assert.False(t, rolled)
}

// Fixture: lastDate 2024-01-01, now 2024-01-02, slot 7 bound to 가나다
// with count 5.
func TestEngine_CheckRollover_ArchivesAndResets(t *testing.T) {
	eng, clock := newEngine(t)
	require.NoError(t, eng.BindUser("7", "가나다"))
	require.NoError(t, eng.BindUser("8", "제로씨")) // count stays 0
	for i := 0; i < 5; i++ {
		_, err := eng.RecordClick("7")
		require.NoError(t, err)
	}

	clock.Advance(24 * time.Hour)
	rolled, err := eng.CheckRollover(clock.Now())
	require.NoError(t, err)
	assert.True(t, rolled)

	a, err := eng.LoadArchive("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", a.Date)
	assert.Equal(t, map[string]model.Binding{"7": {Name: "가나다", Count: 5}}, a.Users,
		"archive holds only count>0 slots")
	assert.NotEmpty(t, a.Logs, "accumulated logs travel into the archive")

	p := eng.State().Current()
	assert.Equal(t, 0, p.Users["7"].Count)
	assert.Equal(t, "가나다", p.Users["7"].Name, "bindings survive rollover")
	assert.Empty(t, p.ClickHistory)
	assert.Equal(t, "2024-01-02", eng.State().LastDate)
}

func TestEngine_CheckRollover_IdempotentWithinDate(t *testing.T) {
	eng, clock := newEngine(t)
	require.NoError(t, eng.BindUser("7", "가나다"))
	_, err := eng.RecordClick("7")
	require.NoError(t, err)

	clock.Advance(24 * time.Hour)
	rolled, err := eng.CheckRollover(clock.Now())
	require.NoError(t, err)
	require.True(t, rolled)

	rolled, err = eng.CheckRollover(clock.Now())
	require.NoError(t, err)
	assert.False(t, rolled, "second check within the same date is a no-op")

	dates, err := eng.ListArchiveDates()
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01"}, dates, "no duplicate archives")
}

func TestEngine_CheckRollover_OnlyCurrentPresetReset(t *testing.T) {
	eng, clock := newEngine(t)
	require.NoError(t, eng.BindUser("7", "가나다"))
	_, err := eng.RecordClick("7")
	require.NoError(t, err)

	require.NoError(t, eng.SwitchPreset(1))
	require.NoError(t, eng.BindUser("5", "홍길동"))
	_, err = eng.RecordClick("5")
	require.NoError(t, err)

	clock.Advance(24 * time.Hour)
	_, err = eng.CheckRollover(clock.Now())
	require.NoError(t, err)

	assert.Equal(t, 0, eng.State().Presets[1].Users["5"].Count, "current preset reset")
	assert.Equal(t, 1, eng.State().Presets[0].Users["7"].Count,
		"non-selected presets keep their counts")
}

func TestEngine_CheckRollover_PrunesExpiredArchives(t *testing.T) {
	dir := t.TempDir()
	mgr, err := store.Open(dir)
	require.NoError(t, err)
	clock := testutil.NewFixedClockAt("2024-01-01")
	eng, err := Open(mgr, clock)
	require.NoError(t, err)

	stale := clock.Now().AddDate(0, 0, -120).Format(model.DateFormat)
	require.NoError(t, mgr.WriteArchive(model.Archive{Date: stale, Users: map[string]model.Binding{}}))

	clock.Advance(24 * time.Hour)
	rolled, err := eng.CheckRollover(clock.Now())
	require.NoError(t, err)
	require.True(t, rolled)

	dates, err := eng.ListArchiveDates()
	require.NoError(t, err)
	assert.NotContains(t, dates, stale, "rollover prunes archives past retention")
}

func TestEngine_CheckRollover_SurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	mgr, err := store.Open(dir)
	require.NoError(t, err)
	clock := testutil.NewFixedClockAt("2024-01-01")

	eng, err := Open(mgr, clock)
	require.NoError(t, err)
	require.NoError(t, eng.BindUser("7", "가나다"))
	_, err = eng.RecordClick("7")
	require.NoError(t, err)

	// Process restarts on the next day; the stale last_date must still
	// trigger an archive of 2024-01-01.
	clock.Advance(24 * time.Hour)
	eng, err = Open(mgr, clock)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", eng.State().LastDate)

	rolled, err := eng.CheckRollover(clock.Now())
	require.NoError(t, err)
	require.True(t, rolled)

	a, err := eng.LoadArchive("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 1, a.Users["7"].Count)
	assert.Empty(t, a.Logs, "stale logs were discarded at load, not archived")
}
