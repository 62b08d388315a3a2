package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runTallypad executes the CLI against an isolated data directory and
// returns stdout. The config path points at a file that does not exist,
// so every run starts from built-in defaults.
func runTallypad(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()

	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{
		"--data-dir", dataDir,
		"--config", filepath.Join(dataDir, "no-such-config.yaml"),
	}, args...))

	err := cmd.Execute()
	return buf.String(), err
}

func TestBindClickStatusFlow(t *testing.T) {
	dataDir := t.TempDir()

	_, err := runTallypad(t, dataDir, "bind", "7", "홍길동")
	require.NoError(t, err)
	_, err = runTallypad(t, dataDir, "bind", "8", "가나다")
	require.NoError(t, err)

	out, err := runTallypad(t, dataDir, "click", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "홍길동: 1")

	out, err = runTallypad(t, dataDir, "click", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "홍길동: 2")

	out, err = runTallypad(t, dataDir, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "[7] 홍길동")
	assert.Contains(t, out, "total 2")
	assert.Contains(t, out, "1. 홍길동: 2")
	assert.Contains(t, out, "[8] 가나다")
}

func TestClickJSONOutput(t *testing.T) {
	dataDir := t.TempDir()

	_, err := runTallypad(t, dataDir, "bind", "5", "이순신")
	require.NoError(t, err)

	out, err := runTallypad(t, dataDir, "--format", "json", "click", "5")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "이순신", data["name"])
	assert.Equal(t, float64(1), data["count"])
}

func TestClickUnboundSlotFails(t *testing.T) {
	dataDir := t.TempDir()

	out, err := runTallypad(t, dataDir, "click", "3")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, AlreadyPrinted(err))
	assert.Contains(t, out, "SLOT_UNBOUND")
}

func TestClickErrorJSONOutput(t *testing.T) {
	dataDir := t.TempDir()

	out, err := runTallypad(t, dataDir, "--format", "json", "click", "3")
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Error, "SLOT_UNBOUND")
}

func TestUndoRestoresCount(t *testing.T) {
	dataDir := t.TempDir()

	_, err := runTallypad(t, dataDir, "bind", "1", "홍길동")
	require.NoError(t, err)
	_, err = runTallypad(t, dataDir, "click", "1")
	require.NoError(t, err)

	_, err = runTallypad(t, dataDir, "undo")
	require.NoError(t, err)

	out, err := runTallypad(t, dataDir, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "total 0")
}

func TestUndoEmptyLedgerFails(t *testing.T) {
	dataDir := t.TempDir()

	_, err := runTallypad(t, dataDir, "undo")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestDestructiveCommandsRequireYes(t *testing.T) {
	dataDir := t.TempDir()

	_, err := runTallypad(t, dataDir, "bind", "2", "가나다")
	require.NoError(t, err)

	for _, args := range [][]string{
		{"unbind", "2"},
		{"rename", "2", "홍길동"},
		{"reset"},
	} {
		t.Run(args[0], func(t *testing.T) {
			_, err := runTallypad(t, dataDir, args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), "--yes")
		})
	}

	// Still bound: the refused commands must not have touched state.
	out, err := runTallypad(t, dataDir, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "가나다")
}

func TestResetWithYes(t *testing.T) {
	dataDir := t.TempDir()

	_, err := runTallypad(t, dataDir, "bind", "2", "가나다")
	require.NoError(t, err)
	_, err = runTallypad(t, dataDir, "click", "2")
	require.NoError(t, err)

	_, err = runTallypad(t, dataDir, "reset", "--yes")
	require.NoError(t, err)

	out, err := runTallypad(t, dataDir, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "total 0")
	assert.Contains(t, out, "가나다") // binding survives a reset
}

func TestPresetSwitchIsolatesCounts(t *testing.T) {
	dataDir := t.TempDir()

	_, err := runTallypad(t, dataDir, "bind", "1", "홍길동")
	require.NoError(t, err)
	_, err = runTallypad(t, dataDir, "click", "1")
	require.NoError(t, err)

	_, err = runTallypad(t, dataDir, "preset", "switch", "2")
	require.NoError(t, err)

	out, err := runTallypad(t, dataDir, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "preset 2")
	assert.NotContains(t, out, "홍길동")

	_, err = runTallypad(t, dataDir, "preset", "switch", "1")
	require.NoError(t, err)

	out, err = runTallypad(t, dataDir, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "홍길동")
	assert.Contains(t, out, "total 1")
}

func TestPresetSwitchRejectsOutOfRange(t *testing.T) {
	dataDir := t.TempDir()

	_, err := runTallypad(t, dataDir, "preset", "switch", "4")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	_, err = runTallypad(t, dataDir, "preset", "switch", "two")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestPresetShow(t *testing.T) {
	dataDir := t.TempDir()

	out, err := runTallypad(t, dataDir, "preset")
	require.NoError(t, err)
	assert.Contains(t, out, "* 1")
	assert.Contains(t, out, "프리셋 1")
	assert.Contains(t, out, "프리셋 3")
}

func TestMatrixRendersOrders(t *testing.T) {
	dataDir := t.TempDir()

	_, err := runTallypad(t, dataDir, "bind", "1", "홍길동")
	require.NoError(t, err)
	_, err = runTallypad(t, dataDir, "bind", "2", "가나다")
	require.NoError(t, err)
	_, err = runTallypad(t, dataDir, "click", "1")
	require.NoError(t, err)
	_, err = runTallypad(t, dataDir, "click", "2")
	require.NoError(t, err)

	out, err := runTallypad(t, dataDir, "matrix")
	require.NoError(t, err)
	assert.Contains(t, out, "홍길동")
	assert.Contains(t, out, "가나다")
	assert.Contains(t, out, "2*") // latest click highlighted
}

func TestMatrixEmpty(t *testing.T) {
	dataDir := t.TempDir()

	out, err := runTallypad(t, dataDir, "matrix")
	require.NoError(t, err)
	assert.Contains(t, out, "no participants")
}

func TestExportToStdoutAndFile(t *testing.T) {
	dataDir := t.TempDir()

	_, err := runTallypad(t, dataDir, "bind", "1", "홍길동")
	require.NoError(t, err)
	_, err = runTallypad(t, dataDir, "click", "1")
	require.NoError(t, err)

	out, err := runTallypad(t, dataDir, "export")
	require.NoError(t, err)
	assert.Contains(t, out, "카운터 결과 ===")
	assert.Contains(t, out, "홍길동: 1회")
	assert.Contains(t, out, "총합: 1회")

	reportPath := filepath.Join(t.TempDir(), "report.txt")
	_, err = runTallypad(t, dataDir, "export", "--out", reportPath)
	require.NoError(t, err)

	content, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "홍길동: 1회")
}

func TestHistoryEmpty(t *testing.T) {
	dataDir := t.TempDir()

	out, err := runTallypad(t, dataDir, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "no archives")
}

func TestHistoryShowMissingDate(t *testing.T) {
	dataDir := t.TempDir()

	_, err := runTallypad(t, dataDir, "history", "show", "2020-01-01")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
