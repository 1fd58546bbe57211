package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func tempLogPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.log")
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestNewWritesLeveledLinesWithFields(t *testing.T) {
	path := tempLogPath(t)
	l, err := New(&Config{LogFilePath: path, Level: LevelDebug})
	require.NoError(t, err)

	l.Debug("scanning page", Page(3))
	l.Info("region extracted", Page(3), Figure(1))
	l.Warn("render failed", Region(2), Err(errors.New("boom")))
	l.Error("unreadable document", String("path", "in.pdf"), Int("size", 0))
	require.NoError(t, l.Close())

	out := readLog(t, path)
	require.Contains(t, out, "[DEBUG] scanning page page=3")
	require.Contains(t, out, "[INFO] region extracted page=3 figure=1")
	require.Contains(t, out, "[WARN] render failed region=2 error=boom")
	require.Contains(t, out, "[ERROR] unreadable document path=in.pdf size=0")
}

func TestLevelFiltersLowerSeverities(t *testing.T) {
	path := tempLogPath(t)
	l, err := New(&Config{LogFilePath: path, Level: LevelWarn})
	require.NoError(t, err)

	l.Debug("dropped")
	l.Info("dropped too")
	l.Warn("kept")
	require.NoError(t, l.Close())

	out := readLog(t, path)
	require.NotContains(t, out, "dropped")
	require.Contains(t, out, "kept")
}

func TestErrFieldHandlesNil(t *testing.T) {
	f := Err(nil)
	require.Equal(t, "error", f.Key)
	require.Equal(t, "<nil>", f.Value)
}

func TestEmptyLogFilePathDisablesFileOutput(t *testing.T) {
	l, err := New(&Config{Level: LevelInfo})
	require.NoError(t, err)
	l.Info("goes nowhere")
	require.NoError(t, l.Close())
}

func TestPackageLevelFunctionsAreNoopsBeforeInit(t *testing.T) {
	require.NoError(t, Close())

	// Must not panic with no global logger installed.
	Debug("x")
	Info("x")
	Warn("x", Page(1))
	Error("x", Err(errors.New("e")))
}

func TestInitInstallsGlobalLogger(t *testing.T) {
	path := tempLogPath(t)
	require.NoError(t, Init(&Config{LogFilePath: path, Level: LevelInfo}))

	Info("page complete", Page(7), Figure(2))
	require.NoError(t, Close())

	out := readLog(t, path)
	require.Contains(t, out, "page complete page=7 figure=2")
}

func TestInitFailsOnUnwritablePath(t *testing.T) {
	err := Init(&Config{LogFilePath: filepath.Join(t.TempDir(), "missing", "deep", "x.log")})
	require.Error(t, err)

	// The failed Init must leave the previous (or no-op) global in place.
	Warn("still fine")
	require.NoError(t, Close())
}

func TestCloseIsIdempotent(t *testing.T) {
	l, err := New(&Config{LogFilePath: tempLogPath(t), Level: LevelInfo})
	require.NoError(t, err)
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())
}

func TestLevelString(t *testing.T) {
	require.Equal(t, "DEBUG", LevelDebug.String())
	require.Equal(t, "INFO", LevelInfo.String())
	require.Equal(t, "WARN", LevelWarn.String())
	require.Equal(t, "ERROR", LevelError.String())
	require.Equal(t, "UNKNOWN", Level(99).String())
}
