package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCLI(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("MANGATHEQUE_STORAGE", "sqlite")
	t.Setenv("MANGATHEQUE_DB_PATH", filepath.Join(dir, "data.db"))
	t.Setenv("MANGATHEQUE_GEMINI_API_KEY", "")
	t.Setenv("MANGATHEQUE_LOG_LEVEL", "error")
	t.Setenv("API_KEY", "")
	return dir
}

func runCLI(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	require.NoError(t, rootCmd.ExecuteContext(context.Background()), out.String())
	return out.String()
}

func TestCLICollectionFlow(t *testing.T) {
	dir := setupCLI(t)

	out := runCLI(t, "", "series", "add", "Akira", "--author", "Katsuhiro Otomo")
	assert.Contains(t, out, "✅ added Akira")

	out = runCLI(t, "", "volume", "add", "akira", "3", "1", "1")
	assert.Contains(t, out, "tome 1 already recorded")

	runCLI(t, "", "volume", "toggle", "Akira", "1")

	out = runCLI(t, "", "series", "show", "Akira")
	assert.Contains(t, out, "✅ tome 1")
	assert.Contains(t, out, "owned:       1 / ?")

	out = runCLI(t, "", "report")
	assert.Contains(t, out, "📖 Série : AKIRA")
	assert.Contains(t, out, "✅ Tomes possédés : 1")

	out = runCLI(t, "", "report", "--share")
	assert.True(t, strings.HasPrefix(out, "mailto:?subject=Ma%20Mangath%C3%A8que&body="))

	exportPath := filepath.Join(dir, "export.csv")
	runCLI(t, "", "export", "--format", "csv", "--out", exportPath)
	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Katsuhiro Otomo")

	out = runCLI(t, "non\n", "series", "delete", "Akira")
	assert.Contains(t, out, "Es-tu sûr de vouloir supprimer TOUTE la collection \"Akira\"")
	assert.Contains(t, out, "cancelled")

	out = runCLI(t, "oui\n", "series", "delete", "Akira")
	assert.Contains(t, out, "deleted Akira")

	out = runCLI(t, "", "series", "list")
	assert.Contains(t, out, "no series yet")

	out = runCLI(t, "", "import", exportPath, "--yes")
	assert.Contains(t, out, "imported 1 series")

	out = runCLI(t, "", "series", "list")
	assert.Contains(t, out, "Akira")
}

func TestCLISuggestWithoutKey(t *testing.T) {
	setupCLI(t)
	out := runCLI(t, "", "suggest", "one", "piece")
	assert.Contains(t, out, "no suggestion available")
}

func TestWebsocketURL(t *testing.T) {
	u, err := websocketURL("https://example.com:8443/api", "/ws")
	require.NoError(t, err)
	assert.Equal(t, "wss://example.com:8443/ws", u)

	u, err = websocketURL("http://localhost:8080", "/ws")
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:8080/ws", u)
}

func TestPrintEvent(t *testing.T) {
	var buf bytes.Buffer
	printEvent(&buf, []byte(`{"type":"volume.add"}`), true)
	assert.Equal(t, "{\n  \"type\": \"volume.add\"\n}\n", buf.String())

	buf.Reset()
	printEvent(&buf, []byte("not json"), true)
	assert.Equal(t, "not json\n", buf.String())
}
