package cmd

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	require.NoError(t, w.Close())
	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

func TestRunCatalogTextFormatListsKnownCommand(t *testing.T) {
	resetViperDefaults(t)
	require.NoError(t, catalogCmd.Flags().Set("format", "text"))

	out := captureStdout(t, func() {
		require.NoError(t, runCatalog(catalogCmd, nil))
	})
	assert.Contains(t, out, "motion_movesteps")
}

func TestRunCatalogJSONFormatEmitsValidJSON(t *testing.T) {
	resetViperDefaults(t)
	require.NoError(t, catalogCmd.Flags().Set("format", "json"))
	t.Cleanup(func() { _ = catalogCmd.Flags().Set("format", "text") })

	out := captureStdout(t, func() {
		require.NoError(t, runCatalog(catalogCmd, nil))
	})
	assert.Contains(t, out, `"opcode"`)
	assert.Contains(t, out, "motion_movesteps")
}
