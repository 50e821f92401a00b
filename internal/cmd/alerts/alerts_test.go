package alerts

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomstock/inventory/internal/cmd/emoji"
	"github.com/roomstock/inventory/internal/cmd/globals"
)

func TestAlertString(t *testing.T) {
	a := Newf(LevelError, "Import of %s failed", "a.json").
		WithError(errors.New("not an object")).
		WithDetails("local edits were left unchanged")

	assert.Equal(t, emoji.Error+" Import of a.json failed: not an object\n   local edits were left unchanged", a.String())
}

func TestLevelIcons(t *testing.T) {
	assert.Equal(t, emoji.Success, LevelSuccess.Icon())
	assert.Equal(t, emoji.Warning, LevelWarning.Icon())
	assert.Equal(t, emoji.Info, LevelInfo.Icon())
	assert.Equal(t, "success", LevelSuccess.String())
	assert.Equal(t, "unknown(9)", Level(9).String())
}

func TestWriterToBufferIsUncolored(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriterTo(&buf, true).WriteAlert(New(LevelSuccess, "Saved")))
	assert.Equal(t, emoji.Success+" Saved\n", buf.String())
}

func newCommand(args ...string) (*cobra.Command, *bytes.Buffer) {
	root := &cobra.Command{Use: "inventory", Run: func(*cobra.Command, []string) {}}
	globals.AddFlags(root)
	var buf bytes.Buffer
	root.SetErr(&buf)
	_ = root.ParseFlags(args)
	return root, &buf
}

func TestReport(t *testing.T) {
	cmd, buf := newCommand()
	Report(cmd, LevelInfo, "%d patches", 3)
	assert.Equal(t, emoji.Info+" 3 patches\n", buf.String())
}

func TestReportQuiet(t *testing.T) {
	cmd, buf := newCommand("--quiet")
	Report(cmd, LevelSuccess, "Saved")
	assert.Empty(t, buf.String())
}
