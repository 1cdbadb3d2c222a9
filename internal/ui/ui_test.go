package ui_test

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/go-dbal/internal/ui"
)

func TestPrinters(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		name  string
		print func(*bytes.Buffer)
		want  string
	}{
		{"success", func(b *bytes.Buffer) { ui.PrintSuccess(b, "%d rows", 2) }, "✓ 2 rows\n"},
		{"error", func(b *bytes.Buffer) { ui.PrintError(b, "boom") }, "✗ boom\n"},
		{"warning", func(b *bytes.Buffer) { ui.PrintWarning(b, "careful") }, "⚠ careful\n"},
		{"info", func(b *bytes.Buffer) { ui.PrintInfo(b, "note") }, "ℹ note\n"},
		{"comment", func(b *bytes.Buffer) { ui.PrintComment(b, "q (%s)", "mysql") }, "-- q (mysql)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.print(&buf)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ui.PrintTable(&buf, []string{"id", "name"}, [][]string{{"1", "ann"}, {"2", "bob"}}))

	out := buf.String()
	for _, want := range []string{"id", "name", "ann", "bob"} {
		assert.Contains(t, out, want)
	}
}

func TestPrintBox(t *testing.T) {
	var buf bytes.Buffer
	ui.PrintBox(&buf, "drop_users", "DROP TABLE users")

	assert.Contains(t, buf.String(), "drop_users")
	assert.Contains(t, buf.String(), "DROP TABLE users")
}

func TestConfirmAssumeYes(t *testing.T) {
	ok, err := ui.Confirm("Run?", true)
	require.NoError(t, err)
	assert.True(t, ok)
}
