package output

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureStdout(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func captureStderr(f func()) string {
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	f()

	w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

// The colored printers must resolve their writer at call time, not reuse
// the stdout that color captured at package init. Forcing color on keeps
// the escape-sequence path active even though the capture is a pipe.
func TestWriterResolvedPerCall(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prev }()

	stdout := captureStdout(func() {
		Success("created")
		Info("fetched")
		Warn("stale")
		table := NewTable([]string{"ID"})
		table.AddRow([]string{"7"})
		table.Render()
	})
	assert.Contains(t, stdout, "created")
	assert.Contains(t, stdout, "fetched")
	assert.Contains(t, stdout, "stale")
	assert.Contains(t, stdout, "ID")

	stderr := captureStderr(func() {
		Error("failed")
	})
	assert.Contains(t, stderr, "failed")
}

func TestSuccess(t *testing.T) {
	output := captureStdout(func() {
		Success("created user %s", "asmith")
	})

	assert.Contains(t, output, "✓")
	assert.Contains(t, output, "created user asmith")
}

func TestError(t *testing.T) {
	output := captureStderr(func() {
		Error("could not reach %s", "backend")
	})

	assert.Contains(t, output, "✗")
	assert.Contains(t, output, "could not reach backend")
}

func TestInfo(t *testing.T) {
	output := captureStdout(func() {
		Info("fetched %d of %d users", 5, 10)
	})

	assert.Contains(t, output, "fetched 5 of 10 users")
	assert.NotContains(t, output, "✓")
	assert.NotContains(t, output, "✗")
}

func TestWarn(t *testing.T) {
	output := captureStdout(func() {
		Warn("profile data is %s", "stale")
	})

	assert.Contains(t, output, "⚠")
	assert.Contains(t, output, "profile data is stale")
}

func TestJSON(t *testing.T) {
	data := map[string]interface{}{
		"email": "doc@test.com",
		"id":    7,
	}

	output := captureStdout(func() {
		err := JSON(data)
		assert.NoError(t, err)
	})

	var parsed map[string]interface{}
	err := json.Unmarshal([]byte(output), &parsed)
	require.NoError(t, err)

	assert.Equal(t, "doc@test.com", parsed["email"])
	assert.Equal(t, float64(7), parsed["id"])
	// Two-space indentation for human eyes.
	assert.Contains(t, output, "  \"email\":")
}

func TestNewTable(t *testing.T) {
	headers := []string{"ID", "EMAIL", "ROLES"}
	table := NewTable(headers)

	assert.NotNil(t, table)
	assert.Equal(t, headers, table.headers)
	assert.Empty(t, table.rows)
}

func TestTable_AddRow(t *testing.T) {
	table := NewTable([]string{"ID", "EMAIL"})

	table.AddRow([]string{"1", "a@test.com"})
	table.AddRow([]string{"2", "b@test.com"})

	assert.Len(t, table.rows, 2)
	assert.Equal(t, []string{"1", "a@test.com"}, table.rows[0])
}

func TestTable_Render(t *testing.T) {
	table := NewTable([]string{"ID", "EMAIL", "ACTIVE"})
	table.AddRow([]string{"1", "alice@raddesk.health", "yes"})
	table.AddRow([]string{"2", "bob@raddesk.health", "no"})

	output := captureStdout(func() {
		table.Render()
	})

	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "EMAIL")
	assert.Contains(t, output, "----")
	assert.Contains(t, output, "alice@raddesk.health")
	assert.Contains(t, output, "bob@raddesk.health")
}

func TestTable_Render_ColumnAlignment(t *testing.T) {
	table := NewTable([]string{"A", "VeryLongHeader"})
	table.AddRow([]string{"LongValue", "x"})

	output := captureStdout(func() {
		table.Render()
	})

	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	// Separator widths follow the widest cell per column.
	assert.Contains(t, lines[1], strings.Repeat("-", len("LongValue")))
	assert.Contains(t, lines[1], strings.Repeat("-", len("VeryLongHeader")))
}

func TestTable_Render_Empty(t *testing.T) {
	table := NewTable([]string{"NAME", "STATUS"})

	output := captureStdout(func() {
		table.Render()
	})

	assert.Contains(t, output, "NAME")
	assert.Contains(t, output, "STATUS")
	assert.Contains(t, output, "----")
}
