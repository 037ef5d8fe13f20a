package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flatcar/nebraska-sub000/pkg/constants"
)

// TestNewTable tests the behavior of NewTable.
func TestNewTable(t *testing.T) {
	table := NewTable()
	require.NotNil(t, table)
	assert.Equal(t, 0, table.ColumnCount())
	assert.Equal(t, 0, table.RowCount())
	assert.Equal(t, "  ", table.separator)
}

// TestTable_Columns tests column creation and visibility.
//
// It verifies:
//   - Column widths start at the header width
//   - Conditional columns count toward ColumnCount but not VisibleColumnCount
//   - GetColumnWidth returns 0 out of range
func TestTable_Columns(t *testing.T) {
	table := NewTable().
		AddColumn("VERSION").
		AddConditionalColumn("GROUP", false).
		AddColumnWithMaxWidth("EXPLANATION", 12)

	assert.Equal(t, 3, table.ColumnCount())
	assert.Equal(t, 2, table.VisibleColumnCount())
	assert.Equal(t, 7, table.GetColumnWidth(0))
	assert.Equal(t, 5, table.GetColumnWidth(1))
	assert.Equal(t, 0, table.GetColumnWidth(-1))
	assert.Equal(t, 0, table.GetColumnWidth(3))
	assert.Equal(t, "VERSION  EXPLANATION", table.HeaderRow())
}

// TestTable_AddRow tests the behavior of AddRow.
//
// It verifies:
//   - Columns widen to the widest cell using display width
//   - Cells beyond MaxWidth are truncated with an ellipsis
//   - Missing cells render empty and extra cells are ignored
func TestTable_AddRow(t *testing.T) {
	table := NewTable().AddColumn("V").AddColumnWithMaxWidth("NOTE", 6)

	table.AddPlainRow("3.0.0-日本", "a long explanation", "ignored")
	table.AddPlainRow("1.0")

	assert.Equal(t, 2, table.RowCount())
	assert.Equal(t, DisplayWidth("3.0.0-日本"), table.GetColumnWidth(0))
	assert.Equal(t, 6, table.GetColumnWidth(1))
	assert.Equal(t, "a lon…", table.rows[0][1].Text)
	assert.Equal(t, "", table.rows[1][1].Text)
}

// TestTable_FormatRow tests padding and styling of rows.
//
// It verifies:
//   - Styled cells are padded by their plain width
//   - Unstyled cells are not passed to the styler
//   - Trailing whitespace is trimmed
func TestTable_FormatRow(t *testing.T) {
	var styled []constants.ColorRole
	styler := func(role constants.ColorRole, text string) string {
		styled = append(styled, role)
		return "<" + text + ">"
	}

	table := NewTable().WithStyler(styler).AddColumn("VERSION").AddColumn("PCT")
	table.AddRow(Styled("3.0.0", constants.RoleSuccess), Plain("60"))
	table.AddRow(Plain("Other"), Styled("5", constants.RoleNeutral))

	assert.Equal(t, "<3.0.0>    60", table.FormatRow(table.rows[0]))
	assert.Equal(t, "Other    <5>", table.FormatRow(table.rows[1]))
	assert.Equal(t, []constants.ColorRole{constants.RoleSuccess, constants.RoleNeutral}, styled)
}

// TestTable_FormatRowHidden tests that hidden columns are skipped in rows.
func TestTable_FormatRowHidden(t *testing.T) {
	table := NewTable().
		AddConditionalColumn("GROUP", false).
		AddColumn("VERSION").
		WithSeparator(" | ")
	table.AddPlainRow("stable", "3.0.0")

	assert.Equal(t, "VERSION", table.HeaderRow())
	assert.Equal(t, "-------", table.SeparatorRow())
	assert.Equal(t, "3.0.0", table.FormatRow(table.rows[0]))
}

// TestTable_Fprint tests complete table rendering.
func TestTable_Fprint(t *testing.T) {
	table := NewTable().AddColumn("VERSION").AddColumn("PERCENT")
	table.AddPlainRow("3.0.0", "60")
	table.AddPlainRow("Other", "5")

	var buf bytes.Buffer
	table.Fprint(&buf)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"VERSION  PERCENT",
		"-------  -------",
		"3.0.0    60",
		"Other    5",
	}, lines)
}

// TestTable_String tests the debug representation.
func TestTable_String(t *testing.T) {
	table := NewTable().AddColumn("A").AddConditionalColumn("GROUP", false)
	table.AddPlainRow("xyz", "g")
	assert.Equal(t, "Table{columns: [A:3, GROUP:5 (hidden)], rows: 1}", table.String())
}

// TestShouldShowGroupColumn tests the behavior of ShouldShowGroupColumn.
func TestShouldShowGroupColumn(t *testing.T) {
	tests := []struct {
		name     string
		groups   []string
		expected bool
	}{
		{"empty", nil, false},
		{"single", []string{"stable", "stable"}, false},
		{"blanks ignored", []string{"stable", " ", ""}, false},
		{"two groups", []string{"stable", "beta"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShouldShowGroupColumn(tt.groups))
		})
	}
}

// TestWidthHelpers tests DisplayWidth, ToWidth and Truncate.
func TestWidthHelpers(t *testing.T) {
	assert.Equal(t, 4, DisplayWidth("日本"))
	assert.Equal(t, "ab  ", ToWidth("ab", 4))
	assert.Equal(t, "abcdef", ToWidth("abcdef", 4))
	assert.Equal(t, "abc", Truncate("abc", 3))
	assert.Equal(t, "ab…", Truncate("abcd", 3))
}
