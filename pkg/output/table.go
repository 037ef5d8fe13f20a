package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/flatcar/nebraska-sub000/pkg/constants"
)

// Column represents a single table column with its header and current width.
//
// Fields:
//   - Header: The display text for this column's header
//   - Width: The current display width for this column in characters
//   - MaxWidth: Cells wider than this are truncated; 0 means unlimited
//   - hidden: Whether this column should be excluded from output
type Column struct {
	Header   string
	Width    int
	MaxWidth int
	hidden   bool
}

// Cell is one table value with an optional color role.
//
// Fields:
//   - Text: The plain text; widths are measured on this
//   - Role: Color role applied by the table's Styler; empty for unstyled cells
type Cell struct {
	Text string
	Role constants.ColorRole
}

// Plain returns an unstyled cell.
func Plain(text string) Cell {
	return Cell{Text: text}
}

// Styled returns a cell rendered with the given color role.
func Styled(text string, role constants.ColorRole) Cell {
	return Cell{Text: text, Role: role}
}

// Styler renders text in a color role. It must not change the display width of text.
type Styler func(role constants.ColorRole, text string) string

// Table provides a table formatter with dynamic column widths.
// It handles Unicode-aware width calculations and styles cells after padding
// has been computed on their plain text, so escape sequences never skew alignment.
//
// Fields:
//   - columns: Columns with their headers, widths, and visibility state
//   - rows: Data rows added with AddRow
//   - separator: String used between columns (default: "  ")
//   - styler: Renders styled cells; nil renders every cell plain
type Table struct {
	columns   []Column
	rows      [][]Cell
	separator string
	styler    Styler
}

// NewTable creates a new table formatter and returns a pointer to it.
//
// Returns:
//   - *Table: A new table with no columns and a two-space separator
func NewTable() *Table {
	return &Table{
		columns:   make([]Column, 0),
		separator: "  ",
	}
}

// WithSeparator sets a custom column separator and returns the table.
func (t *Table) WithSeparator(sep string) *Table {
	t.separator = sep
	return t
}

// WithStyler sets the function used to render styled cells and returns the table.
func (t *Table) WithStyler(styler Styler) *Table {
	t.styler = styler
	return t
}

// AddColumn adds a column with the given header and returns the table.
//
// The initial width is set to the display width of the header.
func (t *Table) AddColumn(header string) *Table {
	t.columns = append(t.columns, Column{
		Header: header,
		Width:  DisplayWidth(header),
	})
	return t
}

// AddColumnWithMaxWidth adds a column whose cells are truncated to maxWidth and returns the table.
//
// Parameters:
//   - header: The text to display in the column header
//   - maxWidth: Maximum cell width in characters; 0 means unlimited
//
// Returns:
//   - *Table: The table instance for method chaining
func (t *Table) AddColumnWithMaxWidth(header string, maxWidth int) *Table {
	t.columns = append(t.columns, Column{
		Header:   header,
		Width:    DisplayWidth(header),
		MaxWidth: maxWidth,
	})
	return t
}

// AddConditionalColumn adds a column with configurable visibility and returns the table.
//
// This is useful for columns that should only appear when certain data exists,
// such as a GROUP column that's hidden when a result covers a single group.
//
// Parameters:
//   - header: The text to display in the column header
//   - visible: Whether the column should be visible
//
// Returns:
//   - *Table: The table instance for method chaining
func (t *Table) AddConditionalColumn(header string, visible bool) *Table {
	t.columns = append(t.columns, Column{
		Header: header,
		Width:  DisplayWidth(header),
		hidden: !visible,
	})
	return t
}

// AddRow appends a data row and widens columns to fit it.
//
// Cells map to columns by position, hidden columns included. Missing cells
// render empty; extra cells are ignored.
//
// Parameters:
//   - cells: One cell per column
//
// Returns:
//   - *Table: The table instance for method chaining
func (t *Table) AddRow(cells ...Cell) *Table {
	row := make([]Cell, len(t.columns))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		}
		if limit := t.columns[i].MaxWidth; limit > 0 {
			row[i].Text = Truncate(row[i].Text, limit)
		}
		if w := DisplayWidth(row[i].Text); w > t.columns[i].Width {
			t.columns[i].Width = w
		}
	}
	t.rows = append(t.rows, row)
	return t
}

// AddPlainRow appends a row of unstyled values.
func (t *Table) AddPlainRow(values ...string) *Table {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i] = Plain(v)
	}
	return t.AddRow(cells...)
}

// HeaderRow returns the formatted header row string.
//
// Returns:
//   - string: Visible headers padded to their column widths
func (t *Table) HeaderRow() string {
	var parts []string
	for _, col := range t.columns {
		if !col.hidden {
			parts = append(parts, ToWidth(col.Header, col.Width))
		}
	}
	return strings.TrimRight(strings.Join(parts, t.separator), " ")
}

// SeparatorRow returns a separator row with dashes matching column widths.
func (t *Table) SeparatorRow() string {
	var parts []string
	for _, col := range t.columns {
		if !col.hidden {
			parts = append(parts, strings.Repeat("-", col.Width))
		}
	}
	return strings.Join(parts, t.separator)
}

// FormatRow formats one row with padding and styling and returns it.
//
// Parameters:
//   - row: Cells, one per column
//
// Returns:
//   - string: Formatted row without trailing whitespace
func (t *Table) FormatRow(row []Cell) string {
	var parts []string
	for i, col := range t.columns {
		if col.hidden {
			continue
		}
		var cell Cell
		if i < len(row) {
			cell = row[i]
		}

		text := cell.Text
		if t.styler != nil && cell.Role != "" {
			text = t.styler(cell.Role, cell.Text)
		}
		if pad := col.Width - DisplayWidth(cell.Text); pad > 0 {
			text += strings.Repeat(" ", pad)
		}
		parts = append(parts, text)
	}
	return strings.TrimRight(strings.Join(parts, t.separator), " ")
}

// ColumnCount returns the total number of columns including hidden ones.
func (t *Table) ColumnCount() int {
	return len(t.columns)
}

// VisibleColumnCount returns the number of visible columns.
func (t *Table) VisibleColumnCount() int {
	count := 0
	for _, col := range t.columns {
		if !col.hidden {
			count++
		}
	}
	return count
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.rows)
}

// GetColumnWidth returns the width of a column by index, or 0 when out of bounds.
func (t *Table) GetColumnWidth(index int) int {
	if index >= 0 && index < len(t.columns) {
		return t.columns[index].Width
	}
	return 0
}

// ShouldShowGroupColumn reports whether a GROUP column carries information.
//
// Parameters:
//   - groups: Group names, one per row; may contain duplicates and blanks
//
// Returns:
//   - bool: true if at least two distinct non-blank groups are present
func ShouldShowGroupColumn(groups []string) bool {
	distinct := make(map[string]struct{})
	for _, group := range groups {
		group = strings.TrimSpace(group)
		if group != "" {
			distinct[group] = struct{}{}
		}
	}
	return len(distinct) >= 2
}

// Fprint writes the header, separator and all rows to w.
//
// Parameters:
//   - w: The writer to output to
func (t *Table) Fprint(w io.Writer) {
	_, _ = fmt.Fprintln(w, t.HeaderRow())
	_, _ = fmt.Fprintln(w, t.SeparatorRow())
	for _, row := range t.rows {
		_, _ = fmt.Fprintln(w, t.FormatRow(row))
	}
}

// String returns a representation of the table structure for debugging,
// in the form "Table{columns: [Header1:Width1, Header2:Width2 (hidden)], rows: N}".
func (t *Table) String() string {
	var sb strings.Builder
	sb.WriteString("Table{columns: [")
	for i, col := range t.columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		hidden := ""
		if col.hidden {
			hidden = " (hidden)"
		}
		sb.WriteString(fmt.Sprintf("%s:%d%s", col.Header, col.Width, hidden))
	}
	sb.WriteString(fmt.Sprintf("], rows: %d}", len(t.rows)))
	return sb.String()
}
