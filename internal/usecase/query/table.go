package query

import (
	"fmt"
	"strings"

	"github.com/velosearch/velosearch/internal/domain"
)

// maxDescriptionLen bounds displayed descriptions; longer ones are cut
// to maxDescriptionLen-3 bytes plus an ellipsis.
const maxDescriptionLen = 500

// Row is one ranked match in a result table.
type Row struct {
	Query       string  `json:"query"`
	Score       float64 `json:"score"`
	ID          string  `json:"id"`
	Brand       string  `json:"brand"`
	Model       string  `json:"model"`
	Description string  `json:"description"`
}

// Table holds search rows grouped by query, each group sorted by
// descending score.
type Table struct {
	rows []Row
}

func NewTable(rows []Row) *Table {
	return &Table{rows: rows}
}

// Rows returns the raw rows. The slice is shared, not copied.
func (t *Table) Rows() []Row {
	return t.rows
}

func (t *Table) Len() int {
	return len(t.rows)
}

// Display returns rows shaped for presentation: repeated query text is
// blanked so only the first row of each group names its query, and long
// descriptions are truncated.
func (t *Table) Display() []Row {
	out := make([]Row, len(t.rows))
	prev := ""
	for i, r := range t.rows {
		if r.Query == prev {
			r.Query = ""
		} else {
			prev = r.Query
		}
		r.Description = truncate(r.Description)
		out[i] = r
	}
	return out
}

// Page returns the 1-based page of the table as a sub-table. The slice is
// taken over the flattened display rows, so a page starting mid-group
// keeps the blank query cell the unpaginated table carries there. A page
// past the end is empty, not an error.
func (t *Table) Page(page, perPage int) (*Table, error) {
	if page < 1 || perPage < 1 {
		return nil, fmt.Errorf("page and per_page must be positive: %w", domain.ErrInvalidArgument)
	}

	rows := t.Display()
	start := (page - 1) * perPage
	if start >= len(rows) {
		return NewTable(nil), nil
	}
	end := start + perPage
	if end > len(rows) {
		end = len(rows)
	}
	return NewTable(rows[start:end]), nil
}

var tableHeader = []string{"query", "score", "id", "brand", "model", "description"}

// Markdown renders the display rows as a padded pipe table.
func (t *Table) Markdown() string {
	rows := t.Display()

	cells := make([][]string, len(rows))
	widths := make([]int, len(tableHeader))
	for i, h := range tableHeader {
		widths[i] = len(h)
	}
	for i, r := range rows {
		cells[i] = []string{
			r.Query,
			fmt.Sprintf("%.2f", r.Score),
			r.ID,
			r.Brand,
			r.Model,
			r.Description,
		}
		for j, c := range cells[i] {
			if len(c) > widths[j] {
				widths[j] = len(c)
			}
		}
	}

	var b strings.Builder
	writeRow := func(cols []string) {
		b.WriteString("|")
		for j, c := range cols {
			fmt.Fprintf(&b, " %-*s |", widths[j], c)
		}
		b.WriteString("\n")
	}

	writeRow(tableHeader)
	b.WriteString("|")
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteString("|")
	}
	b.WriteString("\n")
	for _, cols := range cells {
		writeRow(cols)
	}
	return b.String()
}

func truncate(s string) string {
	if len(s) <= maxDescriptionLen {
		return s
	}
	return s[:maxDescriptionLen-3] + "..."
}
