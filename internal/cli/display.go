package cli

import (
	"fmt"
	"strings"

	"github.com/ferrumdb/ferrum/internal/persistence"
)

// cellWidth matches the original engine's Row Display impl, which pads
// every cell to a fixed column width before joining with " | ".
const cellWidth = 16

// formatRow renders one row as "| value            | value            |",
// a null cell rendered as NIL (grounded on persistence/row.rs Display).
func formatRow(row persistence.Row) string {
	cells := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		if cell == nil {
			cells[i] = fmt.Sprintf("%-*s", cellWidth, "NIL")
			continue
		}
		cells[i] = fmt.Sprintf("%-*s", cellWidth, *cell)
	}
	return "| " + strings.Join(cells, " | ") + " |"
}

// formatTable renders a schema header line followed by every row, matching
// the original engine's Table Display impl (schema.rs + table.rs).
func formatTable(reader *persistence.TableReader) string {
	var b strings.Builder
	b.WriteString(reader.Schema().String())
	b.WriteString("\n")
	for _, row := range reader.Rows() {
		b.WriteString(formatRow(row))
		b.WriteString("\n")
	}
	return b.String()
}
