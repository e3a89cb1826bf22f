package tui

import (
	"strconv"

	table "github.com/charmbracelet/bubbles/table"
)

// refreshAttrsFromCurrent rebuilds the hex table from the drawn polygons
func (m *Model) refreshAttrsFromCurrent() {
	cols, rows := m.buildAttributes()
	// If there are no rows, disable attributes view to avoid rendering panics
	if len(rows) == 0 {
		m.showAttrs = false
		m.status = "no hexes in current dataset"
		return
	}
	tcols := make([]table.Column, 0, len(cols))
	for _, c := range cols {
		w := len(c) + 2
		switch c {
		case "hex":
			w = 14
		case "fill":
			w = 9
		}
		tcols = append(tcols, table.Column{Title: c, Width: w})
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(rows)
}

// buildAttributes returns one row per hex in render order
func (m *Model) buildAttributes() ([]string, []table.Row) {
	cols := []string{"#", "hex", "count", "fill"}
	rows := make([]table.Row, 0, len(m.layer.polys))
	for i, p := range m.layer.polys {
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			p.meta.ID,
			strconv.Itoa(p.meta.Count),
			p.style.FillColor.Hex(),
		})
	}
	return cols, rows
}
