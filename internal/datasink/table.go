package datasink

import (
	"fmt"
	"strings"
)

// Table accumulates rows and renders them with columns padded to the
// widest cell, optionally with a rule under a row.
type Table struct {
	rows    []tableRow
	colLens []int
}

type tableRow struct {
	cells    []string
	withRule bool
}

const colPad = 2

// AddRow appends a row. The first row fixes the column count.
func (t *Table) AddRow(cells ...any) {
	t.addRow(cells, false)
}

// AddRowWithRule appends a row followed by a horizontal rule.
func (t *Table) AddRowWithRule(cells ...any) {
	t.addRow(cells, true)
}

func (t *Table) addRow(cells []any, rule bool) {
	s := make([]string, len(cells))
	for i, c := range cells {
		s[i] = fmt.Sprint(c)
	}
	if t.colLens == nil {
		t.colLens = make([]int, len(s))
	}
	for i, c := range s {
		if i < len(t.colLens) && len(c) > t.colLens[i] {
			t.colLens[i] = len(c)
		}
	}
	t.rows = append(t.rows, tableRow{cells: s, withRule: rule})
}

// Lines renders the table, one string per output line.
func (t *Table) Lines() []string {
	var out []string
	width := 0
	for _, l := range t.colLens {
		width += l + colPad
	}
	for _, row := range t.rows {
		var b strings.Builder
		for i, c := range row.cells {
			pad := 0
			if i < len(t.colLens) {
				pad = t.colLens[i] + colPad
			}
			fmt.Fprintf(&b, "%-*s", pad, c)
		}
		out = append(out, strings.TrimRight(b.String(), " "))
		if row.withRule {
			out = append(out, strings.Repeat("-", width-colPad))
		}
	}
	return out
}

// Emit writes the rendered table through the provided sink, typically
// a logger's message function.
func (t *Table) Emit(sink func(string)) {
	for _, line := range t.Lines() {
		sink(line)
	}
}
