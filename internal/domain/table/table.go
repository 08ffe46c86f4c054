// Package table renders record lists through column descriptors.
package table

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Align is the horizontal alignment of a column
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Cell is one rendered table cell. Href is set when the cell links to a page.
type Cell struct {
	Text string `json:"text"`
	Href string `json:"href,omitempty"`
}

// Column describes one column of a table of T
type Column[T any] struct {
	Key      string
	Label    string
	Align    Align
	MinWidth int
	Sortable bool
	Render   func(row T) Cell
}

// Header is the rendered form of a column descriptor
type Header struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Align    Align  `json:"align"`
	MinWidth int    `json:"minWidth"`
	Sortable bool   `json:"sortable"`
}

// Table is a static, fully rendered table
type Table struct {
	Headers []Header `json:"headers"`
	Rows    [][]Cell `json:"rows"`
}

// Render produces one row per input row with cells in column order.
// Sorting and client-side paging are not applied.
func Render[T any](rows []T, columns []Column[T]) Table {
	t := Table{
		Headers: make([]Header, 0, len(columns)),
		Rows:    make([][]Cell, 0, len(rows)),
	}
	for _, c := range columns {
		label := c.Label
		if label == "" {
			label = Humanize(c.Key)
		}
		align := c.Align
		if align == "" {
			align = AlignLeft
		}
		t.Headers = append(t.Headers, Header{
			Key:      c.Key,
			Label:    label,
			Align:    align,
			MinWidth: c.MinWidth,
			Sortable: c.Sortable,
		})
	}
	for _, r := range rows {
		cells := make([]Cell, 0, len(columns))
		for _, c := range columns {
			if c.Render == nil {
				cells = append(cells, Cell{})
				continue
			}
			cells = append(cells, c.Render(r))
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

var titleCaser = cases.Title(language.English)

// Humanize turns a camelCase key such as "finalTotalPrice" into "Final Total Price"
func Humanize(key string) string {
	var b strings.Builder
	for i, r := range key {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return titleCaser.String(b.String())
}

// Text is a render helper for plain cells
func Text(s string) Cell {
	return Cell{Text: s}
}

// Link is a render helper for cells linking to a detail page
func Link(s, href string) Cell {
	return Cell{Text: s, Href: href}
}
