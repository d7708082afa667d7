package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Table renders rows of data in aligned columns.
type Table struct {
	w      *tabwriter.Writer
	indent string
}

// NewTable creates a table writer. Headers, when given, form the first
// row.
func NewTable(out io.Writer, headers ...string) *Table {
	t := &Table{w: tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)}
	if len(headers) > 0 {
		t.write(headers)
	}
	return t
}

// Indented returns a header-less table whose rows start with indent.
func Indented(out io.Writer, indent string) *Table {
	t := NewTable(out)
	t.indent = indent
	return t
}

// Row appends a row of values.
func (t *Table) Row(values ...any) {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%v", v)
	}
	t.write(parts)
}

func (t *Table) write(cells []string) {
	_, _ = fmt.Fprintln(t.w, t.indent+strings.Join(cells, "\t"))
}

// Flush writes the buffered output.
func (t *Table) Flush() error {
	return t.w.Flush()
}
