package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/specialistvlad/paramkit/internal/params"
	"github.com/specialistvlad/paramkit/internal/schema"
)

const maxCellWidth = 100

// newTable creates a new table with standard styling.
func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

func formatCell(v any) string {
	var s string
	switch v := v.(type) {
	case nil:
		s = "null"
	case string:
		s = fmt.Sprintf("%q", v)
	default:
		s = fmt.Sprintf("%v", v)
	}
	if len(s) > maxCellWidth {
		s = s[:maxCellWidth-3] + "..."
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// renderSchemas writes one table listing every parameter of every schema.
// Inherited parameters name the schema that declared them.
func renderSchemas(w io.Writer, schemas []*schema.Schema) {
	if len(schemas) == 0 {
		fmt.Fprintf(w, "%s %s\n", text.FgYellow.Sprint("📋"), text.FgYellow.Sprint("No schemas found"))
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"SCHEMA", "PARAM", "TYPE", "MANDATORY", "DEFAULT", "FROM", "DESCRIPTION"})

	for i, s := range schemas {
		if i > 0 {
			t.AppendSeparator()
		}
		title := s.Name()
		if bases := s.Bases(); len(bases) > 0 {
			title += " (" + strings.Join(bases, ", ") + ")"
		}
		if s.Len() == 0 {
			t.AppendRow(table.Row{title, "-", "", "", "", "", s.Description()})
			continue
		}

		first := true
		for name, f := range s.Fields() {
			label := ""
			if first {
				label = title
				first = false
			}
			def := ""
			if v, ok := f.Descriptor.Default(); ok {
				def = formatCell(v)
			}
			from := ""
			if f.Origin != s.Name() {
				from = f.Origin
			}
			t.AppendRow(table.Row{label, name, f.Descriptor.String(), yesNo(f.Descriptor.Mandatory()), def, from, f.Description})
		}
	}
	t.Render()

	fmt.Fprintf(w, "\n%s %s %s\n",
		text.FgHiBlue.Sprint("Total:"),
		text.FgHiWhite.Sprint(len(schemas)),
		text.FgHiBlue.Sprint("schemas"))
}

// renderSet writes the values of set in set order. With a non-nil sources
// map a SOURCE column tells where each value came from.
func renderSet(w io.Writer, set *params.Set, sources map[string]string) {
	t := newTable(w)
	if sources != nil {
		t.AppendHeader(table.Row{"PARAM", "VALUE", "SOURCE"})
	} else {
		t.AppendHeader(table.Row{"PARAM", "VALUE"})
	}

	for name, v := range set.All() {
		if sources != nil {
			t.AppendRow(table.Row{name, formatCell(v), sources[name]})
		} else {
			t.AppendRow(table.Row{name, formatCell(v)})
		}
	}
	t.Render()
}

func renderFailure(w io.Writer, file string, err error) {
	fmt.Fprintf(w, "%s %s\n", text.FgRed.Sprint("✗"), file)
	for _, line := range strings.Split(err.Error(), "\n") {
		if line == "" {
			continue
		}
		fmt.Fprintf(w, "  - %s\n", line)
	}
}

func renderSuccess(w io.Writer, file string) {
	fmt.Fprintf(w, "%s %s\n", text.FgGreen.Sprint("✓"), file)
}
