package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// tablePrinter writes aligned, tab separated columns.
type tablePrinter struct {
	w *tabwriter.Writer
}

func newTablePrinter(out io.Writer) *tablePrinter {
	return &tablePrinter{w: tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)}
}

func (t *tablePrinter) Header(columns ...string) {
	upper := make([]string, len(columns))
	for i, c := range columns {
		upper[i] = strings.ToUpper(c)
	}
	fmt.Fprintln(t.w, strings.Join(upper, "\t"))
}

func (t *tablePrinter) Row(values ...string) {
	fmt.Fprintln(t.w, strings.Join(values, "\t"))
}

func (t *tablePrinter) Flush() error {
	return t.w.Flush()
}
