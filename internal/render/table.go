// Package render turns allocation plans into the fixed-width table,
// CSV and JSON views offered by the CLI.
package render

import (
	"fmt"
	"io"
	"strings"

	"ore/internal/core"
)

// Options selects the optional table rows.
type Options struct {
	Sum               bool
	ShowRemainder     bool
	ShowActualPercent bool
}

// Table writes p as a fixed-width text table. The first column is left
// aligned, every other column right aligned, and value precision
// follows the plan's resolution.
func Table(w io.Writer, p *core.Plan, opts Options) error {
	res := p.Resolution
	sum := p.Summarize()

	headers := []string{"Day", "Input"}
	for _, wt := range p.Weights {
		headers = append(headers, fmt.Sprintf("%d %%", int(wt*100)))
	}
	if opts.Sum {
		headers = append(headers, "Sum")
	}

	var rows [][]string
	for _, r := range p.Rows {
		row := []string{r.Day, res.Format(r.Total)}
		var catSum float64
		for _, h := range r.Hours {
			row = append(row, res.Format(h))
			catSum += h
		}
		if opts.Sum {
			row = append(row, res.Format(catSum))
		}
		rows = append(rows, row)
	}

	if opts.Sum {
		sumRow := []string{"Sum", res.Format(sum.InputTotal)}
		for _, v := range sum.ByCategory {
			sumRow = append(sumRow, res.Format(v))
		}
		sumRow = append(sumRow, res.Format(sum.AllocatedTotal))
		rows = append(rows, sumRow)

		if opts.ShowActualPercent {
			actualRow := []string{"Actual %", ""}
			for _, a := range sum.ActualPercent {
				actualRow = append(actualRow, fmt.Sprintf("%.*f%%", res.DecimalPlaces(), a*100))
			}
			actualRow = append(actualRow, "")
			rows = append(rows, actualRow)
		}

		deltaRow := []string{"Delta", "-"}
		for _, d := range sum.Deltas {
			deltaRow = append(deltaRow, fmt.Sprintf("%+.*f", res.DecimalPlaces(), d))
		}
		deltaRow = append(deltaRow, "")
		rows = append(rows, deltaRow)
	}

	if opts.ShowRemainder && sum.Remainder > 1e-4 {
		remRow := []string{"Remainder", res.Format(sum.Remainder)}
		for range p.Weights {
			remRow = append(remRow, "")
		}
		if opts.Sum {
			remRow = append(remRow, "")
		}
		rows = append(rows, remRow)
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	total := 0
	for i := range widths {
		widths[i] += 2
		total += widths[i]
	}

	line := func(row []string) string {
		var b strings.Builder
		for i, cell := range row {
			if i == 0 {
				fmt.Fprintf(&b, "%-*s", widths[i], cell)
			} else {
				fmt.Fprintf(&b, "%*s", widths[i], cell)
			}
		}
		return strings.TrimRight(b.String(), " ")
	}

	if _, err := fmt.Fprintln(w, line(headers)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", total)); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, line(row)); err != nil {
			return err
		}
	}
	return nil
}
