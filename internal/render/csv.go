package render

import (
	"encoding/csv"
	"fmt"
	"io"

	"ore/internal/core"
)

// CSV writes the plan as comma-separated values: a header, one record
// per day, and optional Sum and Remainder records.
func CSV(w io.Writer, p *core.Plan, opts Options) error {
	res := p.Resolution
	cw := csv.NewWriter(w)

	header := []string{"Day", "Total"}
	for _, wt := range p.Weights {
		header = append(header, fmt.Sprintf("%d %%", int(wt*100)))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range p.Rows {
		rec := []string{r.Day, res.Format(r.Total)}
		for _, h := range r.Hours {
			rec = append(rec, res.Format(h))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	sum := p.Summarize()
	if opts.Sum {
		rec := []string{"Sum", res.Format(sum.InputTotal)}
		for _, v := range sum.ByCategory {
			rec = append(rec, res.Format(v))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	if opts.ShowRemainder && sum.Remainder > 1e-4 {
		rec := []string{"Remainder", res.Format(sum.Remainder)}
		for range p.Weights {
			rec = append(rec, "")
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
