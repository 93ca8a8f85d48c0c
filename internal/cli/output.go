package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/BakaI9/excalidraw/pkg/types"
)

func (a *app) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(a.out, string(data))
	return err
}

// printElements writes one row per element.
func (a *app) printElements(elements []*types.Element) error {
	if a.flags.json {
		if elements == nil {
			elements = []*types.Element{}
		}
		return a.printJSON(elements)
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tX\tY\tW\tH\tINDEX\tVERSION")
	for _, el := range elements {
		fmt.Fprintf(tw, "%s\t%s\t%g\t%g\t%g\t%g\t%s\t%d\n",
			el.ID, el.Type, el.X, el.Y, el.Width, el.Height, el.Index, el.Version)
	}
	return tw.Flush()
}

func (a *app) printMetrics() error {
	samples, err := a.metrics.Snapshot()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	if a.flags.json {
		out := make(map[string]float64, len(samples))
		for _, s := range samples {
			out[s.Name] = s.Value
		}
		return a.printJSON(map[string]any{"metrics": out})
	}
	for _, s := range samples {
		fmt.Fprintf(a.out, "%s %g\n", s.Name, s.Value)
	}
	return nil
}
