package scenario

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

func RenderReport(w io.Writer, r Report) {
	fmt.Fprintf(w, "%s: %d visitors, algorithm %s\n\n", r.Scenario, r.Visitors, r.Algorithm)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Variant", "True Rate", "Visitors", "Share", "Conversions", "Observed", "Revenue"})
	table.SetBorder(false)
	table.SetColumnSeparator("  ")
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)

	for _, v := range r.Variants {
		table.Append([]string{
			v.Name,
			fmt.Sprintf("%.2f%%", v.TrueRate*100),
			fmt.Sprintf("%d", v.Visitors),
			fmt.Sprintf("%.1f%%", v.Share*100),
			fmt.Sprintf("%d", v.Conversions),
			fmt.Sprintf("%.2f%%", v.ObservedRate*100),
			fmt.Sprintf("%.2f", v.Revenue),
		})
	}
	table.Render()

	fmt.Fprintf(w, "\nconversions: %d  regret: %.1f\n", r.Conversions, r.Regret)
}

func RenderComparison(w io.Writer, sc Scenario, results []PolicyResult) {
	header := []string{"Policy", "Conversions", "Regret"}
	for _, v := range sc.Variants {
		header = append(header, v.ID)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetColumnSeparator("  ")
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)

	for _, r := range results {
		row := []string{string(r.Algorithm), fmt.Sprintf("%d", r.Conversions), fmt.Sprintf("%.1f", r.Regret)}
		for _, s := range r.Shares {
			row = append(row, fmt.Sprintf("%.1f%%", s*100))
		}
		table.Append(row)
	}
	table.Render()
}
