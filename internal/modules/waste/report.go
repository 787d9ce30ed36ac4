package waste

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
)

const timeLayout = "2006-01-02 15:04"

// renderMonthlyReport produces the plain-text monthly waste report.
func renderMonthlyReport(records []*Waste, year, month int) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "MONTHLY WASTE REPORT %04d-%02d\n\n", year, month)

	table := tablewriter.NewWriter(&buf)
	table.Header("Plant", "Size", "Qty", "Reason", "Date")
	total := 0
	for _, w := range records {
		reason := w.Reason
		if reason == "" {
			reason = "-"
		}
		table.Append([]string{
			w.PlantName,
			string(w.Size),
			fmt.Sprintf("%d", w.Quantity),
			reason,
			w.CreatedAt.Format(timeLayout),
		})
		total += w.Quantity
	}
	table.Render()

	fmt.Fprintf(&buf, "\nRecords: %d  Total quantity: %d\n", len(records), total)
	fmt.Fprintf(&buf, "Generated: %s\n", time.Now().Format(timeLayout))
	return buf.String()
}
