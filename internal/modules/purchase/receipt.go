package purchase

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/plantheaven/nursery-backend/internal/modules/plant"
)

const timeLayout = "2006-01-02 15:04"

// renderReceipt produces the plain-text receipt returned by the
// purchases receipt endpoint.
func renderReceipt(p *Purchase, pl *plant.Plant) string {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "PURCHASE RECEIPT")
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "Purchase ID: %s\n", p.ID)
	fmt.Fprintf(&buf, "Plant:       %s\n", pl.Name)
	fmt.Fprintf(&buf, "Nursery:     %s\n", p.NurseryName)
	fmt.Fprintf(&buf, "Size:        %s\n", p.Size)
	fmt.Fprintf(&buf, "Quantity:    %d\n", p.Quantity)
	fmt.Fprintf(&buf, "Date:        %s\n", p.CreatedAt.Format(timeLayout))
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "Updated stock:")

	table := tablewriter.NewWriter(&buf)
	table.Header("Size", "Quantity")
	for _, size := range plant.Sizes {
		table.Append([]string{string(size), fmt.Sprintf("%d", pl.Stock.For(size))})
	}
	table.Render()

	fmt.Fprintf(&buf, "\nGenerated: %s\n", time.Now().Format(timeLayout))
	return buf.String()
}

// renderMonthlyReport produces the plain-text monthly purchase report.
func renderMonthlyReport(purchases []*Purchase, year, month int) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "MONTHLY PURCHASE REPORT %04d-%02d\n\n", year, month)

	table := tablewriter.NewWriter(&buf)
	table.Header("Plant", "Nursery", "Size", "Qty", "Date")
	total := 0
	for _, p := range purchases {
		table.Append([]string{
			p.PlantName,
			p.NurseryName,
			string(p.Size),
			fmt.Sprintf("%d", p.Quantity),
			p.CreatedAt.Format(timeLayout),
		})
		total += p.Quantity
	}
	table.Render()

	fmt.Fprintf(&buf, "\nRecords: %d  Total quantity: %d\n", len(purchases), total)
	fmt.Fprintf(&buf, "Generated: %s\n", time.Now().Format(timeLayout))
	return buf.String()
}
