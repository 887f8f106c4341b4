package reports

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV renders a summary as a title row followed by the SUMMARY,
// PROJECTS and EMPLOYEES sections, each preceded by a blank row. Amounts
// keep their exact decimal form. Rows end in CRLF as RFC 4180 asks.
func WriteCSV(w io.Writer, s *Summary) error {
	writer := csv.NewWriter(w)
	writer.UseCRLF = true

	rows := [][]string{
		{"Profit Desk Export", fmt.Sprintf("Month: %s", s.Month)},
		{},
		{"SUMMARY"},
		{"Total Profit", s.TotalProfit.String()},
		{},
		{"PROJECTS"},
		{"Name", "Hours", "Cost", "Revenue", "Margin", "Status"},
	}
	for _, p := range s.Projects {
		rows = append(rows, []string{
			p.Name,
			p.Hours.String(),
			p.Cost.String(),
			p.Revenue.String(),
			p.Margin.String(),
			string(p.Status),
		})
	}

	rows = append(rows,
		[]string{},
		[]string{"EMPLOYEES"},
		[]string{"Name", "Monthly Cost", "Revenue Attributed", "Margin", "Status"},
	)
	for _, e := range s.Employees {
		rows = append(rows, []string{
			e.Name,
			e.MonthlyCost.String(),
			e.RevenueAttributed.String(),
			e.Margin.String(),
			string(e.Status),
		})
	}

	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
