package csvio

import (
	"strings"

	"github.com/cjaradhye/money-minder/internal/core"
)

// SampleHeaders is the canonical column order of generated documents.
// Importing is order-insensitive; this is only the order we emit.
var SampleHeaders = []string{"description", "amount", "type", "date", "category", "notes"}

// GenerateSample emits a small document in the canonical format, dated
// relative to today. It must round-trip: feeding it back through Parse yields
// zero errors, which the tests pin down.
func GenerateSample() string {
	return GenerateSampleAt(core.Today())
}

// GenerateSampleAt is GenerateSample with an explicit base date.
func GenerateSampleAt(today core.Date) string {
	rows := [][]string{
		SampleHeaders,
		{"Coffee", "4.50", "EXPENSE", string(today), "Food", "Morning coffee"},
		{"Grocery Shopping", "125.00", "EXPENSE", string(today.AddDays(-1)), "Groceries", "Weekly groceries"},
		{"Freelance Project", "500.00", "INCOME", string(today.AddDays(-2)), "Income", "Client payment"},
		{"Gas", "45.75", "EXPENSE", string(today.AddDays(-3)), "Transport", "Monthly fuel"},
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		quoted := make([]string, len(row))
		for i, field := range row {
			quoted[i] = quoteField(field)
		}
		lines = append(lines, strings.Join(quoted, ","))
	}
	return strings.Join(lines, "\n")
}

// SampleRowCount is the number of data rows GenerateSample produces.
const SampleRowCount = 4
