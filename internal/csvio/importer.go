// Package csvio implements bulk transaction import and export in the
// canonical description,amount,type,date,category,notes format.
//
// Rows validate independently: one bad row never blocks its siblings, and the
// caller decides what to do with a partial result. Row numbers are 1-based and
// include the header, so the first data row reports as row 2.
package csvio

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/cjaradhye/money-minder/internal/core"
	"github.com/cjaradhye/money-minder/internal/entry"
)

// RequiredHeaders must all be present (case-insensitive, any order) or the
// import aborts with a single row-0 error.
var RequiredHeaders = []string{"description", "amount", "type", "date"}

// rowValidationConcurrency bounds the fan-out of per-row validation. Rows are
// independent, so they validate in parallel; output order is restored after.
const rowValidationConcurrency = 8

var csvDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type RowError struct {
	Row     int          `json:"row"`
	Reason  entry.Reason `json:"reason"`
	Message string       `json:"message"`
}

// ImportResult carries the accepted drafts and the per-row rejections. A mix
// of both is a partial success; the caller chooses whether to proceed with
// the accepted subset.
type ImportResult struct {
	Accepted []core.TransactionDraft `json:"accepted"`
	Errors   []RowError              `json:"errors,omitempty"`
}

// Failed reports whether the import produced nothing usable: zero accepted
// rows with at least one error.
func (r ImportResult) Failed() bool {
	return len(r.Accepted) == 0 && len(r.Errors) > 0
}

// Partial reports a mixed outcome.
func (r ImportResult) Partial() bool {
	return len(r.Accepted) > 0 && len(r.Errors) > 0
}

// Parse tokenizes and validates a whole CSV document against the caller's
// category list. Unresolved category names are not errors; those rows import
// as uncategorized.
func Parse(text string, categories []core.Category) ImportResult {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	if len(lines) < 2 {
		return ImportResult{Errors: []RowError{{
			Row:     0,
			Reason:  entry.RowParseFailure,
			Message: "CSV must have at least a header and one data row",
		}}}
	}

	headers := splitLine(lines[0])
	for i, h := range headers {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}
	if missing := missingHeaders(headers); len(missing) > 0 {
		return ImportResult{Errors: []RowError{{
			Row:     0,
			Reason:  entry.MissingRequiredHeaders,
			Message: "CSV must have headers: " + strings.Join(RequiredHeaders, ", "),
		}}}
	}

	index := newCategoryIndex(categories)

	type outcome struct {
		draft *core.TransactionDraft
		err   *RowError
	}

	dataLines := lines[1:]
	outcomes := make([]outcome, len(dataLines))

	g := new(errgroup.Group)
	g.SetLimit(rowValidationConcurrency)
	for i, line := range dataLines {
		if strings.TrimSpace(line) == "" {
			continue // blank lines are skipped, not errors
		}
		g.Go(func() error {
			row := i + 2 // 1-based, header is row 1
			draft, rowErr := parseRow(line, headers, row, index)
			outcomes[i] = outcome{draft: draft, err: rowErr}
			return nil
		})
	}
	_ = g.Wait() // workers only record outcomes, they never fail the group

	var result ImportResult
	for _, o := range outcomes {
		switch {
		case o.err != nil:
			result.Errors = append(result.Errors, *o.err)
		case o.draft != nil:
			result.Accepted = append(result.Accepted, *o.draft)
		}
	}
	sort.Slice(result.Errors, func(i, j int) bool {
		return result.Errors[i].Row < result.Errors[j].Row
	})
	return result
}

func missingHeaders(headers []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	var missing []string
	for _, required := range RequiredHeaders {
		if !present[required] {
			missing = append(missing, required)
		}
	}
	return missing
}

func parseRow(line string, headers []string, row int, index categoryIndex) (*core.TransactionDraft, *RowError) {
	values := splitLine(line)
	fields := make(map[string]string, len(headers))
	for i, h := range headers {
		if i < len(values) {
			fields[h] = strings.TrimSpace(values[i])
		} else {
			fields[h] = ""
		}
	}

	fail := func(reason entry.Reason, message string) (*core.TransactionDraft, *RowError) {
		return nil, &RowError{Row: row, Reason: reason, Message: message}
	}

	description := fields["description"]
	if description == "" {
		return fail(entry.MissingDescription, "Description is required")
	}

	amount, err := core.ParseMoney(fields["amount"])
	if err != nil {
		return fail(entry.MissingAmount, "Amount must be a positive number")
	}
	if amount.Cents <= 0 {
		return fail(entry.NonPositiveAmount, "Amount must be a positive number")
	}

	txType := core.TransactionType(strings.ToUpper(fields["type"]))
	if !txType.Valid() {
		return fail(entry.InvalidType, fmt.Sprintf("Type must be %s or %s", core.Expense, core.Income))
	}

	dateField := fields["date"]
	if !csvDatePattern.MatchString(dateField) {
		return fail(entry.InvalidDate, "Date must be in YYYY-MM-DD format")
	}
	date, err := core.ParseDate(dateField)
	if err != nil {
		return fail(entry.InvalidDate, "Date must be in YYYY-MM-DD format")
	}

	draft := &core.TransactionDraft{
		Type:        txType,
		Amount:      amount,
		Description: description,
		Date:        date,
		Notes:       fields["notes"],
	}
	if name := fields["category"]; name != "" {
		draft.CategoryName = name
		if id, ok := index.lookup(name); ok {
			draft.CategoryID = id
		}
	}
	return draft, nil
}

// categoryIndex is a normalized-name lookup built once per import so category
// resolution stays O(1) per row.
type categoryIndex map[string]string

func newCategoryIndex(categories []core.Category) categoryIndex {
	idx := make(categoryIndex, len(categories))
	for _, c := range categories {
		idx[strings.ToLower(c.Name)] = c.ID
	}
	return idx
}

func (idx categoryIndex) lookup(name string) (string, bool) {
	id, ok := idx[strings.ToLower(name)]
	return id, ok
}
