// Package entry turns a single line of shorthand into a transaction draft.
//
// Grammar: [description] [amount] [date?] [@category?] [#tag ...]
//
// Examples:
//
//	Coffee 4.50 today @Food #office #friends
//	Salary 50000 2026-02-01 @Income
//	Groceries 1200 @Essentials #weekly
//
// ParseEntry is invoked on every keystroke for preview rendering, so it is
// pure: no I/O, no mutation of its inputs, nothing shared between calls.
package entry

import (
	"strings"

	"github.com/cjaradhye/money-minder/internal/core"
)

// IncomeCategoryName is the category name that flips an entry to INCOME.
// A shorthand rule, not a classifier; single knob so it can become
// configurable without touching the parser.
const IncomeCategoryName = "income"

// ParseEntry parses one shorthand line against the caller's category and tag
// lists. The draft is either fully valid or nil with a rejection the caller
// can render verbatim.
func ParseEntry(input string, categories []core.Category, tags []core.Tag) (*core.TransactionDraft, *ParseError) {
	return ParseEntryAt(input, categories, tags, core.Today())
}

// ParseEntryAt is ParseEntry with an explicit "today", for deterministic use.
func ParseEntryAt(input string, categories []core.Category, tags []core.Tag, today core.Date) (*core.TransactionDraft, *ParseError) {
	working := strings.TrimSpace(input)
	if working == "" {
		return nil, reject(MissingDescription, "input cannot be empty")
	}

	working, tagNames := extractTags(working)
	working, categoryName := extractCategory(working)

	working, date, err := extractDate(working, today)
	if err != nil {
		return nil, err
	}

	working, amount, err := extractAmount(working)
	if err != nil {
		return nil, err
	}

	description := working
	if description == "" {
		return nil, reject(MissingDescription, `description is required, e.g. "Coffee 50 @Food"`)
	}

	draft := &core.TransactionDraft{
		Type:         core.Expense,
		Amount:       amount,
		Description:  description,
		Date:         date,
		CategoryName: categoryName,
		TagNames:     tagNames,
	}

	if categoryName != "" {
		if cat, ok := lookupCategory(categories, categoryName); ok {
			draft.CategoryID = cat.ID
			if strings.EqualFold(cat.Name, IncomeCategoryName) {
				draft.Type = core.Income
			}
		}
	}

	// Unmatched tag names stay visible in TagNames but contribute no IDs;
	// nothing is created implicitly.
	tagIndex := indexTags(tags)
	for _, name := range tagNames {
		if id, ok := tagIndex[name]; ok {
			draft.TagIDs = append(draft.TagIDs, id)
		}
	}

	return draft, nil
}

func lookupCategory(categories []core.Category, name string) (core.Category, bool) {
	folded := strings.ToLower(name)
	for _, c := range categories {
		if strings.ToLower(c.Name) == folded {
			return c, true
		}
	}
	return core.Category{}, false
}

func indexTags(tags []core.Tag) map[string]string {
	idx := make(map[string]string, len(tags))
	for _, t := range tags {
		idx[strings.ToLower(t.Name)] = t.ID
	}
	return idx
}
