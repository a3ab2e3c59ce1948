package entry

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cjaradhye/money-minder/internal/core"
)

// The grammar is an ordered strip pipeline: each step reads tokens out of the
// working string and returns the remainder for the next step. Order matters —
// tags and the category mention go first so "#2024goals" can never be mistaken
// for an amount, and the date goes before the amount so "2026-02-01" never
// contributes numeric tokens.

var (
	tagPattern       = regexp.MustCompile(`#(\w+)`)
	categoryPattern  = regexp.MustCompile(`@(\w+)`)
	todayPattern     = regexp.MustCompile(`(?i)\btoday\b`)
	yesterdayPattern = regexp.MustCompile(`(?i)\byesterday\b`)
	datePattern      = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	amountPattern    = regexp.MustCompile(`-?\b\d+(?:\.\d{1,2})?\b`)
	spacePattern     = regexp.MustCompile(`\s+`)
)

// extractTags pulls every #word token, case-folded, and strips all of them
// from the input.
func extractTags(s string) (rest string, tagNames []string) {
	for _, m := range tagPattern.FindAllStringSubmatch(s, -1) {
		tagNames = append(tagNames, strings.ToLower(m[1]))
	}
	rest = strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
	return rest, tagNames
}

// extractCategory takes the first @word token as the category mention. Any
// further @ tokens are stripped but not interpreted; one category per entry is
// the current behavior, not a validated rule.
func extractCategory(s string) (rest string, name string) {
	if m := categoryPattern.FindStringSubmatch(s); m != nil {
		name = m[1]
	}
	rest = strings.TrimSpace(categoryPattern.ReplaceAllString(s, ""))
	return rest, name
}

// extractDate resolves the date token in priority order: the literal word
// "today", then "yesterday", then a YYYY-MM-DD substring. A matched substring
// that is not a real calendar date is a hard rejection; no token at all
// defaults to today.
func extractDate(s string, today core.Date) (rest string, date core.Date, err *ParseError) {
	if loc := todayPattern.FindStringIndex(s); loc != nil {
		return collapse(s[:loc[0]] + s[loc[1]:]), today, nil
	}
	if loc := yesterdayPattern.FindStringIndex(s); loc != nil {
		return collapse(s[:loc[0]] + s[loc[1]:]), today.AddDays(-1), nil
	}
	if m := datePattern.FindStringSubmatch(s); m != nil {
		parsed, parseErr := core.ParseDate(m[1])
		if parseErr != nil {
			return s, "", reject(InvalidDate,
				fmt.Sprintf("invalid date %q: use YYYY-MM-DD, \"today\", or \"yesterday\"", m[1]))
		}
		return collapse(strings.Replace(s, m[1], "", 1)), parsed, nil
	}
	return s, today, nil
}

// extractAmount takes the last standalone numeric token in reading order as
// the amount. The rightmost-match tie-break is load-bearing: descriptions that
// contain numbers ("Room 204 rent 15000") must keep resolving the same way
// the live preview always has.
func extractAmount(s string) (rest string, amount core.Money, err *ParseError) {
	matches := amountPattern.FindAllString(s, -1)
	if len(matches) == 0 {
		return s, core.Money{}, reject(MissingAmount,
			`amount is required: add a number like "Coffee 50" or "Lunch 125.50"`)
	}
	token := matches[len(matches)-1]
	amount, parseErr := core.ParseMoney(token)
	if parseErr != nil {
		return s, core.Money{}, reject(MissingAmount,
			fmt.Sprintf("amount %q is not a valid number", token))
	}
	if amount.Cents <= 0 {
		return s, core.Money{}, reject(NonPositiveAmount, "amount must be greater than zero")
	}
	at := strings.LastIndex(s, token)
	return collapse(s[:at] + s[at+len(token):]), amount, nil
}

func collapse(s string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}
