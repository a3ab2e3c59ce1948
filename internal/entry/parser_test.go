package entry

import (
	"reflect"
	"testing"

	"github.com/cjaradhye/money-minder/internal/core"
)

var (
	testToday      = core.Date("2026-02-10")
	testCategories = []core.Category{
		{ID: "cat-food", Name: "Food"},
		{ID: "cat-income", Name: "Income"},
		{ID: "cat-transport", Name: "Transport"},
	}
	testTags = []core.Tag{
		{ID: "tag-office", Name: "office"},
		{ID: "tag-weekly", Name: "weekly"},
	}
)

func parse(t *testing.T, input string) *core.TransactionDraft {
	t.Helper()
	draft, err := ParseEntryAt(input, testCategories, testTags, testToday)
	if err != nil {
		t.Fatalf("%q unexpected rejection: %s (%s)", input, err.Message, err.Reason)
	}
	return draft
}

func expectReject(t *testing.T, input string, reason Reason) {
	t.Helper()
	draft, err := ParseEntryAt(input, testCategories, testTags, testToday)
	if err == nil {
		t.Fatalf("%q expected rejection %s, got draft %+v", input, reason, draft)
	}
	if err.Reason != reason {
		t.Fatalf("%q expected reason %s, got %s (%s)", input, reason, err.Reason, err.Message)
	}
	if draft != nil {
		t.Fatalf("%q rejection must not carry a draft", input)
	}
}

func TestParseEntryFull(t *testing.T) {
	draft := parse(t, "Coffee 4.50 today @Food #office #friends")

	if draft.Description != "Coffee" {
		t.Fatalf("description expected Coffee, got %q", draft.Description)
	}
	if draft.Amount.Cents != 450 {
		t.Fatalf("amount expected 450 cents, got %d", draft.Amount.Cents)
	}
	if draft.Date != testToday {
		t.Fatalf("date expected %s, got %s", testToday, draft.Date)
	}
	if draft.Type != core.Expense {
		t.Fatalf("type expected EXPENSE, got %s", draft.Type)
	}
	if draft.CategoryID != "cat-food" || draft.CategoryName != "Food" {
		t.Fatalf("category expected cat-food/Food, got %q/%q", draft.CategoryID, draft.CategoryName)
	}
	// Both tags stay visible; only the known one contributes an ID.
	if !reflect.DeepEqual(draft.TagNames, []string{"office", "friends"}) {
		t.Fatalf("tag names expected [office friends], got %v", draft.TagNames)
	}
	if !reflect.DeepEqual(draft.TagIDs, []string{"tag-office"}) {
		t.Fatalf("tag ids expected [tag-office], got %v", draft.TagIDs)
	}
}

func TestParseEntryDates(t *testing.T) {
	cases := []struct {
		input string
		want  core.Date
	}{
		{"Coffee 50", testToday},               // no token defaults to today
		{"Coffee 50 today", testToday},
		{"Coffee 50 TODAY", testToday},         // keyword is case-insensitive
		{"Coffee 50 yesterday", "2026-02-09"},
		{"Coffee 50 2026-02-01", "2026-02-01"},
		{"Coffee 50 today 2026-02-01", testToday}, // keyword wins over literal
	}
	for _, tc := range cases {
		if got := parse(t, tc.input).Date; got != tc.want {
			t.Fatalf("%q expected date %s, got %s", tc.input, tc.want, got)
		}
	}

	expectReject(t, "Coffee 50 2026-02-30", InvalidDate)
	expectReject(t, "Coffee 50 2026-13-05", InvalidDate)
}

func TestParseEntryAmounts(t *testing.T) {
	cases := []struct {
		input string
		cents int64
		desc  string
	}{
		{"Coffee 50", 5000, "Coffee"},
		{"Lunch 125.50", 12550, "Lunch"},
		// The last numeric token is the amount; earlier numbers belong to the
		// description.
		{"Room 204 rent 15000", 1500000, "Room 204 rent"},
		{"Coffee 4.5", 450, "Coffee"},
	}
	for _, tc := range cases {
		draft := parse(t, tc.input)
		if draft.Amount.Cents != tc.cents {
			t.Fatalf("%q expected %d cents, got %d", tc.input, tc.cents, draft.Amount.Cents)
		}
		if draft.Description != tc.desc {
			t.Fatalf("%q expected description %q, got %q", tc.input, tc.desc, draft.Description)
		}
	}

	expectReject(t, "Coffee", MissingAmount)
	expectReject(t, "Lunch -5", NonPositiveAmount)
	expectReject(t, "Lunch 0", NonPositiveAmount)
}

func TestParseEntryEmptyInput(t *testing.T) {
	expectReject(t, "", MissingDescription)
	expectReject(t, "   ", MissingDescription)
	// Amount with nothing left for a description.
	expectReject(t, "50", MissingDescription)
	expectReject(t, "4.50 @Food", MissingDescription)
}

func TestParseEntryIncomeCategory(t *testing.T) {
	draft := parse(t, "Salary 50000 @Income")
	if draft.Type != core.Income {
		t.Fatalf("expected INCOME, got %s", draft.Type)
	}

	// Case-insensitive both on the mention and the stored name.
	draft = parse(t, "Salary 50000 @income")
	if draft.Type != core.Income {
		t.Fatalf("expected INCOME for lowercase mention, got %s", draft.Type)
	}

	// An unresolved @mention never flips the type, even if spelled "income"-ish.
	draft = parse(t, "Salary 50000 @Incomes")
	if draft.Type != core.Expense {
		t.Fatalf("expected EXPENSE for unresolved category, got %s", draft.Type)
	}
	if draft.CategoryID != "" || draft.CategoryName != "Incomes" {
		t.Fatalf("unresolved mention should keep name only, got %q/%q", draft.CategoryID, draft.CategoryName)
	}
}

func TestParseEntryCategoryResolution(t *testing.T) {
	draft := parse(t, "Bus 25 @transport")
	if draft.CategoryID != "cat-transport" {
		t.Fatalf("expected case-insensitive match, got %q", draft.CategoryID)
	}

	// Only the first mention is interpreted; the rest are stripped.
	draft = parse(t, "Bus 25 @Transport @Food")
	if draft.CategoryID != "cat-transport" || draft.CategoryName != "Transport" {
		t.Fatalf("expected first mention to win, got %q/%q", draft.CategoryID, draft.CategoryName)
	}
	if draft.Description != "Bus" {
		t.Fatalf("extra mentions must not leak into the description, got %q", draft.Description)
	}
}

func TestParseEntryTagsNeverNumbers(t *testing.T) {
	// A numeric-looking tag must never be read as the amount.
	draft := parse(t, "Gym 1200 #2024goals")
	if draft.Amount.Cents != 120000 {
		t.Fatalf("expected 120000 cents, got %d", draft.Amount.Cents)
	}
	if !reflect.DeepEqual(draft.TagNames, []string{"2024goals"}) {
		t.Fatalf("expected tag 2024goals, got %v", draft.TagNames)
	}
}

func TestParseEntryIsPure(t *testing.T) {
	categories := []core.Category{{ID: "c1", Name: "Food"}}
	tags := []core.Tag{{ID: "t1", Name: "office"}}
	input := "Coffee 4.50 @Food #office"

	first, err := ParseEntryAt(input, categories, tags, testToday)
	if err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
	second, err := ParseEntryAt(input, categories, tags, testToday)
	if err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same input must parse identically: %+v vs %+v", first, second)
	}
}
