package core

import "testing"

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2026-02-01", true},
		{"2024-02-29", true}, // leap day
		{"2026-02-30", false},
		{"2026-13-01", false},
		{"2026-00-10", false},
		{"26-02-01", false},
		{"2026/02/01", false},
		{"", false},
	}
	for _, tc := range cases {
		_, err := ParseDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("%q expected valid, got %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestDateLexicalOrder(t *testing.T) {
	// The engine relies on string comparison matching chronology.
	if !(Date("2026-01-31") < Date("2026-02-01")) {
		t.Fatal("lexical order must match chronological order")
	}
	if !(Date("2025-12-31") < Date("2026-01-01")) {
		t.Fatal("lexical order must match chronological order across years")
	}
}

func TestDateAddDays(t *testing.T) {
	cases := []struct {
		in   Date
		n    int
		want Date
	}{
		{"2026-03-01", -1, "2026-02-28"},
		{"2024-03-01", -1, "2024-02-29"},
		{"2026-12-31", 1, "2027-01-01"},
		{"2026-06-15", 0, "2026-06-15"},
	}
	for _, tc := range cases {
		if got := tc.in.AddDays(tc.n); got != tc.want {
			t.Fatalf("%s + %d days expected %s, got %s", tc.in, tc.n, tc.want, got)
		}
	}
}

func TestDateAddMonths(t *testing.T) {
	cases := []struct {
		in   Date
		n    int
		want Date
	}{
		{"2026-01-31", 1, "2026-02-28"}, // clamped, not normalized to March
		{"2024-01-31", 1, "2024-02-29"},
		{"2026-01-15", 1, "2026-02-15"},
		{"2026-12-05", 1, "2027-01-05"},
		{"2026-03-31", -1, "2026-02-28"},
	}
	for _, tc := range cases {
		if got := tc.in.AddMonths(tc.n); got != tc.want {
			t.Fatalf("%s + %d months expected %s, got %s", tc.in, tc.n, tc.want, got)
		}
	}
}

func TestDaysUntil(t *testing.T) {
	d := Date("2026-02-01")
	if got := d.DaysUntil("2026-02-11"); got != 10 {
		t.Fatalf("expected 10 days, got %d", got)
	}
	if got := d.DaysUntil("2026-01-31"); got != -1 {
		t.Fatalf("expected -1 days, got %d", got)
	}
	if got := d.DaysUntil(d); got != 0 {
		t.Fatalf("expected 0 days, got %d", got)
	}
}

func TestMonthYearBounds(t *testing.T) {
	cases := []struct {
		month MonthYear
		first Date
		last  Date
	}{
		{"2026-02", "2026-02-01", "2026-02-28"},
		{"2024-02", "2024-02-01", "2024-02-29"},
		{"2026-12", "2026-12-01", "2026-12-31"},
	}
	for _, tc := range cases {
		first, last := tc.month.Bounds()
		if first != tc.first || last != tc.last {
			t.Fatalf("%s expected [%s, %s], got [%s, %s]", tc.month, tc.first, tc.last, first, last)
		}
	}
}

func TestMonthYearContains(t *testing.T) {
	m := MonthYear("2026-02")
	if !m.Contains("2026-02-01") || !m.Contains("2026-02-28") {
		t.Fatal("month must contain its own bounds")
	}
	if m.Contains("2026-01-31") || m.Contains("2026-03-01") {
		t.Fatal("month must not contain neighboring days")
	}
}

func TestDateMonth(t *testing.T) {
	if got := Date("2026-02-15").Month(); got != "2026-02" {
		t.Fatalf("expected 2026-02, got %s", got)
	}
}
