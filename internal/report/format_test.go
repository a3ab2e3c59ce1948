package report

import (
	"testing"

	"github.com/cjaradhye/money-minder/internal/core"
)

func TestFormatINR(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "₹0"},
		{100, "₹1"},
		{450, "₹4.5"}, // trailing zero dropped
		{12345, "₹123.45"},
		{100000, "₹1,000"},
		{12345600, "₹1,23,456"},        // Indian grouping: twos above the last three
		{123456700, "₹12,34,567"},
		{10000000000, "₹10,00,00,000"}, // one crore x10
		{105, "₹1.05"},
		{-45000, "-₹450"},
	}
	for _, tc := range cases {
		if got := FormatINR(core.Money{Cents: tc.cents}); got != tc.want {
			t.Fatalf("%d cents expected %q, got %q", tc.cents, tc.want, got)
		}
	}
}
