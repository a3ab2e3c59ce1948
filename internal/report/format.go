package report

import (
	"strconv"
	"strings"

	"github.com/cjaradhye/money-minder/internal/core"
)

// FormatINR renders an amount as rupees with Indian digit grouping: the last
// three digits form one group, everything above groups in twos, so 1234567
// reads ₹12,34,567. Whole amounts drop the fraction; otherwise up to two
// digits with trailing zeros trimmed, matching the display format the rest of
// the product uses.
func FormatINR(m core.Money) string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	whole := cents / 100
	frac := cents % 100

	s := sign + "₹" + groupIndian(strconv.FormatInt(whole, 10))
	if frac != 0 {
		f := twoDigits(frac)
		f = strings.TrimRight(f, "0")
		s += "." + f
	}
	return s
}

func groupIndian(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	head := digits[:n-3]
	tail := digits[n-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(groups, ",") + "," + tail
}

func twoDigits(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
