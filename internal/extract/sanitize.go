package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	filenameForbidden = regexp.MustCompile(`[\\/*?:"<>|]`)
	filenameBreaks    = regexp.MustCompile(`[\r\n\t]+`)
	trailingCopy      = regexp.MustCompile(`_\d+$`)
	notCurrency       = regexp.MustCompile(`[^$\d,.]`)
	dollarAmount      = regexp.MustCompile(`\$\d{1,3}(?:,\d{3})*(?:\.\d{2})?`)
)

// SanitizeFilename removes characters that are not allowed in file names and
// turns each run of line breaks or tabs into a single underscore.
func SanitizeFilename(s string) string {
	s = filenameForbidden.ReplaceAllString(s, "")
	s = filenameBreaks.ReplaceAllString(s, "_")
	return strings.TrimSpace(s)
}

// CleanContractOrOrder strips a trailing "_<digits>" suffix, as in
// "N0024418D0003_1".
func CleanContractOrOrder(s string) string {
	return trailingCopy.ReplaceAllString(s, "")
}

// CleanCost keeps only the characters of a dollar amount: '$', digits, ','
// and '.'.
func CleanCost(s string) string {
	if s == "" {
		return ""
	}
	return notCurrency.ReplaceAllString(s, "")
}

// SanitizeCINValue picks the unit price out of the amounts printed next to a
// content id: the middle of three amounts or the first of two. Any other
// count returns s unchanged.
func SanitizeCINValue(s string) string {
	prices := dollarAmount.FindAllString(s, -1)
	switch len(prices) {
	case 3:
		return prices[1]
	case 2:
		return prices[0]
	default:
		return s
	}
}

// FormatCurrency normalizes an amount such as "$1,000" to "$1,000.00". Text
// that does not parse as a number is returned unchanged.
func FormatCurrency(s string) string {
	d, err := parseAmount(s)
	if err != nil {
		return s
	}
	return formatDecimal(d)
}

func parseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))
	return decimal.NewFromString(strings.TrimSpace(cleaned))
}

// formatDecimal renders d as $#,##0.00 with a leading minus when negative.
func formatDecimal(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var sb strings.Builder
	if d.IsNegative() && !d.Round(2).IsZero() {
		sb.WriteByte('-')
	}
	sb.WriteByte('$')
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	sb.WriteByte('.')
	sb.WriteString(frac)
	return sb.String()
}
