// ABOUTME: Locale-aware money and date formatting shared by every view
// ABOUTME: Groups digits the way the configured locale does and labels near dates in words
package viz

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	DefaultLocale   = "pl-PL"
	DefaultCurrency = "zł"
)

// Formatter renders amounts with locale digit grouping and a currency suffix.
type Formatter struct {
	printer  *message.Printer
	currency string
}

// NewFormatter builds a formatter for a BCP 47 locale. An unparseable locale
// falls back to Polish.
func NewFormatter(locale, currency string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Polish
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Formatter{printer: message.NewPrinter(tag), currency: currency}
}

// Money formats a value like "350 000 zł", keeping up to two fraction digits.
func (f *Formatter) Money(v decimal.Decimal) string {
	return f.Number(v) + " " + f.currency
}

// Number formats a value with locale grouping and no currency.
func (f *Formatter) Number(v decimal.Decimal) string {
	return f.printer.Sprint(number.Decimal(v.Round(2).InexactFloat64(), number.MaxFractionDigits(2)))
}

// Compact formats a value in thousands, like "350K".
func (f *Formatter) Compact(v decimal.Decimal) string {
	k := v.Div(decimal.NewFromInt(1000)).Round(0)
	return f.printer.Sprint(number.Decimal(k.IntPart())) + "K"
}

// DateLabel names a day relative to now: "Today", "Tomorrow", or dd.MM.yyyy.
func DateLabel(t, now time.Time) string {
	t = t.In(now.Location())
	day := truncateDay(t)
	today := truncateDay(now)

	switch {
	case day.Equal(today):
		return "Today"
	case day.Equal(today.AddDate(0, 0, 1)):
		return "Tomorrow"
	default:
		return t.Format("02.01.2006")
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}

func bar(count, max, width int) string {
	if max <= 0 {
		max = 1
	}
	n := (count * width) / max
	if n > width {
		n = width
	}
	return strings.Repeat("█", n) + strings.Repeat("░", width-n)
}
