package filter

import (
	"strings"
	"time"

	"github.com/prismaasset360/web/internal/models/common"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Spanish)

// Layouts the backend uses for dates and timestamps.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatCurrency renders an amount with Spanish digit grouping, e.g. "$ 1.234.567,89".
func FormatCurrency(amount float64) string {
	return printer.Sprintf("$ %.2f", amount)
}

// FormatNumber renders a number with Spanish digit grouping and no decimals.
func FormatNumber(n float64) string {
	return printer.Sprintf("%.0f", n)
}

// FormatDate renders an ISO date or timestamp as dd/mm/yyyy. Input that isn't a known date layout is returned as is.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02/01/2006")
		}
	}

	return s
}

// FormatDateTime renders an ISO timestamp as dd/mm/yyyy hh:mm. Plain dates get no time part.
func FormatDateTime(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts[:4] {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02/01/2006 15:04")
		}
	}

	return FormatDate(s)
}

// Display renders the value at the dotted path for a table cell. Related entities show their name and booleans
// show as "Sí"/"No".
func Display(rec common.Record, path string) string {
	v, ok := rec.Lookup(path)
	if !ok || v == nil {
		return ""
	}

	switch t := v.(type) {
	case bool:
		if t {
			return "Sí"
		}
		return "No"
	case map[string]interface{}:
		related := common.Record(t)
		for _, key := range []string{"nombre", "name", "codigo"} {
			if s := related.String(key); s != "" {
				return s
			}
		}
		return related.ID().String()
	default:
		return rec.String(path)
	}
}
