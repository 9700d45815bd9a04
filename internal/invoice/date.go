package invoice

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

var directLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	isoDate,
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"January 2 2006",
	"2 Jan 2006",
	"2 January 2006",
	"02-Jan-2006",
	"02-Jan-06",
	"Mon, 02 Jan 2006",
	"Mon Jan 2 2006",
}

type datePattern struct {
	re               *regexp.Regexp
	year, month, day int
}

// datePatterns are tried in order; numbers are the submatch positions
var datePatterns = []datePattern{
	{re: regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`), month: 1, day: 2, year: 3}, // MM/DD/YYYY
	{re: regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`), day: 1, month: 2, year: 3}, // DD/MM/YYYY
	{re: regexp.MustCompile(`(\d{1,2})-(\d{1,2})-(\d{4})`), day: 1, month: 2, year: 3}, // DD-MM-YYYY
	{re: regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`), year: 1, month: 2, day: 3}, // YYYY-MM-DD
}

// NormalizeDate turns free form date text into YYYY-MM-DD.
//
// Slash dates read month first. A pattern only applies when its parts form a
// real calendar date; otherwise the next pattern is tried, so "25/12/2024"
// falls through to day first and yields 2024-12-25. Text that matches no known
// layout, or only matches as an impossible date such as 31/02/2024, is
// returned unchanged.
func NormalizeDate(text string) string {
	s := strings.TrimSpace(text)
	if s == "" {
		return ""
	}

	for _, layout := range directLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(isoDate)
		}
	}

	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		if d, ok := calendarDate(m[p.year], m[p.month], m[p.day]); ok {
			return d
		}
	}

	return text
}

// calendarDate rejects day/month combinations that do not exist, such as 31/02
func calendarDate(year, month, day string) (string, bool) {
	y, _ := strconv.Atoi(year)
	mo, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	if mo < 1 || mo > 12 || d < 1 {
		return "", false
	}
	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || int(t.Month()) != mo {
		return "", false
	}
	return t.Format(isoDate), true
}
