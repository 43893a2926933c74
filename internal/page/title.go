package page

import (
	"strconv"
	"strings"
	"time"
)

var germanWeekdays = map[time.Weekday]string{
	time.Sunday:    "Sonntag",
	time.Monday:    "Montag",
	time.Tuesday:   "Dienstag",
	time.Wednesday: "Mittwoch",
	time.Thursday:  "Donnerstag",
	time.Friday:    "Freitag",
	time.Saturday:  "Samstag",
}

var germanMonths = map[time.Month]string{
	time.January:   "Januar",
	time.February:  "Februar",
	time.March:     "März",
	time.April:     "April",
	time.May:       "Mai",
	time.June:      "Juni",
	time.July:      "Juli",
	time.August:    "August",
	time.September: "September",
	time.October:   "Oktober",
	time.November:  "November",
	time.December:  "Dezember",
}

// IssueTitle builds the user-facing issue title from a prefix and the fully
// written-out publication date, e.g. "Volksblatt Sonntag, 1. März 1925".
// Supported languages are "de" (default) and "en"; anything else falls back
// to English. A page without a valid date yields the trimmed prefix alone.
func (d Descriptor) IssueTitle(lang, prefix string) string {
	t, ok := d.localDate()
	if !ok {
		return strings.TrimSpace(prefix)
	}
	return strings.TrimSpace(prefix) + " " + formatFullDate(t, lang)
}

func formatFullDate(t time.Time, lang string) string {
	if strings.EqualFold(strings.TrimSpace(lang), "de") {
		return germanWeekdays[t.Weekday()] + ", " + strconv.Itoa(t.Day()) + ". " + germanMonths[t.Month()] + " " + strconv.Itoa(t.Year())
	}
	return t.Format("Monday, January 2, 2006")
}
