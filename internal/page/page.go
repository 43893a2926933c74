package page

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Edition classifies a page as belonging to the morning, regular or evening
// issue of its date. The numeric values double as the issue-key suffix and
// as the sort rank for pages sharing a date (morning < regular < evening).
type Edition int

const (
	EditionMorning Edition = 0
	EditionRegular Edition = 1
	EditionEvening Edition = 2
)

func (e Edition) String() string {
	switch e {
	case EditionMorning:
		return "morning"
	case EditionEvening:
		return "evening"
	default:
		return "regular"
	}
}

var (
	// Matches a date like 1925-03-01, 1925_03_01 or 1925.03.01 anywhere in
	// a file name. The separator set is deliberately permissive: any run of
	// non-word characters or underscores.
	datePattern = regexp.MustCompile(`\d{4}[\W_]+\d{2}[\W_]+\d{2}`)

	separatorPattern = regexp.MustCompile(`[\W_]+`)

	pageNumberPattern = regexp.MustCompile(`^\d{3}$`)
)

// Descriptor is the parsed representation of one scanned newspaper page
// file. It is created once at parse time and never mutated. Fields may be
// blank when the file name does not yield them; validity is judged by
// Validate, not by Parse.
type Descriptor struct {
	FilePath string
	FileName string

	// Date is the normalized YYYY-MM-DD publication date, or "" when no
	// date could be extracted from the file name.
	Date  string
	Year  string
	Month string
	Day   string

	// PageNumber is the raw numeric segment after the last underscore
	// before the file extension, e.g. "003".
	PageNumber string

	Edition Edition
}

// Parse turns a file path into a Descriptor. It never fails: unparsable
// parts are left blank and surface later as validation errors.
//
// The page number is taken from the segment between the last underscore and
// the file extension ("1925-03-01_003.tif" -> "003"). This is the canonical
// rule for all import profiles; see DESIGN.md.
//
// A non-blank morningMarker or eveningMarker contained in the file name
// classifies the page as a morning or evening issue; morning wins when both
// match. Everything else is a regular issue.
func Parse(path, morningMarker, eveningMarker string) Descriptor {
	name := filepath.Base(path)

	d := Descriptor{
		FilePath:   path,
		FileName:   name,
		PageNumber: extractPageNumber(name),
		Edition:    EditionRegular,
	}

	if raw := datePattern.FindString(name); raw != "" {
		parts := separatorPattern.Split(raw, -1)
		if len(parts) >= 3 {
			d.Year = parts[0]
			d.Month = parts[1]
			d.Day = parts[2]
			d.Date = d.Year + "-" + d.Month + "-" + d.Day
		}
	}

	if eveningMarker != "" && strings.Contains(name, eveningMarker) {
		d.Edition = EditionEvening
	}
	if morningMarker != "" && strings.Contains(name, morningMarker) {
		d.Edition = EditionMorning
	}

	return d
}

func extractPageNumber(name string) string {
	end := strings.LastIndex(name, ".")
	if end < 0 {
		end = len(name)
	}
	start := strings.LastIndex(name[:end], "_") + 1
	return name[start:end]
}

// IssueKey identifies the issue this page belongs to: the date plus the
// edition ordinal, e.g. "1925-03-01_1". Pages sharing an IssueKey end up
// under the same issue node.
func (d Descriptor) IssueKey() string {
	return d.Date + "_" + strconv.Itoa(int(d.Edition))
}

// PageNumberStripped returns the page number with leading zeros removed,
// for display ("003" -> "3"). Returns the raw value when it is not numeric.
func (d Descriptor) PageNumberStripped() string {
	n, err := strconv.Atoi(d.PageNumber)
	if err != nil {
		return d.PageNumber
	}
	return strconv.Itoa(n)
}

func (d Descriptor) localDate() (time.Time, bool) {
	t, err := time.Parse("2006-01-02", d.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DateFine is the long-form date used by the "datefine" template variable,
// e.g. "01. Mar 1925". Blank when the date is missing or malformed.
func (d Descriptor) DateFine() string {
	t, ok := d.localDate()
	if !ok {
		return ""
	}
	return t.Format("02. Jan 2006")
}

// DateEuropean formats the date as dd.mm.yyyy.
func (d Descriptor) DateEuropean() string {
	if d.Date == "" {
		return ""
	}
	return d.Day + "." + d.Month + "." + d.Year
}
