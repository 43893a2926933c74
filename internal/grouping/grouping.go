// Package grouping orders parsed newspaper pages deterministically and
// partitions them into the year and issue groups consumed by the document
// assembler.
package grouping

import (
	"sort"

	"github.com/mrlokans/newspaper-importer/internal/page"
)

// IssueGroup is the ordered list of pages sharing one issue key.
type IssueGroup struct {
	Key   string
	Pages []page.Descriptor
}

// YearGroup holds all pages of one publication year, partitioned into issue
// groups in first-seen order. One YearGroup yields exactly one persisted
// document.
type YearGroup struct {
	Year   string
	Pages  []page.Descriptor
	Issues []IssueGroup
}

// PageCount returns the number of pages across all issues of the group.
func (g YearGroup) PageCount() int {
	return len(g.Pages)
}

// Sort orders pages chronologically by date; pages sharing a date are
// ordered morning, regular, evening. The sort is stable, so pages equal on
// both keys keep their input order. The input slice is not modified.
func Sort(pages []page.Descriptor) []page.Descriptor {
	sorted := make([]page.Descriptor, len(pages))
	copy(sorted, pages)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		return sorted[i].Edition < sorted[j].Edition
	})

	return sorted
}

// GroupByYear sorts the pages and partitions them by year. Year groups come
// out in chronological order (the order years are first seen in the sorted
// slice), each with its issue partition already built.
func GroupByYear(pages []page.Descriptor) []YearGroup {
	sorted := Sort(pages)

	var years []string
	byYear := make(map[string]*YearGroup)

	for _, p := range sorted {
		g, ok := byYear[p.Year]
		if !ok {
			years = append(years, p.Year)
			g = &YearGroup{Year: p.Year}
			byYear[p.Year] = g
		}
		g.Pages = append(g.Pages, p)
	}

	groups := make([]YearGroup, 0, len(years))
	for _, y := range years {
		g := byYear[y]
		g.Issues = groupByIssue(g.Pages)
		groups = append(groups, *g)
	}

	return groups
}

// groupByIssue partitions already-sorted pages of one year by issue key,
// preserving the first-seen order of keys.
func groupByIssue(pages []page.Descriptor) []IssueGroup {
	var keys []string
	byKey := make(map[string]*IssueGroup)

	for _, p := range pages {
		key := p.IssueKey()
		g, ok := byKey[key]
		if !ok {
			keys = append(keys, key)
			g = &IssueGroup{Key: key}
			byKey[key] = g
		}
		g.Pages = append(g.Pages, p)
	}

	groups := make([]IssueGroup, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, *byKey[k])
	}

	return groups
}

// TotalPages sums the page counts of all year groups.
func TotalPages(groups []YearGroup) int {
	total := 0
	for _, g := range groups {
		total += len(g.Pages)
	}
	return total
}
