// Package search implements the free-text search bar: a normalizer that
// canonicalizes date and time tokens, a static page keyword table, and an
// aggregator that fans the query out across events, comments, users and
// bookings.
package search

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// months is ordered; a token matches the first month name it is a prefix of,
// so "ma" resolves to March, never May.
var months = []struct {
	name string
	num  string
}{
	{"january", "01"}, {"february", "02"}, {"march", "03"},
	{"april", "04"}, {"may", "05"}, {"june", "06"},
	{"july", "07"}, {"august", "08"}, {"september", "09"},
	{"october", "10"}, {"november", "11"}, {"december", "12"},
}

// Years below this are treated as day-of-month candidates, not years.
const minSearchYear = 2025

// CanonicalQuery is the normalized form of a raw search string.
type CanonicalQuery struct {
	// Raw is the lower-cased, trimmed input, used for page keyword lookups.
	Raw string
	// Terms are the effective query values. Usually one; a time query that
	// parses in both clock conventions yields several.
	Terms []string
}

// Normalize lower-cases and trims the query, then runs date detection
// followed by time detection. Neither step can fail: an unrecognized query
// passes through as its own single term.
func Normalize(raw string) CanonicalQuery {
	q := strings.ToLower(strings.TrimSpace(raw))

	dq := dateQuery(q)
	if terms := timeQueries(dq); len(terms) > 0 {
		return CanonicalQuery{Raw: q, Terms: terms}
	}
	return CanonicalQuery{Raw: q, Terms: []string{dq}}
}

// dateQuery rewrites a spelt-out month (optionally with a day and a year)
// into the digits used inside serialized timestamps: "YYYY-MM-DD" when all
// three are present, "-MM-DD" for month and day, the bare month digits
// otherwise. Queries with no recognizable month come back unchanged.
func dateQuery(q string) string {
	words := strings.Fields(q)

	var month string
	monthIdx := -1
	day, year := 0, 0

	for i, word := range words {
		for _, m := range months {
			if strings.HasPrefix(m.name, word) {
				month = m.num
				monthIdx = i
				break
			}
		}
		// Only the token that named the month is off limits; a numeric day
		// that happens to equal the month digits ("december 12") still counts.
		if len(words) > 1 && i != monthIdx {
			if n, err := strconv.Atoi(word); err == nil {
				if n >= 1 && n <= 31 {
					day = n
				} else if n >= minSearchYear {
					year = n
				}
			}
		}
	}

	if month == "" {
		return q
	}
	switch {
	case day > 0 && year > 0:
		return fmt.Sprintf("%d-%s-%02d", year, month, day)
	case day > 0:
		return fmt.Sprintf("-%s-%02d", month, day)
	default:
		return month
	}
}

// Clock layouts tried in priority order: meridiem forms are definitive, the
// 24-hour form is ambiguous and gets its opposite-convention twin added.
var meridiemLayouts = []string{"3:04pm", "3:04 pm"}

// timeQueries returns every clock interpretation of the query, deduplicated,
// or nil when the query is not a parseable time. Only queries containing a
// colon are considered.
func timeQueries(q string) []string {
	if !strings.Contains(q, ":") {
		return nil
	}

	var out []string
	for _, layout := range meridiemLayouts {
		if t, err := time.Parse(layout, q); err == nil {
			out = append(out, t.Format("15:04"))
		}
	}
	if t, err := time.Parse("15:04", q); err == nil {
		out = append(out, t.Format("15:04"))
		// A bare clock value could be either convention: 13:30 should also
		// match a stored "01:30", and vice versa.
		switch {
		case t.Hour() < 12:
			out = append(out, fmt.Sprintf("%d:%02d", t.Hour()+12, t.Minute()))
		case t.Hour() > 12:
			out = append(out, fmt.Sprintf("%02d:%02d", t.Hour()-12, t.Minute()))
		}
	}
	return dedupStrings(out)
}

func dedupStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
