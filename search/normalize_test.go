package search

import (
	"reflect"
	"testing"
)

func TestNormalize_PassThrough(t *testing.T) {
	cq := Normalize("  Coffee Tasting ")
	if cq.Raw != "coffee tasting" {
		t.Fatalf("raw %q", cq.Raw)
	}
	if !reflect.DeepEqual(cq.Terms, []string{"coffee tasting"}) {
		t.Fatalf("terms %v", cq.Terms)
	}
}

func TestNormalize_Dates(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"october", "10"},
		{"October", "10"},
		{"oct", "10"},
		{"december 2026", "12"},          // single word rule needs a day too
		{"december 5", "-12-05"},
		{"5 december", "-12-05"},
		{"december 5 2026", "2026-12-05"},
		{"2026 december 5", "2026-12-05"},
		{"ma", "03"},                     // first prefix match wins: March, not May
		{"may", "05"},
		{"december 40", "12"},            // 40 is neither a day nor a year
		{"december 12", "-12-12"},        // day equal to the month digits still counts
		{"october 10", "-10-10"},
		{"may 05", "-05-05"},
		{"pizza night", "pizza night"},
	}
	for _, c := range cases {
		got := dateQuery(Normalize(c.in).Raw)
		if got != c.want {
			t.Errorf("dateQuery(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalize_YearFloor(t *testing.T) {
	// a number below the floor is a day when in range, otherwise ignored
	if got := dateQuery("december 2024"); got != "12" {
		t.Fatalf("pre-floor year treated as year: %q", got)
	}
	if got := dateQuery("december 2025 5"); got != "2025-12-05" {
		t.Fatalf("floor year: %q", got)
	}
}

func TestNormalize_Times(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"1:30pm", []string{"13:30"}},
		{"1:30 pm", []string{"13:30"}},
		{"9:05am", []string{"09:05"}},
		{"13:30", []string{"13:30", "01:30"}},
		{"1:30", []string{"01:30", "13:30"}},
		{"12:00", []string{"12:00"}}, // noon has no twin
		{"99:99", nil},
		{"no colon here", nil},
	}
	for _, c := range cases {
		got := timeQueries(Normalize(c.in).Raw)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("timeQueries(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNormalize_TimeWinsAfterDateRewrite(t *testing.T) {
	// the full pipeline: a time query produces both conventions as terms
	cq := Normalize("13:30")
	if !reflect.DeepEqual(cq.Terms, []string{"13:30", "01:30"}) {
		t.Fatalf("terms %v", cq.Terms)
	}
}
