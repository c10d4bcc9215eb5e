package calendar

import (
	"slices"
	"testing"
)

func TestExtractKeywords(t *testing.T) {
	cases := []struct {
		description string
		want        []string
	}{
		{"", nil},
		{"Tacos tonight", nil},
		{"Sedge is cooking", []string{"Sedge"}},
		{"Wellow picked this, it's In Pantry", []string{"Wellow", "In Pantry"}},
		{"In Pantry and Sedge and Wellow", []string{"Sedge", "Wellow", "In Pantry"}},
	}
	for _, c := range cases {
		got := ExtractKeywords(c.description)
		if !slices.Equal(got, c.want) {
			t.Errorf("ExtractKeywords(%q) = %v, want %v", c.description, got, c.want)
		}
	}
}

func TestExtractURL(t *testing.T) {
	cases := []struct {
		description string
		want        string
	}{
		{"", ""},
		{"no links here", ""},
		{"see https://example.com/recipe for details", "https://example.com/recipe"},
		{"http://a.test first, https://b.test second", "http://a.test"},
		{"trailing https://example.com/x?id=abc123", "https://example.com/x?id=abc123"},
	}
	for _, c := range cases {
		if got := ExtractURL(c.description); got != c.want {
			t.Errorf("ExtractURL(%q) = %q, want %q", c.description, got, c.want)
		}
	}
}
