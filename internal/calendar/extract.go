package calendar

import (
	"regexp"
	"strings"
)

// Keywords is the closed vocabulary of presentation hints recognized in
// event descriptions.
var Keywords = []string{"Sedge", "Wellow", "In Pantry"}

var urlRegexp = regexp.MustCompile(`https?://\S+`)

// ExtractKeywords returns the subset of the known vocabulary present in the
// description, in vocabulary order.
func ExtractKeywords(description string) []string {
	var found []string
	for _, kw := range Keywords {
		if strings.Contains(description, kw) {
			found = append(found, kw)
		}
	}
	return found
}

// ExtractURL returns the first http(s) token in the description, up to the
// next whitespace, or "" when there is none.
func ExtractURL(description string) string {
	return urlRegexp.FindString(description)
}
