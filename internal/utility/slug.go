package utility

import (
	"regexp"
	"strconv"
	"strings"
)

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s, turns every run of characters outside [a-z0-9] into a
// single hyphen and trims hyphens from both ends.
//
//	Slugify("Hello, World!") == "hello-world"
func Slugify(s string) string {
	s = nonSlugRun.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}

// SlugCandidate returns base for n == 0 and base-n otherwise.
func SlugCandidate(base string, n int) string {
	if n == 0 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}
