// Package normalize applies a small substitution table to free text before
// date parsing. The assistant's users produce a handful of recurring typos
// and meridiem phrasings that the parser misreads; fixing them here is far
// cheaper than widening the parser grammar.
package normalize

import (
	"regexp"
	"strings"
)

type rule struct {
	pattern *regexp.Regexp
	repl    string
}

var rules = []rule{
	// run-together time shorthand: "lpm" is the dominant mistyping of "1pm"
	{regexp.MustCompile(`\blpm\b`), "1 pm"},
	{regexp.MustCompile(`\bde la mañana\b`), "am"},
	{regexp.MustCompile(`\bde la tarde\b`), "pm"},
	{regexp.MustCompile(`\bde la noche\b`), "pm"},
	{regexp.MustCompile(`\bmedio ?día\b`), "12 pm"},
	{regexp.MustCompile(`\bmedia ?noche\b`), "12 am"},
}

// Apply lowercases the text and runs the substitution table. It always
// returns a string, unchanged when no rule matches.
func Apply(text string) string {
	out := strings.ToLower(strings.TrimSpace(text))
	for _, r := range rules {
		out = r.pattern.ReplaceAllString(out, r.repl)
	}
	return out
}
