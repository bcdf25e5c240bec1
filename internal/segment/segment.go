// Package segment splits free text into ordered mappings keyed by
// delimiter-pattern matches.
package segment

import (
	"regexp"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Mapping is an insertion-ordered mapping from delimiter match text
// (colon-stripped, whitespace-trimmed) to the trimmed text segment that
// follows the match.
type Mapping = *orderedmap.OrderedMap[string, string]

// Block is one delimiter match paired with the text that follows it.
// Unlike Mapping, a slice of Blocks keeps duplicates and makes positional
// pairing explicit.
type Block struct {
	Header string // matched delimiter text, colon-stripped and trimmed
	Body   string // trimmed text between this match and the next
}

// Split finds all non-overlapping matches of re in text, in appearance
// order, and maps each match to the text between it and the next match.
// Text before the first match is discarded. Zero matches yield an empty
// mapping; callers decide whether an absent section is fatal.
func Split(re *regexp.Regexp, text string) Mapping {
	m := orderedmap.New[string, string]()
	for _, b := range SplitOrdered(re, text) {
		m.Set(b.Header, b.Body)
	}
	return m
}

// SplitOrdered is Split without the key collapse: every match produces a
// Block, duplicates included, in document order.
func SplitOrdered(re *regexp.Regexp, text string) []Block {
	locs := re.FindAllStringIndex(text, -1)
	blocks := make([]Block, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		blocks = append(blocks, Block{
			Header: cleanKey(text[loc[0]:loc[1]]),
			Body:   strings.TrimSpace(text[loc[1]:end]),
		})
	}
	return blocks
}

// Matches returns every match of re in text, trimmed, in document order.
func Matches(re *regexp.Regexp, text string) []string {
	found := re.FindAllString(text, -1)
	out := make([]string, 0, len(found))
	for _, f := range found {
		out = append(out, strings.TrimSpace(f))
	}
	return out
}

func cleanKey(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, ":", ""))
}
