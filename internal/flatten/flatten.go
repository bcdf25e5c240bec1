// Package flatten reduces HTML fragments to plain text and offers
// best-effort ASCII transliteration of the result.
package flatten

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Engine selects the HTML flattening implementation.
type Engine string

const (
	// EngineTree parses the fragment into a node tree and walks it.
	EngineTree Engine = "tree"
	// EngineTokenizer streams tokens without building a tree.
	EngineTokenizer Engine = "tokenizer"
)

// ParseEngine validates an engine name from a flag or query parameter.
func ParseEngine(s string) (Engine, error) {
	switch Engine(s) {
	case "", EngineTree:
		return EngineTree, nil
	case EngineTokenizer:
		return EngineTokenizer, nil
	}
	return "", fmt.Errorf("unknown flatten engine %q", s)
}

// Text reduces markup to its concatenated text content, trimmed. Script
// and style bodies are skipped. Whitespace inside text nodes is kept so
// that line-oriented delimiter patterns still apply to the result.
func Text(markup string, engine Engine) (string, error) {
	switch engine {
	case "", EngineTree:
		return treeText(markup)
	case EngineTokenizer:
		return tokenizerText(markup)
	}
	return "", fmt.Errorf("unknown flatten engine %q", engine)
}

func treeText(markup string) (string, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style":
				return
			}
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.TrimSpace(buf.String()), nil
}

func tokenizerText(markup string) (string, error) {
	z := html.NewTokenizer(strings.NewReader(markup))
	var buf strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			// The tokenizer only fails with io errors; a string reader
			// terminates with EOF.
			return strings.TrimSpace(buf.String()), nil
		case html.StartTagToken:
			name, _ := z.TagName()
			if tag := string(name); tag == "script" || tag == "style" {
				skip++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if tag := string(name); (tag == "script" || tag == "style") && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				buf.WriteString(string(z.Text()))
			}
		}
	}
}

var asciiTransform = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
	runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
)

// ASCII transliterates s to an ASCII-safe approximation: combining marks
// are stripped after decomposition and any rune still outside ASCII is
// dropped. On a transform error the input is returned unchanged.
func ASCII(s string) string {
	out, _, err := transform.String(asciiTransform, s)
	if err != nil {
		return s
	}
	return out
}
