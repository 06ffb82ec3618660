// Package htmltext extracts readable text from HTML input so reviews
// pasted from web pages can be classified.
package htmltext

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/cognicore/sentiment/pkg/sentiment/internalerr"
)

// Input formats accepted by Normalize.
const (
	FormatText = "text"
	FormatHTML = "html"
)

// Normalize returns the plain text for input in the given format. An
// empty format means plain text.
func Normalize(input, format string) (string, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return input, nil
	case FormatHTML:
		return Extract(input), nil
	}
	return "", fmt.Errorf("%w: unknown format %q", internalerr.ErrInvalidInput, format)
}

// Extract returns the visible text of an HTML fragment with text nodes
// separated by single spaces. Script, style and template contents are
// skipped. Input that fails to parse is returned unchanged.
func Extract(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Template, atom.Head:
				return
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
