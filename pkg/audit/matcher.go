// Package audit implements the usage auditor: it scans a corpus of content
// items to count and excerpt keyword occurrences for reporting.
//
// Unlike the live transformer, the auditor fully parses each item's markup
// and matches only against text nodes whose nearest block ancestor is a
// paragraph or list item, discarding any node with an anchor ancestor. The
// two matching strategies are intentionally different: the transformer's
// boundary guard is a cheap character-level heuristic for render-time safety,
// while the auditor trades granularity (a whole text node is dropped when any
// ancestor is an anchor) for parse-accurate counting. Do not unify them.
package audit

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/linkweaver/linkweaver-oss/pkg/domain"
	"github.com/linkweaver/linkweaver-oss/pkg/rules"
)

// TextMatch couples one counted keyword occurrence with the text node value
// it was found in, so an excerpt can be built around it.
type TextMatch struct {
	NodeText string
	Start    int
	End      int
}

// blockTags are the elements treated as block-level when locating the
// nearest block ancestor of a text node. Only "p" and "li" qualify a node
// for matching; the rest exist so headings, scripts and other structural
// text are excluded.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"body": true, "dd": true, "div": true, "dl": true, "dt": true,
	"fieldset": true, "figcaption": true, "figure": true, "footer": true,
	"form": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "head": true, "header": true, "html": true, "li": true,
	"main": true, "nav": true, "ol": true, "p": true, "pre": true,
	"script": true, "section": true, "style": true, "table": true,
	"tbody": true, "td": true, "tfoot": true, "th": true, "thead": true,
	"title": true, "tr": true, "ul": true,
}

// FindMatches parses the item's markup leniently and returns keyword matches
// in body-copy text nodes, in document order. The rule's link limit is
// enforced as a per-item cap shared across all of the item's surviving
// nodes; scanning stops once the cap is reached. A markup parse failure
// yields zero matches rather than an error so one bad item never aborts an
// audit of the rest.
func FindMatches(item domain.ContentItem, rule domain.LinkRule) ([]TextMatch, error) {
	expr, err := rules.CompilePattern(rule)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(strings.NewReader(item.RawMarkup))
	if err != nil {
		// Lenient by contract: parse diagnostics are discarded.
		return nil, nil
	}

	var matches []TextMatch
	budget := rule.LinkLimit

	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.TextNode && candidateNode(n) {
			for _, loc := range expr.FindAllStringIndex(n.Data, -1) {
				matches = append(matches, TextMatch{
					NodeText: n.Data,
					Start:    loc[0],
					End:      loc[1],
				})
				if budget > 0 && len(matches) >= budget {
					return false
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if !walk(child) {
				return false
			}
		}
		return true
	}
	walk(doc)

	return matches, nil
}

// candidateNode reports whether a text node belongs to body copy: its
// nearest block ancestor is a paragraph or list item, and no ancestor at any
// depth is an anchor element.
func candidateNode(n *html.Node) bool {
	nearestBlock := ""
	for parent := n.Parent; parent != nil; parent = parent.Parent {
		if parent.Type != html.ElementNode {
			continue
		}
		if parent.Data == "a" {
			return false
		}
		if nearestBlock == "" && blockTags[parent.Data] {
			nearestBlock = parent.Data
			// Keep walking: an anchor ancestor above the block still
			// disqualifies the node.
		}
	}
	return nearestBlock == "p" || nearestBlock == "li"
}
