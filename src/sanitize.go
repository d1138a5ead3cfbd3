package src

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Elements removed together with their entire subtree.
var droppedElements = map[string]bool{
	"script": true,
	"style":  true,
	"iframe": true,
	"object": true,
	"embed":  true,
}

// Sanitize strips unsafe markup from an HTML fragment before display.
// It parses the fragment into a node tree, drops the elements above,
// removes on* event-handler attributes, style attributes, and href/src
// values that start with javascript:, then serializes what remains.
// If parsing or serialization fails the fully escaped original is returned
// instead, so raw markup is never rendered. Only content is ever removed,
// which makes Sanitize idempotent.
func Sanitize(fragment string) string {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return html.EscapeString(fragment)
	}

	var b strings.Builder
	for _, n := range nodes {
		if isDroppedElement(n) {
			continue
		}
		scrubTree(n)
		if err := html.Render(&b, n); err != nil {
			return html.EscapeString(fragment)
		}
	}
	return b.String()
}

func isDroppedElement(n *html.Node) bool {
	return n.Type == html.ElementNode && droppedElements[strings.ToLower(n.Data)]
}

func scrubTree(n *html.Node) {
	if n.Type == html.ElementNode {
		n.Attr = scrubAttrs(n.Attr)
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if isDroppedElement(c) {
			n.RemoveChild(c)
		} else {
			scrubTree(c)
		}
		c = next
	}
}

func scrubAttrs(attrs []html.Attribute) []html.Attribute {
	kept := attrs[:0]
	for _, a := range attrs {
		key := strings.ToLower(a.Key)
		if strings.HasPrefix(key, "on") || key == "style" {
			continue
		}
		if key == "href" || key == "src" {
			val := strings.ToLower(strings.TrimSpace(a.Val))
			if strings.HasPrefix(val, "javascript:") {
				continue
			}
		}
		kept = append(kept, a)
	}
	return kept
}
