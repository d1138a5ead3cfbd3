package src

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var blockElements = map[atom.Atom]bool{
	atom.P:   true,
	atom.Div: true,
	atom.Br:  true,
	atom.Li:  true,
	atom.Ul:  true,
	atom.Ol:  true,
	atom.Pre: true,
	atom.H1:  true,
	atom.H2:  true,
	atom.H3:  true,
	atom.H4:  true,
}

// FlattenHTML converts a sanitized fragment to plain terminal text: tags
// are dropped, block elements break lines. Input is expected to already be
// sanitized; on parse failure the fragment is returned as-is since a
// terminal renders markup inertly anyway.
func FlattenHTML(fragment string) string {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return fragment
	}

	var b strings.Builder
	for _, n := range nodes {
		flattenNode(&b, n)
	}
	return strings.Trim(b.String(), "\n")
}

func flattenNode(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
	case html.ElementNode:
		if n.DataAtom == atom.Li {
			b.WriteString("• ")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		flattenNode(b, c)
	}
	if n.Type == html.ElementNode && blockElements[n.DataAtom] {
		b.WriteByte('\n')
	}
}
