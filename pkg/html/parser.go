package html

import (
	"fmt"
	"strings"

	xhtml "golang.org/x/net/html"
)

// Parse builds a Document with the HTML5 tree construction rules, so
// html, head and body are always present. <style>, <script> and <title>
// are collected into the Document and left out of the tree.
func Parse(markup string) (*Document, error) {
	src, err := xhtml.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}
	doc := &Document{Root: &Node{Attrs: map[string]string{}}}
	b := &builder{doc: doc}
	b.children(src, doc.Root)
	return doc, nil
}

type builder struct {
	doc *Document
}

func (b *builder) children(src *xhtml.Node, dst *Node) {
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xhtml.ElementNode:
			b.element(c, dst)
		case xhtml.TextNode:
			if text := collapse(c.Data); text != "" {
				if dst.Text != "" {
					dst.Text += " "
				}
				dst.Text += text
			}
		}
	}
}

func (b *builder) element(src *xhtml.Node, parent *Node) {
	if src.Namespace == "" {
		switch src.Data {
		case "style":
			b.doc.Stylesheets = append(b.doc.Stylesheets, textContent(src))
			return
		case "script":
			if js := strings.TrimSpace(textContent(src)); js != "" {
				b.doc.Scripts = append(b.doc.Scripts, js)
			}
			return
		case "title":
			if b.doc.Title == "" {
				b.doc.Title = collapse(textContent(src))
			}
			return
		}
	}

	n := &Node{Tag: src.Data, Namespace: src.Namespace, Attrs: make(map[string]string, len(src.Attr))}
	for _, a := range src.Attr {
		if _, dup := n.Attrs[a.Key]; !dup {
			n.Attrs[a.Key] = a.Val
		}
	}
	if n.Tag == "template" && n.Namespace == "" {
		_, n.ShadowRoot = n.Attrs["shadowrootmode"]
	}
	parent.appendChild(n)
	b.children(src, n)
}

func textContent(n *xhtml.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xhtml.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
