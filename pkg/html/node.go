// Package html parses scene markup into a plain element tree, collecting
// <style>, <script> and <title> content on the side.
package html

import "strings"

// Node is an element. The document root is a Node with an empty Tag.
type Node struct {
	Tag string
	// Namespace is empty for HTML elements, "svg" or "math" otherwise.
	Namespace string
	Attrs     map[string]string
	Children  []*Node
	Parent    *Node
	// Text is the collapsed text content directly inside the element.
	Text string
	// ShadowRoot marks a <template shadowrootmode> whose children belong to
	// the shadow root of Parent.
	ShadowRoot bool
}

func (n *Node) TagName() string { return n.Tag }

// GetAttribute returns an attribute value.
func (n *Node) GetAttribute(name string) (string, bool) {
	v, ok := n.Attrs[name]
	return v, ok
}

// ParentElement returns the parent, or nil at the top of the document.
func (n *Node) ParentElement() *Node {
	if n.Parent == nil || n.Parent.Tag == "" {
		return nil
	}
	return n.Parent
}

func (n *Node) ID() string {
	return n.Attrs["id"]
}

// Classes returns the class attribute split on whitespace.
func (n *Node) Classes() []string {
	return strings.Fields(n.Attrs["class"])
}

// HasClass reports whether the class attribute lists name.
func (n *Node) HasClass(name string) bool {
	for _, c := range n.Classes() {
		if c == name {
			return true
		}
	}
	return false
}

// Index returns the position of n among its parent's children, or -1.
func (n *Node) Index() int {
	if n.Parent == nil {
		return -1
	}
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

func (n *Node) appendChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Walk visits n's descendants depth first in document order. Returning
// false from fn skips the subtree below that node.
func (n *Node) Walk(fn func(*Node) bool) {
	for _, c := range n.Children {
		if fn(c) {
			c.Walk(fn)
		}
	}
}

// Find returns the first descendant with the given id.
func (n *Node) Find(id string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.ID() == id {
			found = c
			return false
		}
		return true
	})
	return found
}

// Document is a parsed page. Root holds the html element.
type Document struct {
	Root        *Node
	Title       string
	Stylesheets []string
	Scripts     []string
}

// Body returns the body element.
func (d *Document) Body() *Node {
	var body *Node
	d.Root.Walk(func(n *Node) bool {
		if body == nil && n.Tag == "body" && n.Namespace == "" {
			body = n
		}
		return body == nil
	})
	return body
}
