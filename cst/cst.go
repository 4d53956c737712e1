// Package cst provides concrete syntax trees built by grammar-driven parsing.
package cst

import (
	"strings"

	"github.com/dhamidi/peg/peg"
)

// Span represents a range in source text.
type Span struct {
	Start peg.Position
	End   peg.Position
}

// Node represents a node in the concrete syntax tree.
// Leaf nodes carry the matched Text; interior nodes have Children.
type Node struct {
	Kind     string  // Production name
	Text     string  // Matched text (terminals only)
	Children []*Node // Child nodes (nil for terminals)
	Span     Span    // Source span covering this node
}

// IsTerminal returns true if this is a leaf node.
func (n *Node) IsTerminal() bool {
	return n.Children == nil
}

// AddChild appends a child node and updates the span.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	n.Children = append(n.Children, child)
	if len(n.Children) == 1 {
		n.Span.Start = child.Span.Start
	}
	n.Span.End = child.Span.End
}

// NewTerminal creates a terminal node.
func NewTerminal(kind, text string, span Span) *Node {
	return &Node{
		Kind: kind,
		Text: text,
		Span: span,
	}
}

// NewNonTerminal creates a non-terminal node.
func NewNonTerminal(kind string) *Node {
	return &Node{
		Kind:     kind,
		Children: make([]*Node, 0),
	}
}

// Source returns the concatenated text of every terminal under n.
func (n *Node) Source() string {
	var b strings.Builder
	n.Walk(func(m *Node) bool {
		if m.IsTerminal() {
			b.WriteString(m.Text)
		}
		return true
	})
	return b.String()
}

// Walk calls fn for n and its descendants in depth-first order. Children
// of a node are skipped when fn returns false for it.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Find returns the first node of the given kind in depth-first order.
func (n *Node) Find(kind string) *Node {
	var found *Node
	n.Walk(func(m *Node) bool {
		if found != nil {
			return false
		}
		if m.Kind == kind {
			found = m
			return false
		}
		return true
	})
	return found
}
