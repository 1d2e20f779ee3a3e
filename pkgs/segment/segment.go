// Package segment defines the annotated segment tree produced by the highlighter.
//
// Leaves are styled spans tagged with a category (Binary, Path, Option, ...) and optional tooltip
// and link metadata. Internal nodes are either untagged grouping containers (Fragment, Span) or
// structural elements (Block, BlockLine, Inline, Command). Text content always lives in Text nodes
// so that any element may carry either plain text or a pre-rendered fragment.
package segment

import (
	"fmt"
	"strings"
)

// Kind identifies what a node represents
type Kind int

const (
	// Containers
	Fragment Kind = iota // untagged grouping container
	Span                 // plain span: separators, env prefixes, value groups

	// Structure
	Block     // a whole highlighted block
	BlockLine // one rendered line of a block
	Inline    // a highlighted inline snippet
	Spacer    // a blank line inside a block
	Verbatim  // a block line that could not be highlighted
	Command   // one command invocation

	// Categories
	Binary
	Path
	Option
	Positional
	Assign
	Value
	Rest
	Comment
	Unknown

	// Text is a raw text leaf
	Text
)

var kindNames = [...]string{
	Fragment:   "Fragment",
	Span:       "Span",
	Block:      "Block",
	BlockLine:  "BlockLine",
	Inline:     "Inline",
	Spacer:     "Spacer",
	Verbatim:   "Verbatim",
	Command:    "Command",
	Binary:     "Binary",
	Path:       "Path",
	Option:     "Option",
	Positional: "Positional",
	Assign:     "Assign",
	Value:      "Value",
	Rest:       "Rest",
	Comment:    "Comment",
	Unknown:    "Unknown",
	Text:       "Text",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && int(k) >= 0 {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind returns the kind with the given name
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// IsCategory reports whether nodes of this kind are styled category leaves
func (k Kind) IsCategory() bool {
	return k >= Binary && k <= Unknown
}

// Node is one element of the annotated segment tree
type Node struct {
	Kind     Kind
	Text     string // only set on Text nodes
	Tooltip  string
	Href     string
	Children []*Node
}

// NewText creates a raw text leaf
func NewText(text string) *Node {
	return &Node{Kind: Text, Text: text}
}

// New creates an element with the given children
func New(kind Kind, children ...*Node) *Node {
	return &Node{Kind: kind, Children: children}
}

// Leaf creates an element holding a single text child
func Leaf(kind Kind, text string) *Node {
	return New(kind, NewText(text))
}

// WithTooltip sets the tooltip and returns the node
func (n *Node) WithTooltip(tooltip string) *Node {
	n.Tooltip = tooltip
	return n
}

// WithHref sets the link target and returns the node
func (n *Node) WithHref(href string) *Node {
	n.Href = href
	return n
}

// PlainText returns the visible characters of the tree. Command children are separated by a
// single space and block lines by a newline; every other container concatenates its children.
func (n *Node) PlainText() string {
	var b strings.Builder
	n.writePlain(&b)
	return b.String()
}

func (n *Node) writePlain(b *strings.Builder) {
	switch n.Kind {
	case Text:
		b.WriteString(n.Text)
	case Spacer:
	case Command, Block:
		sep := " "
		if n.Kind == Block {
			sep = "\n"
		}
		for i, child := range n.Children {
			if i > 0 {
				b.WriteString(sep)
			}
			child.writePlain(b)
		}
	default:
		for _, child := range n.Children {
			child.writePlain(b)
		}
	}
}

// Walk visits n and its descendants depth-first, stopping descent when fn returns false
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children {
		Walk(child, fn)
	}
}

// FindAll returns every node of the given kind in document order
func FindAll(n *Node, kind Kind) []*Node {
	var found []*Node
	Walk(n, func(node *Node) bool {
		if node.Kind == kind {
			found = append(found, node)
		}
		return true
	})
	return found
}
