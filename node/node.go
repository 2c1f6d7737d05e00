// Package node declares the capability surface the extraction engine needs
// from a source tree. Any tree representation can drive the engine by
// implementing Node: a live streaming-parser tree, a virtual DOM, an XML
// tree. The htmlnode package provides the stock implementation.
package node

// Node is one element of the source tree.
//
// Mutation methods (SetAttribute, RemoveAttribute, Delete) act on the tree
// the host will keep after extraction; the engine uses them to strip consumed
// attributes and to remove sub-trees whose content it has captured into the
// blob buffer.
type Node interface {
	// Children returns the element and text children in document order.
	Children() []Child

	// Attributes returns all (name, value) pairs in source order.
	Attributes() []Attr
	// Attribute returns the value of the named attribute.
	Attribute(name string) (string, bool)
	// RemoveAttribute deletes the named attribute if present.
	RemoveAttribute(name string)
	// SetAttribute adds or replaces an attribute.
	SetAttribute(name, value string)

	// VerbatimString returns the raw source text of the whole element,
	// start tag through end tag, unresolved entities included.
	VerbatimString() string
	// InnerString returns the concatenated text content of the element
	// with entities resolved.
	InnerString() string

	// ByteRange returns the source byte offsets of the whole element.
	ByteRange() (start, end int)
	// InnerByteRange returns the source byte offsets of the content
	// between the start and end tags.
	InnerByteRange() (start, end int)

	// RelativePath returns the child-index path from ancestor down to this
	// node. It fails if ancestor is not an ancestor of the node.
	RelativePath(ancestor Node) ([]int, error)

	// Delete detaches the node from the tree, preserving the sibling
	// linkage of the surrounding nodes. Attribute reads on a deleted node
	// remain valid; re-attachment is not supported.
	Delete()
}

// Child is one child slot: either an element or a run of text.
type Child struct {
	// Element is non-nil for element children.
	Element Node
	// Text holds the resolved text for text children.
	Text string
}

// IsText reports whether the child is a text run.
func (c Child) IsText() bool { return c.Element == nil }

// Attr is one attribute as it appears in the source.
type Attr struct {
	Name  string
	Value string
}
