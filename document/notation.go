package document

import "github.com/dgallion1/ftml/uris"

// Notation is one presentation template for a symbol or declared variable.
//
// Component paths are child-index paths relative to the node the notation
// was extracted from, never absolute offsets, so one notation can later be
// instantiated against structurally different concrete markup.
type Notation struct {
	// Head is the leaf identity the notation registers under: a symbol
	// URI or a declared variable's URI.
	Head uris.URI
	// URI identifies the notation element itself.
	URI uris.URI
	// Fragment distinguishes alternative notations of one symbol.
	Fragment string

	Precedence int64
	// Argprecs gives the precedence at each argument position.
	Argprecs []int64

	// Component is the root of the template tree.
	Component NotationComponent
	// Op is the bare-operator component, if one was marked.
	Op NotationComponent
}

// NotationComponent is one node of a presentation template.
type NotationComponent interface {
	notationComponent()
	// ComponentPath returns the relative child-index path of the component.
	ComponentPath() []int
}

// TextComponent is literal presentation text.
type TextComponent struct {
	Path []int
	Text string
}

// NodeComponent wraps a source sub-node and its nested components.
type NodeComponent struct {
	Path     []int
	Children []NotationComponent
}

// ArgComponent is a placeholder for argument Index (1-based).
type ArgComponent struct {
	Path  []int
	Index int
	Mode  ArgMode
}

// SepComponent separates the repetitions of a sequence argument. Its
// children are the separator's own presentation.
type SepComponent struct {
	Path     []int
	Index    int
	Children []NotationComponent
}

// MainComponent marks the component carrying the symbol's own presentation.
type MainComponent struct {
	Path []int
	Text string
}

func (*TextComponent) notationComponent() {}
func (*NodeComponent) notationComponent() {}
func (*ArgComponent) notationComponent()  {}
func (*SepComponent) notationComponent()  {}
func (*MainComponent) notationComponent() {}

func (c *TextComponent) ComponentPath() []int { return c.Path }
func (c *NodeComponent) ComponentPath() []int { return c.Path }
func (c *ArgComponent) ComponentPath() []int  { return c.Path }
func (c *SepComponent) ComponentPath() []int  { return c.Path }
func (c *MainComponent) ComponentPath() []int { return c.Path }

// NotationEntry is one registry triple: the leaf identity a notation
// registered under, the URI of the defining element, and the notation.
type NotationEntry struct {
	Head     uris.URI
	Element  uris.URI
	Notation *Notation
	// Blob locates the serialized notation in the blob buffer.
	Blob BlobRef
}
