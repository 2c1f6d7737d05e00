package document

import "github.com/dgallion1/ftml/uris"

// Element is one node of the finished narrative tree. The variant set is
// closed; the sealed marker keeps it that way.
type Element interface {
	element()
}

// Section is a titled division carrying child elements.
type Section struct {
	URI      uris.URI
	ID       string
	Title    string // verbatim HTML, empty if untitled
	Children []Element
	Range    SourceRange
}

// SkipSection marks a division excluded from numbering but whose children
// remain part of the document.
type SkipSection struct {
	Children []Element
}

// Slide is one presentation frame.
type Slide struct {
	URI      uris.URI
	Title    string
	Number   int
	Children []Element
}

// Slideshow groups consecutive slides.
type Slideshow struct {
	Children []Element
}

// ParagraphKind distinguishes the logical-paragraph flavors.
type ParagraphKind string

const (
	KindDefinition ParagraphKind = "definition"
	KindAssertion  ParagraphKind = "assertion"
	KindExample    ParagraphKind = "example"
	KindParagraph  ParagraphKind = "paragraph"
	KindProof      ParagraphKind = "proof"
	KindSubProof   ParagraphKind = "subproof"
)

// IsDefinitionLike reports whether a definiens may attach to the paragraph's
// subject symbols.
func (k ParagraphKind) IsDefinitionLike() bool {
	return k == KindDefinition || k == KindAssertion
}

// Paragraph is a logical paragraph: definition, assertion, example, proof or
// plain paragraph.
type Paragraph struct {
	Kind   ParagraphKind
	URI    uris.URI
	ID     string
	Inline bool
	Title  string
	// Fors lists the symbols the paragraph is about; for definition-like
	// paragraphs the first entry is the default definiens target.
	Fors     []uris.URI
	Styles   []string
	Children []Element
	// Conclusion and Premises carry the formal content of assertion-like
	// paragraphs, when marked.
	Conclusion Term
	Premises   []Term
	Range      SourceRange
}

// Problem is a graded exercise in the narrative tree.
type Problem struct {
	URI        uris.URI
	ID         string
	SubProblem bool
	Data       *ProblemData
	Children   []Element
	Range      SourceRange
}

// TermElement is a top-level (uri-carrying) term appearing in running text.
type TermElement struct {
	URI  uris.URI
	Term Term
}

// SymbolDeclaration references a symbol declared at this point of the
// narrative; the symbol itself lives in its module.
type SymbolDeclaration struct {
	URI uris.URI
}

// VariableDeclaration introduces a narrative-scoped variable.
type VariableDeclaration struct {
	Variable *Variable
}

// ModuleRef mirrors a domain module in the narrative tree.
type ModuleRef struct {
	URI      uris.URI
	Children []Element
}

// MathStructureRef mirrors a structure in the narrative tree.
type MathStructureRef struct {
	URI      uris.URI
	Children []Element
}

// MorphismRef mirrors a morphism in the narrative tree.
type MorphismRef struct {
	URI      uris.URI
	Children []Element
}

// ImportModule records a module import (visible to consumers of the module).
type ImportModule struct {
	Target uris.URI
}

// UseModule records a module use (scoped to the current document).
type UseModule struct {
	Target uris.URI
}

// InputRef transcludes another document at this position.
type InputRef struct {
	Target uris.URI
	ID     string
}

// NotationRef records a notation defined at this point; the notation body is
// in the registry and the blob buffer.
type NotationRef struct {
	// Head is the leaf identity the notation registered under.
	Head uris.URI
	// URI identifies the notation element itself.
	URI uris.URI
}

func (*Section) element()             {}
func (*SkipSection) element()         {}
func (*Slide) element()               {}
func (*Slideshow) element()           {}
func (*Paragraph) element()           {}
func (*Problem) element()             {}
func (*TermElement) element()         {}
func (*SymbolDeclaration) element()   {}
func (*VariableDeclaration) element() {}
func (*ModuleRef) element()           {}
func (*MathStructureRef) element()    {}
func (*MorphismRef) element()         {}
func (*ImportModule) element()        {}
func (*UseModule) element()           {}
func (*InputRef) element()            {}
func (*NotationRef) element()         {}
