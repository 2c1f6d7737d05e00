package extractor

import (
	"github.com/dgallion1/ftml/document"
	"github.com/dgallion1/ftml/keys"
	"github.com/dgallion1/ftml/node"
	"github.com/dgallion1/ftml/uris"
)

// narrativeKind tags the open narrative-element variants.
type narrativeKind uint8

const (
	nNone narrativeKind = iota
	nModule
	nMathStructure
	nMorphism
	nVariableDecl
	nSection
	nSkipSection
	nSlide
	nSlideshow
	nParagraph
	nProblem
	nDocTitle
	nTitle
	nNotation
	nNotationComp
	nNotationOpComp
	nNotationArg
	nArgSep
	nArgMap
	nSolution
	nFillinSol
	nFillinSolCase
	nProblemHint
	nProblemExNote
	nProblemGradingNote
	nAnswerClass
	nChoiceBlock
	nProblemChoice
	nChoiceVerdict
	nChoiceFeedback
	nDefiniendum
	nInvisible
)

func (k narrativeKind) key() keys.Key {
	switch k {
	case nModule:
		return keys.Module
	case nMathStructure:
		return keys.MathStructure
	case nMorphism:
		return keys.Morphism
	case nVariableDecl:
		return keys.Vardef
	case nSection:
		return keys.Section
	case nSkipSection:
		return keys.SkipSection
	case nSlide:
		return keys.Slide
	case nSlideshow:
		return keys.Slideshow
	case nParagraph:
		return keys.Paragraph
	case nProblem:
		return keys.Problem
	case nDocTitle:
		return keys.DocTitle
	case nTitle:
		return keys.Title
	case nNotation:
		return keys.Notation
	case nNotationComp:
		return keys.NotationComp
	case nNotationOpComp:
		return keys.NotationOpComp
	case nNotationArg:
		return keys.Arg
	case nArgSep:
		return keys.ArgSep
	case nArgMap:
		return keys.ArgMap
	case nSolution:
		return keys.Solution
	case nFillinSol:
		return keys.Fillinsol
	case nFillinSolCase:
		return keys.FillinsolCase
	case nProblemHint:
		return keys.ProblemHint
	case nProblemExNote:
		return keys.ProblemNote
	case nProblemGradingNote:
		return keys.ProblemGradingNote
	case nAnswerClass:
		return keys.AnswerClass
	case nChoiceBlock:
		return keys.MultipleChoiceBlock
	case nProblemChoice:
		return keys.ProblemChoice
	case nChoiceVerdict:
		return keys.ProblemChoiceVerdict
	case nChoiceFeedback:
		return keys.ProblemChoiceFeedback
	case nDefiniendum:
		return keys.Definiendum
	case nInvisible:
		return keys.Invisible
	}
	return keys.Invalid
}

// openNarrative is one frame on the narrative stack.
type openNarrative interface {
	nkind() narrativeKind
}

// childAccumulator is implemented by frames that collect finished narrative
// children. The nearest such frame is "the enclosing container".
type childAccumulator interface {
	openNarrative
	addChild(document.Element)
}

// openNarrativeContainer covers the narrative mirrors of domain containers
// (module, structure, morphism) and the plain structural containers (skip
// section, slideshow). Children here are narrative elements, not
// declarations.
type openNarrativeContainer struct {
	kind     narrativeKind
	uri      uris.URI
	children []document.Element
}

func (c *openNarrativeContainer) nkind() narrativeKind       { return c.kind }
func (c *openNarrativeContainer) addChild(e document.Element) { c.children = append(c.children, e) }

type openSection struct {
	uri      uris.URI
	id       string
	title    string
	hasTitle bool
	children []document.Element
	start    int
}

func (s *openSection) nkind() narrativeKind        { return nSection }
func (s *openSection) addChild(e document.Element) { s.children = append(s.children, e) }

type openSlide struct {
	uri      uris.URI
	number   int
	title    string
	hasTitle bool
	children []document.Element
}

func (s *openSlide) nkind() narrativeKind        { return nSlide }
func (s *openSlide) addChild(e document.Element) { s.children = append(s.children, e) }

type openParagraph struct {
	kind     document.ParagraphKind
	uri      uris.URI
	id       string
	inline   bool
	fors     []uris.URI
	styles   []string
	title    string
	hasTitle bool
	children []document.Element
	start    int

	// conclusion and premises carry assertion content attached by the
	// Conclusion/Premise consumer frames.
	conclusion document.Term
	premises   []document.Term
}

func (p *openParagraph) nkind() narrativeKind        { return nParagraph }
func (p *openParagraph) addChild(e document.Element) { p.children = append(p.children, e) }

type openProblem struct {
	uri      uris.URI
	id       string
	sub      bool
	title    string
	hasTitle bool
	data     *document.ProblemData
	children []document.Element
	start    int
}

func (p *openProblem) nkind() narrativeKind        { return nProblem }
func (p *openProblem) addChild(e document.Element) { p.children = append(p.children, e) }

// openVariableDecl accumulates a narrative-scoped variable; its type and
// definiens arrive through the domain consumer frames.
type openVariableDecl struct {
	v *document.Variable
}

func (*openVariableDecl) nkind() narrativeKind { return nVariableDecl }

// openTitle captures a title sub-tree; the owner is determined at close.
type openTitle struct {
	kind narrativeKind // nTitle or nDocTitle
	node node.Node
}

func (t *openTitle) nkind() narrativeKind { return t.kind }

// openNotation accumulates one notation definition.
type openNotation struct {
	head       uris.URI
	headVar    string // unresolved variable name, empty for symbol heads
	uri        uris.URI
	fragment   string
	precedence int64
	argprecs   []int64
	node       node.Node

	component document.NotationComponent
	op        document.NotationComponent
}

func (*openNotation) nkind() narrativeKind { return nNotation }

// closedComp ties a finished sub-component to the source node it came from,
// so an enclosing component can place it during its own close.
type closedComp struct {
	node node.Node
	comp document.NotationComponent
}

// openNotationComp accumulates the sub-components of one component tree
// node. The op flavor marks the operator component.
type openNotationComp struct {
	kind narrativeKind // nNotationComp, nNotationOpComp, nArgSep or nArgMap
	node node.Node
	subs []closedComp

	// ArgSep frames remember the sequence argument they separate.
	index int
	// ArgMap frames remember the declared separator text.
	sep string
}

func (c *openNotationComp) nkind() narrativeKind { return c.kind }

// openMainComp captures the component holding the symbol's own presentation
// (Comp, VarComp, MainComp and DefComp inside a notation all land here).
type openMainComp struct {
	node node.Node
}

func (*openMainComp) nkind() narrativeKind { return nNotationComp }

// openNotationArg is an argument placeholder inside a notation component.
type openNotationArg struct {
	node  node.Node
	index int
	mode  document.ArgMode
}

func (*openNotationArg) nkind() narrativeKind { return nNotationArg }

// Problem sub-model frames. Each captures text at close and deletes its
// source node from the visible tree.

type openSolution struct {
	node        node.Node
	answerClass string
}

func (*openSolution) nkind() narrativeKind { return nSolution }

type openFillinSol struct {
	node  node.Node
	width int
	cases []document.FillInCase
}

func (*openFillinSol) nkind() narrativeKind { return nFillinSol }

type openFillinSolCase struct {
	node    node.Node
	kind    document.FillInCaseKind
	value   string
	correct bool
}

func (*openFillinSolCase) nkind() narrativeKind { return nFillinSolCase }

// openProblemText covers hints, notes and grading notes: verbatim capture
// frames distinguished only by kind.
type openProblemText struct {
	kind narrativeKind
	node node.Node

	// Grading notes may carry answer classes closed inside them.
	answerClasses []document.AnswerClass
}

func (t *openProblemText) nkind() narrativeKind { return t.kind }

type openAnswerClass struct {
	node   node.Node
	id     string
	points float64
	// feedback is attached directly by the answer-class feedback meta key.
	feedback document.BlobRef
}

func (*openAnswerClass) nkind() narrativeKind { return nAnswerClass }

type openChoiceBlock struct {
	node     node.Node
	multiple bool
	inline   bool
	choices  []document.Choice
}

func (*openChoiceBlock) nkind() narrativeKind { return nChoiceBlock }

type openProblemChoice struct {
	node     node.Node
	correct  bool
	verdict  string
	feedback document.BlobRef
}

func (*openProblemChoice) nkind() narrativeKind { return nProblemChoice }

// openChoiceText covers choice verdicts and feedbacks.
type openChoiceText struct {
	kind narrativeKind
	node node.Node
}

func (t *openChoiceText) nkind() narrativeKind { return t.kind }

type openDefiniendum struct {
	uri  uris.URI
	node node.Node
}

func (*openDefiniendum) nkind() narrativeKind { return nDefiniendum }

// openInvisible marks a sub-tree excluded from presentation; the extractor
// still walks it.
type openInvisible struct{}

func (*openInvisible) nkind() narrativeKind { return nInvisible }
