package extractor

import (
	"github.com/dgallion1/ftml/document"
	"github.com/dgallion1/ftml/keys"
	"github.com/dgallion1/ftml/node"
	"github.com/dgallion1/ftml/uris"
)

// domainKind tags the open domain-element variants.
type domainKind uint8

const (
	dNone domainKind = iota
	dModule
	dMathStructure
	dExtension
	dMorphism
	dSymbolDecl
	dSymbolRef
	dVarRef
	dApplication
	dBinding
	dLabel
	dInferenceRule
	dComplexTerm
	dArgument
	dRuleParam
	dHeadTerm
	dType
	dReturnType
	dDefiniens
	dArgTypes
	dConclusion
	dPremise
	dAssign
	dComp
	dDefComp
)

// key returns the vocabulary key a kind reports in structural faults.
func (k domainKind) key() keys.Key {
	switch k {
	case dModule:
		return keys.Module
	case dMathStructure:
		return keys.MathStructure
	case dExtension:
		return keys.Extension
	case dMorphism:
		return keys.Morphism
	case dSymbolDecl:
		return keys.Symdecl
	case dSymbolRef, dVarRef, dApplication, dBinding, dLabel, dComplexTerm:
		return keys.Term
	case dInferenceRule:
		return keys.Rule
	case dArgument:
		return keys.Arg
	case dRuleParam:
		return keys.RuleArg
	case dHeadTerm:
		return keys.HeadTerm
	case dType:
		return keys.Type
	case dReturnType:
		return keys.ReturnType
	case dDefiniens:
		return keys.Definiens
	case dArgTypes:
		return keys.ArgTypes
	case dConclusion:
		return keys.Conclusion
	case dPremise:
		return keys.Premise
	case dAssign:
		return keys.Assign
	case dComp:
		return keys.Comp
	case dDefComp:
		return keys.DefComp
	}
	return keys.Invalid
}

// openDomain is one work-in-progress frame on the domain stack.
type openDomain interface {
	dkind() domainKind
}

type openModule struct {
	uri       uris.URI
	meta      uris.URI
	signature string
	decls     []document.Declaration
	start     int
}

type openMathStructure struct {
	uri       uris.URI
	macroname string
	decls     []document.Declaration
	start     int
}

type openExtension struct {
	uri    uris.URI
	target uris.URI
	decls  []document.Declaration
	start  int
}

type openMorphism struct {
	uri    uris.URI
	domain uris.URI
	total  bool
	decls  []document.Declaration
	start  int
}

// openSymbolDecl accumulates the once-only component slots of a symbol.
type openSymbolDecl struct {
	uri         uris.URI
	arity       []document.ArgMode
	macroname   string
	roles       []string
	assocType   string
	reorderArgs []int

	typ        document.Term
	definiens  document.Term
	returnType document.Term
	argTypes   []document.Term
	hasTyp     bool
	hasDef     bool
	hasRet     bool
	hasArgTyp  bool

	start int
}

// openSymbolRef and openVarRef are immutable once opened; their close only
// emits the pending term.
type openSymbolRef struct {
	uri      uris.URI
	notation string
}

type openVarRef struct {
	name        string
	declaration uris.URI
	notation    string
}

// openTermFrame is the shared accumulator of Application and Binding frames:
// a head, optional explicit head-presentation, and argument slots filled
// positionally by Argument closes.
type openTermFrame struct {
	kind     domainKind // dApplication or dBinding
	head     document.Term
	headPres document.Term
	// uri marks a top-level narrative term; sub-expressions have none.
	uri  uris.URI
	args []*openArgument
}

func (t *openTermFrame) dkind() domainKind { return t.kind }

type openLabel struct {
	name      string
	typ       document.Term
	definiens document.Term
	hasTyp    bool
	hasDef    bool
	uri       uris.URI
}

type openInferenceRule struct {
	id     string
	params []document.Term
	uri    uris.URI
}

type openComplexTerm struct {
	head document.Term
	pres document.Term
	uri  uris.URI
}

// candidate is one pending sub-term recorded by a consumer frame, with the
// closing node's child-path relative to the frame's own node.
type candidate struct {
	term document.Term
	path []int
}

// openConsumer is the shared shape of the Argument, HeadTerm, Type,
// ReturnType, Definiens, ArgTypes, Conclusion and RuleParam frames: each
// accumulates candidate sub-terms, disambiguated at close.
type openConsumer struct {
	kind domainKind
	node node.Node
	cand []candidate

	// Argument frames only.
	index    int // 1-based
	seqIndex int // 1-based within a sequence slot, 0 for simple
	mode     document.ArgMode

	// Definiens frames only: the optional explicitly-named subject symbol.
	target uris.URI
}

func (c *openConsumer) dkind() domainKind { return c.kind }

// add records a pending term with its path relative to the frame's node.
func (c *openConsumer) add(t document.Term, path []int) {
	c.cand = append(c.cand, candidate{term: t, path: path})
}

// resolve picks the winning candidate: the shallowest path, first recorded on
// ties. A frame with no candidates resolves to nil.
func (c *openConsumer) resolve() document.Term {
	best := -1
	for i, cd := range c.cand {
		if best < 0 || len(cd.path) < len(c.cand[best].path) {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	return c.cand[best].term
}

type openAssign struct {
	target    uris.URI
	definiens document.Term
	refined   document.Term
	hasDef    bool
	hasRef    bool
}

// openMarker is the transparent Comp/DefComp frame: it absorbs pending terms
// silently and carries no data.
type openMarker struct {
	kind domainKind // dComp or dDefComp
}

func (m *openMarker) dkind() domainKind { return m.kind }

func (*openModule) dkind() domainKind        { return dModule }
func (*openMathStructure) dkind() domainKind { return dMathStructure }
func (*openExtension) dkind() domainKind     { return dExtension }
func (*openMorphism) dkind() domainKind      { return dMorphism }
func (*openSymbolDecl) dkind() domainKind    { return dSymbolDecl }
func (*openSymbolRef) dkind() domainKind     { return dSymbolRef }
func (*openVarRef) dkind() domainKind        { return dVarRef }
func (*openLabel) dkind() domainKind         { return dLabel }
func (*openInferenceRule) dkind() domainKind { return dInferenceRule }
func (*openComplexTerm) dkind() domainKind   { return dComplexTerm }
func (*openAssign) dkind() domainKind        { return dAssign }
