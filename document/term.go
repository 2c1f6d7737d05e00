package document

import "github.com/dgallion1/ftml/uris"

// Term is a closed variant of mathematical expressions. Presentation
// overrides carry the concrete notation term shown to readers when it
// differs from the logical head.
type Term interface {
	term()
}

// SymbolRef refers to a declared symbol.
type SymbolRef struct {
	URI uris.URI
	// Notation selects a registered notation fragment, empty for default.
	Notation string
}

// VarRef refers to a variable. Declaration is set once the name resolved to
// a declared variable; a free occurrence keeps only the name.
type VarRef struct {
	Name        string
	Declaration uris.URI
	Notation    string
}

// Application applies a head to positional arguments.
type Application struct {
	Head Term
	// Presentation overrides the rendered head, distinct from Head.
	Presentation Term
	Args         []Arg
}

// Binding is an application whose head binds variables in its arguments.
type Binding struct {
	Head         Term
	Presentation Term
	Args         []Arg
}

// Label is an anonymous declaration-as-term (an OML): a name with optional
// type and definiens.
type Label struct {
	Name      string
	Type      Term
	Definiens Term
}

// ComplexApplication wraps a term whose head is itself a computed term,
// keeping the presentation term it was displayed with.
type ComplexApplication struct {
	Head         Term
	Presentation Term
}

// InferenceRule is a rule-application term: a rule identifier with parameter
// terms.
type InferenceRule struct {
	ID     string
	Params []Term
}

func (*SymbolRef) term()          {}
func (*VarRef) term()             {}
func (*Application) term()        {}
func (*Binding) term()            {}
func (*Label) term()              {}
func (*ComplexApplication) term() {}
func (*InferenceRule) term()      {}

// ArgMode classifies one argument position.
type ArgMode byte

const (
	// ArgModeSimple is a plain positional argument.
	ArgModeSimple ArgMode = 'i'
	// ArgModeSequence is an unbounded ordered group of sub-terms.
	ArgModeSequence ArgMode = 'a'
	// ArgModeBinding is a bound-variable position.
	ArgModeBinding ArgMode = 'b'
	// ArgModeBindingSequence is an unbounded group of bound variables.
	ArgModeBindingSequence ArgMode = 'B'
)

// ParseArgMode validates one mode character.
func ParseArgMode(c byte) (ArgMode, bool) {
	switch ArgMode(c) {
	case ArgModeSimple, ArgModeSequence, ArgModeBinding, ArgModeBindingSequence:
		return ArgMode(c), true
	}
	return 0, false
}

// IsSequence reports whether the mode is one of the sequence modes.
func (m ArgMode) IsSequence() bool {
	return m == ArgModeSequence || m == ArgModeBindingSequence
}

// IsBound reports whether the mode is one of the binding modes.
func (m ArgMode) IsBound() bool {
	return m == ArgModeBinding || m == ArgModeBindingSequence
}

// ParseArity validates a full arity specification such as "iab".
func ParseArity(s string) ([]ArgMode, bool) {
	if s == "" {
		return nil, true
	}
	out := make([]ArgMode, len(s))
	for i := 0; i < len(s); i++ {
		m, ok := ParseArgMode(s[i])
		if !ok {
			return nil, false
		}
		out[i] = m
	}
	return out, true
}

// Arg is one resolved argument slot of an application or binding. Simple
// slots use Term; sequence slots use Sequence, indexed 1..len in position
// order.
type Arg struct {
	Mode     ArgMode
	Term     Term
	Sequence []Term
}

// TermEq reports structural equality of two terms. The argument-assignment
// path uses it to tolerate duplicate assignments of the same term.
func TermEq(a, b Term) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch x := a.(type) {
	case *SymbolRef:
		y, ok := b.(*SymbolRef)
		return ok && x.URI.Eq(y.URI) && x.Notation == y.Notation
	case *VarRef:
		y, ok := b.(*VarRef)
		return ok && x.Name == y.Name && x.Declaration.Eq(y.Declaration)
	case *Application:
		y, ok := b.(*Application)
		return ok && TermEq(x.Head, y.Head) && argsEq(x.Args, y.Args)
	case *Binding:
		y, ok := b.(*Binding)
		return ok && TermEq(x.Head, y.Head) && argsEq(x.Args, y.Args)
	case *Label:
		y, ok := b.(*Label)
		return ok && x.Name == y.Name && TermEq(x.Type, y.Type) && TermEq(x.Definiens, y.Definiens)
	case *ComplexApplication:
		y, ok := b.(*ComplexApplication)
		return ok && TermEq(x.Head, y.Head) && TermEq(x.Presentation, y.Presentation)
	case *InferenceRule:
		y, ok := b.(*InferenceRule)
		if !ok || x.ID != y.ID || len(x.Params) != len(y.Params) {
			return false
		}
		for i := range x.Params {
			if !TermEq(x.Params[i], y.Params[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func argsEq(a, b []Arg) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Mode != b[i].Mode || !TermEq(a[i].Term, b[i].Term) {
			return false
		}
		if len(a[i].Sequence) != len(b[i].Sequence) {
			return false
		}
		for j := range a[i].Sequence {
			if !TermEq(a[i].Sequence[j], b[i].Sequence[j]) {
				return false
			}
		}
	}
	return true
}
