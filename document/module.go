package document

import "github.com/dgallion1/ftml/uris"

// Module is a named collection of declarations.
type Module struct {
	URI uris.URI
	// Meta is the metatheory module, if declared.
	Meta uris.URI
	// Signature is the language the module's signature is written in.
	Signature    string
	Declarations []Declaration
	Range        SourceRange
}

// Declaration is one entry of a module, structure or morphism body.
type Declaration interface {
	declaration()
}

// NestedModule is a module declared inside another.
type NestedModule struct {
	Module *Module
}

// MathStructure is a structure feature: a group of declarations usable as a
// type.
type MathStructure struct {
	URI          uris.URI
	Macroname    string
	Declarations []Declaration
	Range        SourceRange
}

// Extension is a conservative extension of a structure.
type Extension struct {
	URI uris.URI
	// Target is the structure being extended.
	Target       uris.URI
	Declarations []Declaration
	Range        SourceRange
}

// Morphism maps the declarations of its domain into the enclosing module.
type Morphism struct {
	URI          uris.URI
	Domain       uris.URI
	Total        bool
	Declarations []Declaration
	Range        SourceRange
}

// Import makes another module's declarations visible.
type Import struct {
	Target uris.URI
}

// Symbol is one declared symbol with its optional components. Type,
// Definiens, ReturnType and ArgTypes are once-only slots; the extractor
// rejects a second assignment with DuplicateValue.
type Symbol struct {
	URI       uris.URI
	Arity     []ArgMode
	Macroname string
	Roles     []string
	AssocType string
	// ReorderArgs is the argument permutation for the macro interface,
	// empty when arguments are in declaration order.
	ReorderArgs []int
	Type        Term
	Definiens   Term
	ReturnType  Term
	ArgTypes    []Term
	Range       SourceRange
}

// Variable is a narrative-scoped variable declaration. Sequence variables
// stand for an a-priori-unbounded list of terms.
type Variable struct {
	URI       uris.URI
	Sequence  bool
	Arity     []ArgMode
	Macroname string
	Roles     []string
	Type      Term
	Definiens Term
	Range     SourceRange
}

// Assignment reassigns a symbol of a morphism's domain.
type Assignment struct {
	Target    uris.URI
	Definiens Term
	// Refined is the optional sharpened type of the target under the
	// morphism.
	Refined Term
}

// Rename gives a domain symbol a new name and macro under a morphism.
type Rename struct {
	Target    uris.URI
	To        string
	Macroname string
}

func (*NestedModule) declaration()  {}
func (*MathStructure) declaration() {}
func (*Extension) declaration()     {}
func (*Morphism) declaration()      {}
func (*Import) declaration()        {}
func (*Symbol) declaration()        {}
func (*Assignment) declaration()    {}
func (*Rename) declaration()        {}
