package document

import "github.com/dgallion1/ftml/uris"

// Triple is one relation fact emitted during extraction, for hosts that
// build an RDF-style index over extracted documents.
type Triple struct {
	Subject   uris.URI
	Predicate Predicate
	Object    uris.URI
}

// Predicate is the relation of a triple.
type Predicate string

const (
	PredDeclares     Predicate = "declares"
	PredImports      Predicate = "imports"
	PredUses         Predicate = "uses"
	PredDefines      Predicate = "defines"
	PredExemplifies  Predicate = "exemplifies"
	PredHasNotation  Predicate = "hasNotation"
	PredPrecondition Predicate = "precondition"
	PredObjective    Predicate = "objective"
	PredContains     Predicate = "contains"
	PredInputrefs    Predicate = "inputrefs"
)
