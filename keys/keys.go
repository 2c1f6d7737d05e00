// Package keys defines the closed FTML attribute vocabulary.
//
// FTML documents are ordinary HTML in which all semantic information lives in
// attributes under one reserved prefix. This vocabulary and the placement
// constraints in table.go are the wire contract between document generators
// and the extraction engine; names must never change once published.
package keys

import "strings"

// Prefix is the reserved attribute prefix. A recognized attribute is Prefix
// followed by one of the key names below.
const Prefix = "data-ftml-"

// Key identifies one recognized attribute.
//
// Declaration order is dispatch priority: when several recognized keys are
// present on one node, their handlers run in this order. The order is chosen
// so that a key always runs before the auxiliary keys that depend on it
// (Counter before CounterParent, Problem before ProblemPoints, and so on).
type Key uint8

const (
	Invalid Key = iota

	// Modules and morphisms.
	Module
	MathStructure
	Extension
	Morphism
	MorphismDomain
	MorphismTotal
	Assign
	Rename
	RenameTo
	AssignMorphismFrom
	AssignMorphismTo
	ImportModule
	UseModule
	Metatheory
	Signature

	// Symbol and variable declarations.
	Symdecl
	Vardef
	Varseq
	Args
	Macroname
	Role
	AssocType
	ReorderArgs
	Type
	Definiens
	ReturnType
	ArgTypes

	// Terms.
	Term
	Head
	Arg
	ArgMode
	HeadTerm
	NotationID
	Invisible

	// Inference rules.
	Rule
	RuleArg
	Premise
	Conclusion

	// Document structure.
	DocTitle
	DocKind
	Section
	SkipSection
	SetSectionLevel
	CurrentSectionLevel
	Definition
	Paragraph
	Assertion
	Example
	Proof
	SubProof
	ProofMethod
	ProofTerm
	ProofBody
	ProofAssumption
	ProofHide
	ProofStep
	ProofStepName
	ProofEqStep
	ProofPremise
	ProofConclusion
	Collapsible
	Slide
	SlideNumber
	Slideshow
	FrameNumber
	Problem
	SubProblem
	Title
	ProofTitle
	SubproofTitle
	Inline
	Fors
	ID
	Styles
	Language
	InputRef
	IfInputref
	Capitalize

	// Styling and counters.
	Style
	Counter
	CounterParent
	CounterSet

	// Notations.
	Notation
	NotationFragment
	Precedence
	Argprecs
	NotationComp
	NotationOpComp
	Comp
	VarComp
	MainComp
	DefComp
	ArgSep
	ArgMap
	ArgMapSep
	Definiendum

	// Problems and grading.
	ProblemPoints
	ProblemMinutes
	Autogradable
	ProblemHint
	ProblemNote
	ProblemGradingNote
	Solution
	AnswerClass
	AnswerClassPts
	AnswerClassFeedback
	MultipleChoiceBlock
	SingleChoiceBlock
	ProblemChoice
	ProblemChoiceVerdict
	ProblemChoiceFeedback
	Fillinsol
	FillinsolCase
	FillinsolCaseValue
	FillinsolCaseVerdict
	PreconditionSymbol
	PreconditionDimension
	ObjectiveSymbol
	ObjectiveDimension

	numKeys
)

var names = [numKeys]string{
	Invalid: "",

	Module:             "module",
	MathStructure:      "feature-structure",
	Extension:          "extstructure",
	Morphism:           "feature-morphism",
	MorphismDomain:     "domain",
	MorphismTotal:      "total",
	Assign:             "assign",
	Rename:             "rename",
	RenameTo:           "rename-to",
	AssignMorphismFrom: "assignmorphismfrom",
	AssignMorphismTo:   "assignmorphismto",
	ImportModule:       "import",
	UseModule:          "usemodule",
	Metatheory:         "metatheory",
	Signature:          "signature",

	Symdecl:     "symdecl",
	Vardef:      "vardef",
	Varseq:      "varseq",
	Args:        "args",
	Macroname:   "macroname",
	Role:        "role",
	AssocType:   "assoctype",
	ReorderArgs: "reorderargs",
	Type:        "type",
	Definiens:   "definiens",
	ReturnType:  "returntype",
	ArgTypes:    "argtypes",

	Term:       "term",
	Head:       "head",
	Arg:        "arg",
	ArgMode:    "mode",
	HeadTerm:   "headterm",
	NotationID: "notationid",
	Invisible:  "invisible",

	Rule:       "rule",
	RuleArg:    "rule-arg",
	Premise:    "premise",
	Conclusion: "conclusion",

	DocTitle:            "doctitle",
	DocKind:             "dockind",
	Section:             "section",
	SkipSection:         "skipsection",
	SetSectionLevel:     "sectionlevel",
	CurrentSectionLevel: "currentsectionlevel",
	Definition:          "definition",
	Paragraph:           "paragraph",
	Assertion:           "assertion",
	Example:             "example",
	Proof:               "proof",
	SubProof:            "subproof",
	ProofMethod:         "proofmethod",
	ProofTerm:           "proofterm",
	ProofBody:           "proofbody",
	ProofAssumption:     "proofassumption",
	ProofHide:           "proofhide",
	ProofStep:           "proofstep",
	ProofStepName:       "proofstepname",
	ProofEqStep:         "proofeqstep",
	ProofPremise:        "proofpremise",
	ProofConclusion:     "proofconclusion",
	Collapsible:         "collapsible",
	Slide:               "slide",
	SlideNumber:         "slide-number",
	Slideshow:           "slideshow",
	FrameNumber:         "framenumber",
	Problem:             "problem",
	SubProblem:          "subproblem",
	Title:               "title",
	ProofTitle:          "prooftitle",
	SubproofTitle:       "subprooftitle",
	Inline:              "inline",
	Fors:                "fors",
	ID:                  "id",
	Styles:              "styles",
	Language:            "language",
	InputRef:            "inputref",
	IfInputref:          "ifinputref",
	Capitalize:          "capitalize",

	Style:         "style",
	Counter:       "counter",
	CounterParent: "counter-parent",
	CounterSet:    "counter-set",

	Notation:         "notation",
	NotationFragment: "notationfragment",
	Precedence:       "precedence",
	Argprecs:         "argprecs",
	NotationComp:     "notationcomp",
	NotationOpComp:   "notationopcomp",
	Comp:             "comp",
	VarComp:          "varcomp",
	MainComp:         "maincomp",
	DefComp:          "definiendum-comp",
	ArgSep:           "argsep",
	ArgMap:           "argmap",
	ArgMapSep:        "argmap-sep",
	Definiendum:      "definiendum",

	ProblemPoints:         "problempoints",
	ProblemMinutes:        "problemminutes",
	Autogradable:          "autogradable",
	ProblemHint:           "problemhint",
	ProblemNote:           "problemnote",
	ProblemGradingNote:    "problemgnote",
	Solution:              "solution",
	AnswerClass:           "answerclass",
	AnswerClassPts:        "answerclass-pts",
	AnswerClassFeedback:   "answerclass-feedback",
	MultipleChoiceBlock:   "multiple-choice-block",
	SingleChoiceBlock:     "single-choice-block",
	ProblemChoice:         "problem-choice",
	ProblemChoiceVerdict:  "problem-choice-verdict",
	ProblemChoiceFeedback: "problem-choice-feedback",
	Fillinsol:             "fillinsol",
	FillinsolCase:         "fillin-case",
	FillinsolCaseValue:    "fillin-case-value",
	FillinsolCaseVerdict:  "fillin-case-verdict",
	PreconditionSymbol:    "precondition-symbol",
	PreconditionDimension: "precondition-dimension",
	ObjectiveSymbol:       "objective-symbol",
	ObjectiveDimension:    "objective-dimension",
}

var byName map[string]Key

func init() {
	byName = make(map[string]Key, int(numKeys))
	for k := Key(1); k < numKeys; k++ {
		byName[names[k]] = k
	}
}

// String returns the key's short name (without the attribute prefix).
func (k Key) String() string {
	if k == Invalid || k >= numKeys {
		return "invalid"
	}
	return names[k]
}

// Attr returns the full attribute name, e.g. "data-ftml-symdecl".
func (k Key) Attr() string {
	return Prefix + k.String()
}

// FromAttr maps a full attribute name back to its key. The second return is
// false for attributes outside the vocabulary (including unprefixed ones).
func FromAttr(attr string) (Key, bool) {
	name, ok := strings.CutPrefix(attr, Prefix)
	if !ok {
		return Invalid, false
	}
	k, ok := byName[name]
	return k, ok
}

// Count reports the number of recognized keys.
func Count() int { return int(numKeys) - 1 }

// All returns every recognized key in dispatch-priority order.
func All() []Key {
	out := make([]Key, 0, Count())
	for k := Key(1); k < numKeys; k++ {
		out = append(out, k)
	}
	return out
}
