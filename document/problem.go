package document

import "github.com/dgallion1/ftml/uris"

// ProblemData carries everything gradable about a problem. Large text
// (solutions, hints, feedback) lives in the blob buffer; the structures here
// hold opaque handles so the in-memory document stays compact.
type ProblemData struct {
	Points       float64
	Minutes      float64
	Autogradable bool

	Solutions     []SolutionData
	Hints         []BlobRef
	Notes         []BlobRef
	GradingNotes  []GradingNote
	AnswerClasses []AnswerClass

	Preconditions []CognitivePair
	Objectives    []CognitivePair
}

// SolutionData is one entry of a problem's ordered solutions sequence.
type SolutionData interface {
	solutionData()
}

// Solution is a plain solution text, captured verbatim into the blob buffer.
type Solution struct {
	Blob BlobRef
	// AnswerClass ties the solution to a grading class, if any.
	AnswerClass string
}

// ChoiceBlock is a single- or multiple-choice question.
type ChoiceBlock struct {
	Multiple bool
	// Inline blocks render within running text.
	Inline  bool
	Choices []Choice
}

// Choice is one selectable option.
type Choice struct {
	Correct bool
	// Verdict is the text shown for the choice's correctness; defaults to
	// "correct"/"wrong" when the source declares none.
	Verdict  string
	Feedback BlobRef
}

// FillInSol is a fill-in-the-blank solution. The first case is always the
// literal displayed text, graded correct; declared cases follow.
type FillInSol struct {
	// Width is the rendered input width hint, 0 when unspecified.
	Width int
	Cases []FillInCase
}

// FillInCaseKind distinguishes the matcher of one fill-in case.
type FillInCaseKind string

const (
	FillInExact    FillInCaseKind = "exact"
	FillInRegex    FillInCaseKind = "regex"
	FillInNumRange FillInCaseKind = "numrange"
)

// ParseFillInCaseKind validates a fillin-case attribute value.
func ParseFillInCaseKind(s string) (FillInCaseKind, bool) {
	switch FillInCaseKind(s) {
	case FillInExact, FillInRegex, FillInNumRange:
		return FillInCaseKind(s), true
	}
	return "", false
}

// FillInCase is one matcher with its grading verdict and feedback.
type FillInCase struct {
	Kind FillInCaseKind
	// Value is the exact text, the regex pattern, or the "low-high" range
	// depending on Kind.
	Value string
	// Low and High bound numeric-range cases, inclusive.
	Low, High float64
	Correct   bool
	Feedback  BlobRef
}

// GradingNote pairs grading instructions with the answer classes they apply
// to.
type GradingNote struct {
	Blob          BlobRef
	AnswerClasses []AnswerClass
}

// AnswerClass is one category of student answers with its point delta.
type AnswerClass struct {
	ID          string
	Points      float64
	Description BlobRef
	Feedback    BlobRef
}

// CognitiveDimension is a Bloom-taxonomy dimension.
type CognitiveDimension string

const (
	DimRemember   CognitiveDimension = "remember"
	DimUnderstand CognitiveDimension = "understand"
	DimApply      CognitiveDimension = "apply"
	DimAnalyze    CognitiveDimension = "analyze"
	DimEvaluate   CognitiveDimension = "evaluate"
	DimCreate     CognitiveDimension = "create"
)

// ParseCognitiveDimension validates a dimension attribute value.
func ParseCognitiveDimension(s string) (CognitiveDimension, bool) {
	switch CognitiveDimension(s) {
	case DimRemember, DimUnderstand, DimApply, DimAnalyze, DimEvaluate, DimCreate:
		return CognitiveDimension(s), true
	}
	return "", false
}

// CognitivePair ties a dimension to the symbol it applies to.
type CognitivePair struct {
	Dimension CognitiveDimension
	Symbol    uris.URI
}

func (*Solution) solutionData()    {}
func (*ChoiceBlock) solutionData() {}
func (*FillInSol) solutionData()   {}
