package keys

// Placement documents where a key may appear and which sibling attributes it
// needs. The table is documentation-level: the extractor enforces placement
// through its stack discipline, not by consulting this table, but tooling
// (linters, generators) reads it as the authoritative contract.
type Placement struct {
	// AuxOf names the governing primary key, if this key only makes sense
	// alongside another attribute on the same node. Handlers for the primary
	// consume auxiliary keys themselves; an absent auxiliary is the
	// MissingKey condition, downgradeable to a no-op.
	AuxOf Key
	// Requires lists sibling attributes that must be present with this one.
	Requires []Key
	// In describes the enclosing frame the key demands, in prose.
	In string
}

var placements = map[Key]Placement{
	Metatheory: {AuxOf: Module},
	Signature:  {AuxOf: Module},

	MorphismDomain: {AuxOf: Morphism},
	MorphismTotal:  {AuxOf: Morphism},
	RenameTo:       {AuxOf: Rename},

	Args:        {AuxOf: Symdecl},
	Macroname:   {AuxOf: Symdecl},
	Role:        {AuxOf: Symdecl},
	AssocType:   {AuxOf: Symdecl},
	ReorderArgs: {AuxOf: Symdecl},

	Head:       {AuxOf: Term, Requires: []Key{Term}},
	ArgMode:    {AuxOf: Arg, Requires: []Key{Arg}},
	NotationID: {AuxOf: Term},

	Symdecl:   {In: "a module or structure"},
	Assign:    {In: "a morphism"},
	Rename:    {In: "a morphism"},
	Type:      {In: "a symbol, variable or assignment"},
	Definiens: {In: "a symbol, variable, assignment or definition paragraph"},

	Title:         {In: "a section, paragraph, problem or slide"},
	ProofTitle:    {In: "a proof"},
	SubproofTitle: {In: "a subproof"},

	Inline:    {AuxOf: Paragraph},
	Fors:      {AuxOf: Paragraph},
	Styles:    {AuxOf: Paragraph},
	ID:        {},
	Counter:   {AuxOf: Style, Requires: []Key{Style}},
	CounterParent: {AuxOf: Counter, Requires: []Key{Counter}},

	NotationFragment: {AuxOf: Notation},
	Precedence:       {AuxOf: Notation},
	Argprecs:         {AuxOf: Notation},
	NotationComp:     {In: "a notation"},
	NotationOpComp:   {In: "a notation"},
	ArgSep:           {In: "a notation component"},
	ArgMap:           {In: "a notation component"},
	ArgMapSep:        {AuxOf: ArgMap},

	ProblemPoints:         {AuxOf: Problem},
	ProblemMinutes:        {AuxOf: Problem},
	Autogradable:          {AuxOf: Problem},
	ProblemHint:           {In: "a problem"},
	ProblemNote:           {In: "a problem"},
	ProblemGradingNote:    {In: "a problem"},
	Solution:              {In: "a problem"},
	AnswerClass:           {In: "a solution or grading note"},
	AnswerClassPts:        {AuxOf: AnswerClass},
	AnswerClassFeedback:   {In: "an answer class"},
	MultipleChoiceBlock:   {In: "a problem"},
	SingleChoiceBlock:     {In: "a problem"},
	ProblemChoice:         {In: "a choice block"},
	ProblemChoiceVerdict:  {In: "a problem choice"},
	ProblemChoiceFeedback: {In: "a problem choice"},
	Fillinsol:             {In: "a problem"},
	FillinsolCase:         {In: "a fill-in solution"},
	FillinsolCaseValue:    {AuxOf: FillinsolCase},
	FillinsolCaseVerdict:  {AuxOf: FillinsolCase},
	PreconditionDimension: {AuxOf: PreconditionSymbol},
	PreconditionSymbol:    {In: "a problem"},
	ObjectiveDimension:    {AuxOf: ObjectiveSymbol},
	ObjectiveSymbol:       {In: "a problem"},
}

// Spec returns the placement contract for a key. Keys with no declared
// constraints return the zero Placement.
func Spec(k Key) Placement { return placements[k] }

// IsAuxiliary reports whether a key is only meaningful alongside a governing
// primary attribute on the same node.
func (k Key) IsAuxiliary() bool { return placements[k].AuxOf != Invalid }
