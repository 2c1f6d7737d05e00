// Package document holds the finished entities the extraction engine
// produces: one immutable Document tree per parse, the flat list of modules
// declared in it, notations, problem data and the blob buffer backing large
// auxiliary text.
package document

import "github.com/dgallion1/ftml/uris"

// Document is the narrative result of one parse pass.
type Document struct {
	URI   uris.URI
	Title string // verbatim HTML of the doctitle, if any
	Kind  Kind

	// TopSectionLevel is the declared level of the document's top sections.
	TopSectionLevel SectionLevel

	Elements []Element

	Styles   []StyleRule
	Counters []Counter
}

// Kind classifies a document.
type Kind string

const (
	KindArticle  Kind = "article"
	KindFragment Kind = "fragment"
	KindExam     Kind = "exam"
	KindQuiz     Kind = "quiz"
	KindHomework Kind = "homework"
)

// ParseKind validates a document-kind attribute value.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindArticle, KindFragment, KindExam, KindQuiz, KindHomework:
		return Kind(s), true
	}
	return "", false
}

// SectionLevel is the hierarchy position of a section.
type SectionLevel int8

const (
	LevelPart SectionLevel = iota
	LevelChapter
	LevelSection
	LevelSubsection
	LevelSubsubsection
	LevelParagraph
)

var levelNames = map[string]SectionLevel{
	"part":          LevelPart,
	"chapter":       LevelChapter,
	"section":       LevelSection,
	"subsection":    LevelSubsection,
	"subsubsection": LevelSubsubsection,
	"paragraph":     LevelParagraph,
}

// ParseSectionLevel maps an attribute value to a level. Both the name form
// ("subsection") and the numeric form ("3") are accepted.
func ParseSectionLevel(s string) (SectionLevel, bool) {
	if l, ok := levelNames[s]; ok {
		return l, true
	}
	if len(s) == 1 && s[0] >= '0' && s[0] <= '5' {
		return SectionLevel(s[0] - '0'), true
	}
	return 0, false
}

func (l SectionLevel) String() string {
	for name, v := range levelNames {
		if v == l {
			return name
		}
	}
	return "invalid"
}

// Inc returns the next-deeper level, saturating at paragraph level.
func (l SectionLevel) Inc() SectionLevel {
	if l >= LevelParagraph {
		return LevelParagraph
	}
	return l + 1
}

// StyleRule declares a presentation style for a paragraph or section kind,
// optionally tied to a counter.
type StyleRule struct {
	Kind    string
	Name    string
	Counter string
}

// Counter is a document-level numbering counter. Parent, when set, is the
// section level at which the counter resets.
type Counter struct {
	Name   string
	Parent *SectionLevel
}

// SourceRange is a byte span in the source document.
type SourceRange struct {
	Start int
	End   int
}
