package extractor

import (
	"github.com/dgallion1/ftml/document"
	ferr "github.com/dgallion1/ftml/errors"
	"github.com/dgallion1/ftml/keys"
	"github.com/dgallion1/ftml/node"
)

// closeNarrative runs the finalizer of one popped narrative frame.
func (ex *Extractor) closeNarrative(frame openNarrative, n node.Node) error {
	switch f := frame.(type) {
	case *openNarrativeContainer:
		ex.addNarrativeChild(containerElement(f))
		return nil

	case *openSection:
		_, end := n.ByteRange()
		ex.addNarrativeChild(&document.Section{
			URI:      f.uri,
			ID:       f.id,
			Title:    f.title,
			Children: f.children,
			Range:    document.SourceRange{Start: f.start, End: end},
		})
		return nil

	case *openSlide:
		ex.addNarrativeChild(&document.Slide{
			URI:      f.uri,
			Title:    f.title,
			Number:   f.number,
			Children: f.children,
		})
		return nil

	case *openParagraph:
		return ex.closeParagraph(f, n)

	case *openProblem:
		return ex.closeProblem(f, n)

	case *openVariableDecl:
		_, end := n.ByteRange()
		f.v.Range.End = end
		ex.addNarrativeChild(&document.VariableDeclaration{Variable: f.v})
		return nil

	case *openTitle:
		return ex.closeTitle(f, n)

	case *openNotation:
		return ex.closeNotation(f, n)

	case *openNotationComp:
		return ex.closeNotationComp(f, n)

	case *openMainComp:
		return ex.closeMainComp(f, n)

	case *openNotationArg:
		return ex.closeNotationArg(f, n)

	case *openSolution:
		return ex.closeSolution(f, n)

	case *openFillinSol:
		return ex.closeFillinSol(f, n)

	case *openFillinSolCase:
		return ex.closeFillinSolCase(f, n)

	case *openProblemText:
		return ex.closeProblemText(f, n)

	case *openAnswerClass:
		return ex.closeAnswerClass(f, n)

	case *openChoiceBlock:
		return ex.closeChoiceBlock(f, n)

	case *openProblemChoice:
		return ex.closeProblemChoice(f, n)

	case *openChoiceText:
		return ex.closeChoiceText(f, n)

	case *openDefiniendum:
		return ex.closeDefiniendum(f, n)

	case *openInvisible:
		return nil
	}
	return ferr.UnexpectedEndOf{Key: frame.nkind().key()}
}

func containerElement(f *openNarrativeContainer) document.Element {
	switch f.kind {
	case nModule:
		return &document.ModuleRef{URI: f.uri, Children: f.children}
	case nMathStructure:
		return &document.MathStructureRef{URI: f.uri, Children: f.children}
	case nMorphism:
		return &document.MorphismRef{URI: f.uri, Children: f.children}
	case nSlideshow:
		return &document.Slideshow{Children: f.children}
	}
	return &document.SkipSection{Children: f.children}
}

func (ex *Extractor) closeParagraph(f *openParagraph, n node.Node) error {
	_, end := n.ByteRange()
	ex.addNarrativeChild(&document.Paragraph{
		Kind:       f.kind,
		URI:        f.uri,
		ID:         f.id,
		Inline:     f.inline,
		Title:      f.title,
		Fors:       f.fors,
		Styles:     f.styles,
		Children:   f.children,
		Conclusion: f.conclusion,
		Premises:   f.premises,
		Range:      document.SourceRange{Start: f.start, End: end},
	})
	switch {
	case f.kind.IsDefinitionLike():
		for _, s := range f.fors {
			ex.triple(f.uri, document.PredDefines, s)
		}
	case f.kind == document.KindExample:
		for _, s := range f.fors {
			ex.triple(f.uri, document.PredExemplifies, s)
		}
	}
	return nil
}

// closeTitle captures the title markup verbatim and attaches it to the
// nearest titleable frame. Only sections, paragraphs, problems and slides
// take titles; a transparent frame in between does not count.
func (ex *Extractor) closeTitle(f *openTitle, n node.Node) error {
	title := n.VerbatimString()
	if f.kind == nDocTitle {
		if ex.doc.Title != "" {
			return ferr.DuplicateValue{Key: keys.DocTitle}
		}
		ex.doc.Title = title
		return nil
	}
	frames := ex.narrative.all()
	for i := len(frames) - 1; i >= 0; i-- {
		switch owner := frames[i].(type) {
		case *openInvisible:
			continue
		case *openSection:
			if owner.hasTitle {
				return ferr.DuplicateValue{Key: keys.Title}
			}
			owner.title, owner.hasTitle = title, true
			return nil
		case *openParagraph:
			if owner.hasTitle {
				return ferr.DuplicateValue{Key: keys.Title}
			}
			owner.title, owner.hasTitle = title, true
			return nil
		case *openProblem:
			if owner.hasTitle {
				return ferr.DuplicateValue{Key: keys.Title}
			}
			owner.title, owner.hasTitle = title, true
			return nil
		case *openSlide:
			if owner.hasTitle {
				return ferr.DuplicateValue{Key: keys.Title}
			}
			owner.title, owner.hasTitle = title, true
			return nil
		default:
			return ferr.NotIn{Key: keys.Title, Required: "a section, paragraph, problem or slide"}
		}
	}
	return ferr.NotIn{Key: keys.Title, Required: "a section, paragraph, problem or slide"}
}

// closeDefiniendum registers the marked symbol as a subject of the enclosing
// definition-like paragraph.
func (ex *Extractor) closeDefiniendum(f *openDefiniendum, _ node.Node) error {
	p, ok := ex.nearestParagraph()
	if !ok || !p.kind.IsDefinitionLike() {
		return ferr.NotIn{Key: keys.Definiendum, Required: "a definition"}
	}
	for _, u := range p.fors {
		if u.Eq(f.uri) {
			return nil
		}
	}
	p.fors = append(p.fors, f.uri)
	return nil
}
