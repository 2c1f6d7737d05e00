package extractor

import (
	"strings"

	"github.com/dgallion1/ftml/document"
	ferr "github.com/dgallion1/ftml/errors"
	"github.com/dgallion1/ftml/keys"
	"github.com/dgallion1/ftml/node"
)

// closeProblem serializes the gradable data, files the solution blob under
// the problem's URI, and emits the narrative element.
func (ex *Extractor) closeProblem(f *openProblem, n node.Node) error {
	_, end := n.ByteRange()
	if len(f.data.Solutions) > 0 {
		blob, err := ex.blobs.WriteJSON(f.data.Solutions)
		if err != nil {
			return ferr.EncodingError{What: "solutions", Err: err}
		}
		ex.solutions[f.uri.String()] = blob
	}
	ex.addNarrativeChild(&document.Problem{
		URI:        f.uri,
		ID:         f.id,
		SubProblem: f.sub,
		Data:       f.data,
		Children:   f.children,
		Range:      document.SourceRange{Start: f.start, End: end},
	})
	return nil
}

// closeSolution captures the solution markup into the blob buffer and strips
// it from the visible tree.
func (ex *Extractor) closeSolution(f *openSolution, n node.Node) error {
	p, ok := ex.nearestProblem()
	if !ok {
		return ferr.NotIn{Key: keys.Solution, Required: "a problem"}
	}
	blob := ex.blobs.WriteString(n.VerbatimString())
	n.Delete()
	p.data.Solutions = append(p.data.Solutions, &document.Solution{
		Blob:        blob,
		AnswerClass: f.answerClass,
	})
	return nil
}

// closeFillinSol finishes a fill-in-the-blank input. The displayed text is
// always the first case, graded correct; declared cases follow. The input
// node itself stays in the tree.
func (ex *Extractor) closeFillinSol(f *openFillinSol, n node.Node) error {
	p, ok := ex.nearestProblem()
	if !ok {
		return ferr.NotIn{Key: keys.Fillinsol, Required: "a problem"}
	}
	cases := make([]document.FillInCase, 0, len(f.cases)+1)
	if shown := strings.TrimSpace(n.InnerString()); shown != "" {
		cases = append(cases, document.FillInCase{
			Kind:    document.FillInExact,
			Value:   shown,
			Correct: true,
		})
	}
	cases = append(cases, f.cases...)
	p.data.Solutions = append(p.data.Solutions, &document.FillInSol{
		Width: f.width,
		Cases: cases,
	})
	return nil
}

func (ex *Extractor) closeFillinSolCase(f *openFillinSolCase, n node.Node) error {
	sol, ok := ex.narrative.find(func(fr openNarrative) bool {
		_, is := fr.(*openFillinSol)
		return is
	})
	if !ok {
		return ferr.NotIn{Key: keys.FillinsolCase, Required: "a fill-in solution"}
	}
	c := document.FillInCase{
		Kind:     f.kind,
		Value:    f.value,
		Correct:  f.correct,
		Feedback: ex.blobs.WriteString(n.VerbatimString()),
	}
	if c.Value == "" && f.kind == document.FillInExact {
		c.Value = strings.TrimSpace(n.InnerString())
	}
	if f.kind == document.FillInNumRange {
		// The value was validated when the frame opened.
		c.Low, c.High, _ = parseNumRange(f.value)
	}
	fs := sol.(*openFillinSol)
	fs.cases = append(fs.cases, c)
	n.Delete()
	return nil
}

// closeProblemText files a hint, note or grading note and strips the node.
func (ex *Extractor) closeProblemText(f *openProblemText, n node.Node) error {
	p, ok := ex.nearestProblem()
	if !ok {
		return ferr.NotIn{Key: f.kind.key(), Required: "a problem"}
	}
	blob := ex.blobs.WriteString(n.VerbatimString())
	n.Delete()
	switch f.kind {
	case nProblemHint:
		p.data.Hints = append(p.data.Hints, blob)
	case nProblemExNote:
		p.data.Notes = append(p.data.Notes, blob)
	case nProblemGradingNote:
		p.data.GradingNotes = append(p.data.GradingNotes, document.GradingNote{
			Blob:          blob,
			AnswerClasses: f.answerClasses,
		})
	}
	return nil
}

// closeAnswerClass attaches the class to the enclosing grading note when one
// is open, otherwise to the problem itself.
func (ex *Extractor) closeAnswerClass(f *openAnswerClass, n node.Node) error {
	ac := document.AnswerClass{
		ID:          f.id,
		Points:      f.points,
		Description: ex.blobs.WriteString(n.InnerString()),
		Feedback:    f.feedback,
	}
	if g, ok := ex.narrative.find(func(fr openNarrative) bool {
		t, is := fr.(*openProblemText)
		return is && t.kind == nProblemGradingNote
	}); ok {
		note := g.(*openProblemText)
		note.answerClasses = append(note.answerClasses, ac)
		return nil
	}
	p, ok := ex.nearestProblem()
	if !ok {
		return ferr.NotIn{Key: keys.AnswerClass, Required: "a problem"}
	}
	p.data.AnswerClasses = append(p.data.AnswerClasses, ac)
	return nil
}

func (ex *Extractor) closeChoiceBlock(f *openChoiceBlock, _ node.Node) error {
	p, ok := ex.nearestProblem()
	if !ok {
		key := keys.SingleChoiceBlock
		if f.multiple {
			key = keys.MultipleChoiceBlock
		}
		return ferr.NotIn{Key: key, Required: "a problem"}
	}
	p.data.Solutions = append(p.data.Solutions, &document.ChoiceBlock{
		Multiple: f.multiple,
		Inline:   f.inline,
		Choices:  f.choices,
	})
	return nil
}

func (ex *Extractor) closeProblemChoice(f *openProblemChoice, n node.Node) error {
	b, ok := ex.narrative.find(func(fr openNarrative) bool {
		_, is := fr.(*openChoiceBlock)
		return is
	})
	if !ok {
		return ferr.NotIn{Key: keys.ProblemChoice, Required: "a choice block"}
	}
	verdict := f.verdict
	if verdict == "" {
		if f.correct {
			verdict = "correct"
		} else {
			verdict = "wrong"
		}
	}
	block := b.(*openChoiceBlock)
	block.choices = append(block.choices, document.Choice{
		Correct:  f.correct,
		Verdict:  verdict,
		Feedback: f.feedback,
	})
	n.Delete()
	return nil
}

// closeChoiceText files a verdict or feedback on the enclosing choice and
// strips the node.
func (ex *Extractor) closeChoiceText(f *openChoiceText, n node.Node) error {
	c, ok := ex.narrative.find(func(fr openNarrative) bool {
		_, is := fr.(*openProblemChoice)
		return is
	})
	if !ok {
		return ferr.NotIn{Key: f.kind.key(), Required: "a choice"}
	}
	choice := c.(*openProblemChoice)
	switch f.kind {
	case nChoiceVerdict:
		choice.verdict = strings.TrimSpace(n.InnerString())
	case nChoiceFeedback:
		choice.feedback = ex.blobs.WriteString(n.VerbatimString())
	}
	n.Delete()
	return nil
}
