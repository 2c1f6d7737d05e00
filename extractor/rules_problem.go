package extractor

import (
	"strconv"
	"strings"

	"github.com/dgallion1/ftml/document"
	ferr "github.com/dgallion1/ftml/errors"
	"github.com/dgallion1/ftml/keys"
	"github.com/dgallion1/ftml/node"
)

func ruleSolution(_ *Extractor, a *node.Attributes, n node.Node) (directive, error) {
	v, err := a.Take(keys.Solution)
	if err != nil {
		return directive{}, err
	}
	return directive{
		narrative: &openSolution{node: n, answerClass: v},
		close:     Close{narrative: nSolution},
	}, nil
}

// problemTextRule covers hints, notes and grading notes: capture at close.
func problemTextRule(kind narrativeKind) handler {
	return func(_ *Extractor, a *node.Attributes, n node.Node) (directive, error) {
		if _, err := a.Take(kind.key()); err != nil {
			return directive{}, err
		}
		return directive{
			narrative: &openProblemText{kind: kind, node: n},
			close:     Close{narrative: kind},
		}, nil
	}
}

func ruleAnswerClass(_ *Extractor, a *node.Attributes, n node.Node) (directive, error) {
	id, err := a.Take(keys.AnswerClass)
	if err != nil {
		return directive{}, err
	}
	ac := &openAnswerClass{node: n, id: id}
	if pts, ok, perr := optFloat(a, keys.AnswerClassPts); perr != nil {
		return directive{}, perr
	} else if ok {
		ac.points = pts
	}
	return directive{
		narrative: ac,
		close:     Close{narrative: nAnswerClass},
	}, nil
}

// ruleAnswerClassFeedback is a meta instruction: the feedback text attaches
// to the nearest open answer class immediately and the node disappears from
// the visible tree.
func ruleAnswerClassFeedback(ex *Extractor, a *node.Attributes, n node.Node) (directive, error) {
	if _, err := a.Take(keys.AnswerClassFeedback); err != nil {
		return directive{}, err
	}
	f, ok := ex.narrative.find(func(f openNarrative) bool {
		_, is := f.(*openAnswerClass)
		return is
	})
	if !ok {
		return directive{}, ferr.NotIn{Key: keys.AnswerClassFeedback, Required: "an answer class"}
	}
	ac := f.(*openAnswerClass)
	ac.feedback = ex.blobs.WriteString(n.VerbatimString())
	n.Delete()
	return directive{}, nil
}

func choiceBlockRule(multiple bool) handler {
	return func(_ *Extractor, a *node.Attributes, n node.Node) (directive, error) {
		key := keys.SingleChoiceBlock
		if multiple {
			key = keys.MultipleChoiceBlock
		}
		if _, err := a.Take(key); err != nil {
			return directive{}, err
		}
		b := &openChoiceBlock{node: n, multiple: multiple}
		if inline, _, ierr := optBool(a, keys.Inline); ierr != nil {
			return directive{}, ierr
		} else {
			b.inline = inline
		}
		return directive{
			narrative: b,
			close:     Close{narrative: nChoiceBlock},
		}, nil
	}
}

func ruleProblemChoice(_ *Extractor, a *node.Attributes, n node.Node) (directive, error) {
	correct, err := a.TakeBool(keys.ProblemChoice)
	if err != nil {
		return directive{}, err
	}
	return directive{
		narrative: &openProblemChoice{node: n, correct: correct},
		close:     Close{narrative: nProblemChoice},
	}, nil
}

func choiceTextRule(kind narrativeKind) handler {
	return func(_ *Extractor, a *node.Attributes, n node.Node) (directive, error) {
		if _, err := a.Take(kind.key()); err != nil {
			return directive{}, err
		}
		return directive{
			narrative: &openChoiceText{kind: kind, node: n},
			close:     Close{narrative: kind},
		}, nil
	}
}

func ruleFillinsol(_ *Extractor, a *node.Attributes, n node.Node) (directive, error) {
	v, err := a.Take(keys.Fillinsol)
	if err != nil {
		return directive{}, err
	}
	f := &openFillinSol{node: n}
	if v != "" {
		w, cerr := strconv.Atoi(v)
		if cerr != nil || w < 0 {
			return directive{}, ferr.InvalidValue{Key: keys.Fillinsol, Value: v}
		}
		f.width = w
	}
	return directive{
		narrative: f,
		close:     Close{narrative: nFillinSol},
	}, nil
}

// parseNumRange understands "[40,45]" and "40-45".
func parseNumRange(v string) (low, high float64, ok bool) {
	s := strings.TrimSpace(v)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	var parts []string
	if strings.Contains(s, ",") {
		parts = strings.SplitN(s, ",", 2)
	} else if i := strings.LastIndex(s, "-"); i > 0 {
		parts = []string{s[:i], s[i+1:]}
	} else {
		return 0, 0, false
	}
	l, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	h, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil || l > h {
		return 0, 0, false
	}
	return l, h, true
}

func ruleFillinsolCase(_ *Extractor, a *node.Attributes, n node.Node) (directive, error) {
	v, err := a.Take(keys.FillinsolCase)
	if err != nil {
		return directive{}, err
	}
	kind, ok := document.ParseFillInCaseKind(v)
	if !ok {
		return directive{}, ferr.InvalidValue{Key: keys.FillinsolCase, Value: v}
	}
	c := &openFillinSolCase{node: n, kind: kind, correct: true}
	value, hasValue, verr := optString(a, keys.FillinsolCaseValue)
	if verr != nil {
		return directive{}, verr
	}
	if hasValue {
		c.value = value
	}
	if kind == document.FillInNumRange {
		if _, _, good := parseNumRange(c.value); !good {
			return directive{}, ferr.InvalidValue{Key: keys.FillinsolCaseValue, Value: c.value}
		}
	}
	if correct, has, cerr := optBool(a, keys.FillinsolCaseVerdict); cerr != nil {
		return directive{}, cerr
	} else if has {
		c.correct = correct
	}
	return directive{
		narrative: c,
		close:     Close{narrative: nFillinSolCase},
	}, nil
}

// cognitiveRule covers preconditions and objectives: meta instructions
// attaching a (dimension, symbol) pair to the nearest open problem.
func cognitiveRule(dimKey keys.Key, pred document.Predicate) handler {
	symKey := keys.PreconditionSymbol
	if dimKey == keys.ObjectiveDimension {
		symKey = keys.ObjectiveSymbol
	}
	return func(ex *Extractor, a *node.Attributes, _ node.Node) (directive, error) {
		sym, err := takeURI(a, symKey)
		if err != nil {
			return directive{}, err
		}
		dv, err := a.Take(dimKey)
		if err != nil {
			return directive{}, err
		}
		dim, ok := document.ParseCognitiveDimension(dv)
		if !ok {
			return directive{}, ferr.InvalidValue{Key: dimKey, Value: dv}
		}
		p, ok := ex.nearestProblem()
		if !ok {
			return directive{}, ferr.NotIn{Key: symKey, Required: "a problem"}
		}
		pair := document.CognitivePair{Dimension: dim, Symbol: sym}
		if pred == document.PredPrecondition {
			p.data.Preconditions = append(p.data.Preconditions, pair)
		} else {
			p.data.Objectives = append(p.data.Objectives, pair)
		}
		ex.triple(p.uri, pred, sym)
		return directive{}, nil
	}
}
