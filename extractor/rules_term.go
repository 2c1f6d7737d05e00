package extractor

import (
	"strconv"
	"strings"

	"github.com/dgallion1/ftml/document"
	ferr "github.com/dgallion1/ftml/errors"
	"github.com/dgallion1/ftml/keys"
	"github.com/dgallion1/ftml/node"
	"github.com/dgallion1/ftml/uris"
)

// headTerm resolves a head attribute: a URI names a symbol, anything else is
// a variable name, resolved against the declared variables when possible.
func (ex *Extractor) headTerm(v, notation string) document.Term {
	if strings.Contains(v, "?") {
		if u, err := uris.Parse(v); err == nil {
			return &document.SymbolRef{URI: u, Notation: notation}
		}
	}
	ref := &document.VarRef{Name: v, Notation: notation}
	if decl, ok := ex.vars[v]; ok {
		ref.Declaration = decl
	}
	return ref
}

// ruleTerm opens one term frame; the attribute value selects the variant.
func ruleTerm(ex *Extractor, a *node.Attributes, n node.Node) (directive, error) {
	v, err := a.Take(keys.Term)
	if err != nil {
		return directive{}, err
	}
	notation, _, err := optString(a, keys.NotationID)
	if err != nil {
		return directive{}, err
	}
	head, hasHead, err := optString(a, keys.Head)
	if err != nil {
		return directive{}, err
	}

	// A term carrying an id is a top-level narrative term; sub-expressions
	// have none.
	var uri uris.URI
	if id, ok, ierr := optString(a, keys.ID); ierr != nil {
		return directive{}, ierr
	} else if ok {
		u, uerr := ex.elementURI(id)
		if uerr != nil {
			return directive{}, ferr.InvalidValue{Key: keys.ID, Value: id}
		}
		uri = u
	}

	needHead := func() (string, error) {
		if !hasHead {
			return "", ferr.MissingKey{Key: keys.Head}
		}
		return head, nil
	}

	switch v {
	case "OMID":
		h, herr := needHead()
		if herr != nil {
			return directive{}, herr
		}
		if !strings.Contains(h, "?") {
			return directive{}, ferr.InvalidValue{Key: keys.Head, Value: h}
		}
		u, perr := uris.Parse(h)
		if perr != nil {
			return directive{}, ferr.InvalidValue{Key: keys.Head, Value: h}
		}
		return directive{
			domain: &openSymbolRef{uri: u, notation: notation},
			close:  Close{domain: dSymbolRef},
		}, nil

	case "OMV":
		h, herr := needHead()
		if herr != nil {
			return directive{}, herr
		}
		ref := &openVarRef{name: h, notation: notation}
		if decl, ok := ex.vars[h]; ok {
			ref.declaration = decl
		}
		return directive{domain: ref, close: Close{domain: dVarRef}}, nil

	case "OMA", "OMBIND":
		h, herr := needHead()
		if herr != nil {
			return directive{}, herr
		}
		kind := dApplication
		if v == "OMBIND" {
			kind = dBinding
		}
		return directive{
			domain: &openTermFrame{kind: kind, head: ex.headTerm(h, notation), uri: uri},
			close:  Close{domain: kind},
		}, nil

	case "OML":
		h, herr := needHead()
		if herr != nil {
			return directive{}, herr
		}
		return directive{
			domain: &openLabel{name: h, uri: uri},
			close:  Close{domain: dLabel},
		}, nil

	case "complex":
		return directive{
			domain: &openComplexTerm{uri: uri},
			close:  Close{domain: dComplexTerm},
		}, nil
	}
	return directive{}, ferr.InvalidValue{Key: keys.Term, Value: v}
}

// parseArgPosition understands "2" (slot two) and "2.3" (slot two, sequence
// position three).
func parseArgPosition(v string) (index, seqIndex int, ok bool) {
	head, tail, split := strings.Cut(v, ".")
	i, err := strconv.Atoi(head)
	if err != nil || i < 1 {
		return 0, 0, false
	}
	if !split {
		return i, 0, true
	}
	j, err := strconv.Atoi(tail)
	if err != nil || j < 1 {
		return 0, 0, false
	}
	return i, j, true
}

// inNotation reports whether a notation frame is open, which flips the
// meaning of Arg and the component keys.
func (ex *Extractor) inNotation() bool {
	_, ok := ex.narrative.find(func(f openNarrative) bool {
		_, is := f.(*openNotation)
		return is
	})
	return ok
}

// ruleArg is two-level: inside a notation it is an argument placeholder of
// the component tree; elsewhere it opens an argument consumer frame.
func ruleArg(ex *Extractor, a *node.Attributes, n node.Node) (directive, error) {
	v, err := a.Take(keys.Arg)
	if err != nil {
		return directive{}, err
	}
	index, seqIndex, ok := parseArgPosition(v)
	if !ok {
		return directive{}, ferr.InvalidValue{Key: keys.Arg, Value: v}
	}

	mode := document.ArgModeSimple
	if seqIndex > 0 {
		mode = document.ArgModeSequence
	}
	if mv, has, merr := optString(a, keys.ArgMode); merr != nil {
		return directive{}, merr
	} else if has {
		if len(mv) != 1 {
			return directive{}, ferr.InvalidValue{Key: keys.ArgMode, Value: mv}
		}
		m, good := document.ParseArgMode(mv[0])
		if !good {
			return directive{}, ferr.InvalidValue{Key: keys.ArgMode, Value: mv}
		}
		mode = m
	}

	if ex.inNotation() {
		return directive{
			narrative: &openNotationArg{node: n, index: index, mode: mode},
			close:     Close{narrative: nNotationArg},
		}, nil
	}
	return directive{
		domain: &openConsumer{
			kind:     dArgument,
			node:     n,
			index:    index,
			seqIndex: seqIndex,
			mode:     mode,
		},
		close: Close{domain: dArgument},
	}, nil
}

func ruleRule(ex *Extractor, a *node.Attributes, n node.Node) (directive, error) {
	id, err := a.Take(keys.Rule)
	if err != nil {
		return directive{}, err
	}
	if id == "" {
		return directive{}, ferr.InvalidValue{Key: keys.Rule, Value: id}
	}
	return directive{
		domain: &openInferenceRule{id: id},
		close:  Close{domain: dInferenceRule},
	}, nil
}

func ruleRuleArg(_ *Extractor, a *node.Attributes, n node.Node) (directive, error) {
	if _, err := a.Take(keys.RuleArg); err != nil {
		return directive{}, err
	}
	return directive{
		domain: &openConsumer{kind: dRuleParam, node: n},
		close:  Close{domain: dRuleParam},
	}, nil
}

// ruleComp handles Comp and VarComp. Inside a notation both mark the
// symbol's own presentation; in running text they are the transparent
// domain markers that absorb stray pending terms.
func ruleComp(ex *Extractor, a *node.Attributes, n node.Node) (directive, error) {
	if _, err := a.Take(firstUnconsumed(a)); err != nil {
		return directive{}, err
	}
	if ex.inNotation() {
		return directive{
			narrative: &openMainComp{node: n},
			close:     Close{narrative: nNotationComp},
		}, nil
	}
	return directive{
		domain: &openMarker{kind: dComp},
		close:  Close{domain: dComp},
	}, nil
}

func ruleDefComp(ex *Extractor, a *node.Attributes, n node.Node) (directive, error) {
	if _, err := a.Take(keys.DefComp); err != nil {
		return directive{}, err
	}
	if ex.inNotation() {
		return directive{
			narrative: &openMainComp{node: n},
			close:     Close{narrative: nNotationComp},
		}, nil
	}
	return directive{
		domain: &openMarker{kind: dDefComp},
		close:  Close{domain: dDefComp},
	}, nil
}

// ruleMainComp only means something inside a notation.
func ruleMainComp(ex *Extractor, a *node.Attributes, n node.Node) (directive, error) {
	if _, err := a.Take(keys.MainComp); err != nil {
		return directive{}, err
	}
	if !ex.inNotation() {
		return directive{}, ferr.NotIn{Key: keys.MainComp, Required: "a notation"}
	}
	return directive{
		narrative: &openMainComp{node: n},
		close:     Close{narrative: nNotationComp},
	}, nil
}

func ruleDefiniendum(ex *Extractor, a *node.Attributes, n node.Node) (directive, error) {
	uri, err := takeURI(a, keys.Definiendum)
	if err != nil {
		return directive{}, err
	}
	return directive{
		narrative: &openDefiniendum{uri: uri, node: n},
		close:     Close{narrative: nDefiniendum},
	}, nil
}
