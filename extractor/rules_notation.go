package extractor

import (
	"strconv"
	"strings"

	ferr "github.com/dgallion1/ftml/errors"
	"github.com/dgallion1/ftml/keys"
	"github.com/dgallion1/ftml/node"
	"github.com/dgallion1/ftml/uris"
)

// ruleNotation opens a notation definition. The attribute value names the
// head: a symbol URI, or the name of a variable that must already be
// declared by the time the notation closes.
func ruleNotation(ex *Extractor, a *node.Attributes, n node.Node) (directive, error) {
	v, err := a.Take(keys.Notation)
	if err != nil {
		return directive{}, err
	}
	not := &openNotation{node: n}
	if strings.Contains(v, "?") {
		u, perr := uris.Parse(v)
		if perr != nil {
			return directive{}, ferr.InvalidValue{Key: keys.Notation, Value: v}
		}
		not.head = u
	} else {
		not.headVar = v
	}

	if not.fragment, _, err = optString(a, keys.NotationFragment); err != nil {
		return directive{}, err
	}
	if prec, ok, perr := optInt(a, keys.Precedence); perr != nil {
		return directive{}, perr
	} else if ok {
		not.precedence = prec
	}
	if a.Has(keys.Argprecs) {
		parts, lerr := a.TakeList(keys.Argprecs)
		if lerr != nil {
			return directive{}, lerr
		}
		for _, p := range parts {
			i, cerr := strconv.ParseInt(p, 10, 64)
			if cerr != nil {
				return directive{}, ferr.InvalidValue{Key: keys.Argprecs, Value: p}
			}
			not.argprecs = append(not.argprecs, i)
		}
	}

	// The notation element's own identity; generated when the source
	// declares none.
	id, _, err := optString(a, keys.ID)
	if err != nil {
		return directive{}, err
	}
	if id == "" {
		id = ex.NewID("notation")
	}
	u, uerr := ex.elementURI(id)
	if uerr != nil {
		return directive{}, ferr.InvalidValue{Key: keys.ID, Value: id}
	}
	not.uri = u

	return directive{
		narrative: not,
		close:     Close{narrative: nNotation},
	}, nil
}

// notationCompRule opens one component-tree frame of the given flavor.
func notationCompRule(kind narrativeKind) handler {
	return func(ex *Extractor, a *node.Attributes, n node.Node) (directive, error) {
		if _, err := a.Take(kind.key()); err != nil {
			return directive{}, err
		}
		if !ex.inNotation() {
			return directive{}, ferr.NotIn{Key: kind.key(), Required: "a notation"}
		}
		return directive{
			narrative: &openNotationComp{kind: kind, node: n},
			close:     Close{narrative: kind},
		}, nil
	}
}

// ruleArgMap opens an argument-map component. The separator text between
// mapped items rides along as an auxiliary attribute.
func ruleArgMap(ex *Extractor, a *node.Attributes, n node.Node) (directive, error) {
	if _, err := a.Take(keys.ArgMap); err != nil {
		return directive{}, err
	}
	sep, _, err := optString(a, keys.ArgMapSep)
	if err != nil {
		return directive{}, err
	}
	if !ex.inNotation() {
		return directive{}, ferr.NotIn{Key: keys.ArgMap, Required: "a notation"}
	}
	return directive{
		narrative: &openNotationComp{kind: nArgMap, node: n, sep: sep},
		close:     Close{narrative: nArgMap},
	}, nil
}

// ruleArgSep opens a sequence-argument separator; the attribute value names
// the argument position it separates.
func ruleArgSep(ex *Extractor, a *node.Attributes, n node.Node) (directive, error) {
	v, err := a.Take(keys.ArgSep)
	if err != nil {
		return directive{}, err
	}
	if !ex.inNotation() {
		return directive{}, ferr.NotIn{Key: keys.ArgSep, Required: "a notation"}
	}
	index := 1
	if v != "" {
		i, cerr := strconv.Atoi(v)
		if cerr != nil || i < 1 {
			return directive{}, ferr.InvalidValue{Key: keys.ArgSep, Value: v}
		}
		index = i
	}
	return directive{
		narrative: &openNotationComp{kind: nArgSep, node: n, index: index},
		close:     Close{narrative: nArgSep},
	}, nil
}
