package extractor

import (
	"github.com/dgallion1/ftml/document"
	ferr "github.com/dgallion1/ftml/errors"
	"github.com/dgallion1/ftml/keys"
	"github.com/dgallion1/ftml/node"
	"github.com/dgallion1/ftml/uris"
)

func ruleDocTitle(_ *Extractor, a *node.Attributes, n node.Node) (directive, error) {
	if _, err := a.Take(keys.DocTitle); err != nil {
		return directive{}, err
	}
	return directive{
		narrative: &openTitle{kind: nDocTitle, node: n},
		close:     Close{narrative: nDocTitle},
	}, nil
}

// ruleDocKind is a meta instruction setting the document's classification.
func ruleDocKind(ex *Extractor, a *node.Attributes, _ node.Node) (directive, error) {
	v, err := a.Take(keys.DocKind)
	if err != nil {
		return directive{}, err
	}
	kind, ok := document.ParseKind(v)
	if !ok {
		return directive{}, ferr.InvalidValue{Key: keys.DocKind, Value: v}
	}
	ex.doc.Kind = kind
	return directive{}, nil
}

func ruleTitle(_ *Extractor, a *node.Attributes, n node.Node) (directive, error) {
	if _, err := a.Take(firstUnconsumed(a)); err != nil {
		return directive{}, err
	}
	return directive{
		narrative: &openTitle{kind: nTitle, node: n},
		close:     Close{narrative: nTitle},
	}, nil
}

func ruleSection(ex *Extractor, a *node.Attributes, n node.Node) (directive, error) {
	uri, err := takeURI(a, keys.Section)
	if err != nil {
		return directive{}, err
	}
	id, _, err := optString(a, keys.ID)
	if err != nil {
		return directive{}, err
	}
	if id == "" {
		id = ex.NewID("section")
	}
	start, _ := n.ByteRange()
	return directive{
		narrative: &openSection{uri: uri, id: id, start: start},
		close:     Close{narrative: nSection},
	}, nil
}

// containerRule opens a plain narrative container of the given kind.
func containerRule(kind narrativeKind) handler {
	return func(_ *Extractor, a *node.Attributes, _ node.Node) (directive, error) {
		if _, err := a.Take(kind.key()); err != nil {
			return directive{}, err
		}
		return directive{
			narrative: &openNarrativeContainer{kind: kind},
			close:     Close{narrative: kind},
		}, nil
	}
}

// ruleSetSectionLevel is a meta instruction: it declares the level of the
// document's top sections.
func ruleSetSectionLevel(ex *Extractor, a *node.Attributes, _ node.Node) (directive, error) {
	v, err := a.Take(keys.SetSectionLevel)
	if err != nil {
		return directive{}, err
	}
	lvl, ok := document.ParseSectionLevel(v)
	if !ok {
		return directive{}, ferr.InvalidValue{Key: keys.SetSectionLevel, Value: v}
	}
	ex.doc.TopSectionLevel = lvl
	return directive{}, nil
}

func paragraphRule(kind document.ParagraphKind) handler {
	return func(ex *Extractor, a *node.Attributes, n node.Node) (directive, error) {
		key := keys.Paragraph
		switch kind {
		case document.KindDefinition:
			key = keys.Definition
		case document.KindAssertion:
			key = keys.Assertion
		case document.KindExample:
			key = keys.Example
		case document.KindProof:
			key = keys.Proof
		case document.KindSubProof:
			key = keys.SubProof
		}
		v, err := a.Take(key)
		if err != nil {
			return directive{}, err
		}
		p := &openParagraph{kind: kind}
		if v != "" {
			u, perr := uris.Parse(v)
			if perr != nil {
				return directive{}, ferr.InvalidValue{Key: key, Value: v}
			}
			p.uri = u
		}
		if p.id, _, err = optString(a, keys.ID); err != nil {
			return directive{}, err
		}
		if p.inline, _, err = optBool(a, keys.Inline); err != nil {
			return directive{}, err
		}
		if a.Has(keys.Fors) {
			fors, ferr2 := a.TakeList(keys.Fors)
			if ferr2 != nil {
				return directive{}, ferr2
			}
			for _, f := range fors {
				u, perr := uris.Parse(f)
				if perr != nil {
					return directive{}, ferr.InvalidValue{Key: keys.Fors, Value: f}
				}
				p.fors = append(p.fors, u)
			}
		}
		if a.Has(keys.Styles) {
			styles, serr := a.TakeList(keys.Styles)
			if serr != nil {
				return directive{}, serr
			}
			p.styles = styles
		}
		p.start, _ = n.ByteRange()
		return directive{
			narrative: p,
			close:     Close{narrative: nParagraph},
		}, nil
	}
}

func ruleSlide(ex *Extractor, a *node.Attributes, _ node.Node) (directive, error) {
	v, err := a.Take(keys.Slide)
	if err != nil {
		return directive{}, err
	}
	s := &openSlide{}
	if v != "" {
		u, perr := uris.Parse(v)
		if perr != nil {
			return directive{}, ferr.InvalidValue{Key: keys.Slide, Value: v}
		}
		s.uri = u
	}
	if num, ok, nerr := optInt(a, keys.SlideNumber); nerr != nil {
		return directive{}, nerr
	} else if ok {
		s.number = int(num)
	}
	return directive{
		narrative: s,
		close:     Close{narrative: nSlide},
	}, nil
}

func problemRule(sub bool) handler {
	return func(ex *Extractor, a *node.Attributes, n node.Node) (directive, error) {
		key := keys.Problem
		if sub {
			key = keys.SubProblem
		}
		uri, err := takeURI(a, key)
		if err != nil {
			return directive{}, err
		}
		p := &openProblem{uri: uri, sub: sub, data: &document.ProblemData{}}
		if p.id, _, err = optString(a, keys.ID); err != nil {
			return directive{}, err
		}
		if pts, ok, perr := optFloat(a, keys.ProblemPoints); perr != nil {
			return directive{}, perr
		} else if ok {
			p.data.Points = pts
		}
		if mins, ok, merr := optFloat(a, keys.ProblemMinutes); merr != nil {
			return directive{}, merr
		} else if ok {
			p.data.Minutes = mins
		}
		if ag, ok, aerr := optBool(a, keys.Autogradable); aerr != nil {
			return directive{}, aerr
		} else if ok {
			p.data.Autogradable = ag
		}
		p.start, _ = n.ByteRange()
		return directive{
			narrative: p,
			close:     Close{narrative: nProblem},
		}, nil
	}
}

// ruleStyle is a meta instruction: it declares a presentation style and,
// through its auxiliary keys, the counter backing it. Counter must be
// consumed here so generic dispatch does not re-process it; CounterParent
// only makes sense once Counter was seen.
func ruleStyle(ex *Extractor, a *node.Attributes, _ node.Node) (directive, error) {
	v, err := a.Take(keys.Style)
	if err != nil {
		return directive{}, err
	}
	kind, name, _ := cutStyle(v)
	rule := document.StyleRule{Kind: kind, Name: name}

	counter, hasCounter, err := optString(a, keys.Counter)
	if err != nil {
		return directive{}, err
	}
	if hasCounter {
		rule.Counter = counter
		c := document.Counter{Name: counter}
		if pv, ok, perr := optString(a, keys.CounterParent); perr != nil {
			return directive{}, perr
		} else if ok {
			lvl, good := document.ParseSectionLevel(pv)
			if !good {
				return directive{}, ferr.InvalidValue{Key: keys.CounterParent, Value: pv}
			}
			c.Parent = &lvl
		}
		ex.doc.Counters = append(ex.doc.Counters, c)
	} else if a.Has(keys.CounterParent) {
		// CounterParent without Counter: downgraded MissingKey.
		_, _ = a.Take(keys.CounterParent)
		ex.warn("counter-parent without counter", "style", v)
	}
	ex.doc.Styles = append(ex.doc.Styles, rule)
	return directive{}, nil
}

// cutStyle splits "kind:name" style values; a bare value is a kind.
func cutStyle(v string) (kind, name string, split bool) {
	for i := 0; i < len(v); i++ {
		if v[i] == ':' {
			return v[:i], v[i+1:], true
		}
	}
	return v, "", false
}

// ruleCounter declares a standalone counter.
func ruleCounter(ex *Extractor, a *node.Attributes, _ node.Node) (directive, error) {
	name, err := a.Take(keys.Counter)
	if err != nil {
		return directive{}, err
	}
	c := document.Counter{Name: name}
	if pv, ok, perr := optString(a, keys.CounterParent); perr != nil {
		return directive{}, perr
	} else if ok {
		lvl, good := document.ParseSectionLevel(pv)
		if !good {
			return directive{}, ferr.InvalidValue{Key: keys.CounterParent, Value: pv}
		}
		c.Parent = &lvl
	}
	ex.doc.Counters = append(ex.doc.Counters, c)
	return directive{}, nil
}

// ruleCounterSet validates a renderer-level counter assignment.
func ruleCounterSet(_ *Extractor, a *node.Attributes, _ node.Node) (directive, error) {
	_, err := a.Take(keys.CounterSet)
	return directive{}, err
}

// ruleInputRef is a meta instruction inserting a transclusion reference.
func ruleInputRef(ex *Extractor, a *node.Attributes, _ node.Node) (directive, error) {
	target, err := takeURI(a, keys.InputRef)
	if err != nil {
		return directive{}, err
	}
	id, _, err := optString(a, keys.ID)
	if err != nil {
		return directive{}, err
	}
	if id == "" {
		id = ex.NewID("inputref")
	}
	ex.addNarrativeChild(&document.InputRef{Target: target, ID: id})
	ex.triple(ex.doc.URI, document.PredInputrefs, target)
	return directive{}, nil
}

// ruleIfInputref validates the visibility flag; the renderer interprets it.
func ruleIfInputref(_ *Extractor, a *node.Attributes, _ node.Node) (directive, error) {
	_, err := a.TakeBool(keys.IfInputref)
	return directive{}, err
}

// ruleCurrentSectionLevel resolves the placeholder against the declared top
// section level and leaves the resolved name on the node for the renderer.
func ruleCurrentSectionLevel(ex *Extractor, a *node.Attributes, n node.Node) (directive, error) {
	if _, err := a.Take(keys.CurrentSectionLevel); err != nil {
		return directive{}, err
	}
	capitalize, _, err := optBool(a, keys.Capitalize)
	if err != nil {
		return directive{}, err
	}
	name := ex.doc.TopSectionLevel.String()
	if capitalize && name != "" {
		name = string(name[0]-'a'+'A') + name[1:]
	}
	n.SetAttribute(keys.Prefix+"resolved-level", name)
	return directive{}, nil
}

func ruleInvisible(_ *Extractor, a *node.Attributes, _ node.Node) (directive, error) {
	if _, err := a.TakeBool(keys.Invisible); err != nil {
		return directive{}, err
	}
	return directive{
		narrative: &openInvisible{},
		close:     Close{narrative: nInvisible},
	}, nil
}
