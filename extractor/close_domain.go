package extractor

import (
	"github.com/dgallion1/ftml/document"
	ferr "github.com/dgallion1/ftml/errors"
	"github.com/dgallion1/ftml/keys"
	"github.com/dgallion1/ftml/node"
	"github.com/dgallion1/ftml/uris"
)

// closeDomain runs the finalizer of one popped domain frame.
func (ex *Extractor) closeDomain(frame openDomain, n node.Node) error {
	switch f := frame.(type) {
	case *openModule:
		_, end := n.ByteRange()
		m := &document.Module{
			URI:          f.uri,
			Meta:         f.meta,
			Signature:    f.signature,
			Declarations: f.decls,
			Range:        document.SourceRange{Start: f.start, End: end},
		}
		// A module closing inside another module-like frame is nested;
		// otherwise it is a top-level result.
		if err := ex.addDeclaration(&document.NestedModule{Module: m}, keys.Module); err != nil {
			ex.modules = append(ex.modules, m)
		}
		ex.triple(ex.doc.URI, document.PredContains, f.uri)
		return nil

	case *openMathStructure:
		_, end := n.ByteRange()
		return ex.addDeclaration(&document.MathStructure{
			URI:          f.uri,
			Macroname:    f.macroname,
			Declarations: f.decls,
			Range:        document.SourceRange{Start: f.start, End: end},
		}, keys.MathStructure)

	case *openExtension:
		_, end := n.ByteRange()
		return ex.addDeclaration(&document.Extension{
			URI:          f.uri,
			Target:       f.target,
			Declarations: f.decls,
			Range:        document.SourceRange{Start: f.start, End: end},
		}, keys.Extension)

	case *openMorphism:
		_, end := n.ByteRange()
		return ex.addDeclaration(&document.Morphism{
			URI:          f.uri,
			Domain:       f.domain,
			Total:        f.total,
			Declarations: f.decls,
			Range:        document.SourceRange{Start: f.start, End: end},
		}, keys.Morphism)

	case *openSymbolDecl:
		return ex.closeSymbolDecl(f, n)

	case *openSymbolRef:
		return ex.pendingTerm(&document.SymbolRef{URI: f.uri, Notation: f.notation}, n)

	case *openVarRef:
		return ex.pendingTerm(&document.VarRef{
			Name:        f.name,
			Declaration: f.declaration,
			Notation:    f.notation,
		}, n)

	case *openTermFrame:
		args, err := f.resolveArgs()
		if err != nil {
			return err
		}
		var t document.Term
		if f.kind == dBinding {
			t = &document.Binding{Head: f.head, Presentation: f.headPres, Args: args}
		} else {
			t = &document.Application{Head: f.head, Presentation: f.headPres, Args: args}
		}
		return ex.routeTerm(t, f.uri, n)

	case *openLabel:
		return ex.routeTerm(&document.Label{
			Name:      f.name,
			Type:      f.typ,
			Definiens: f.definiens,
		}, f.uri, n)

	case *openInferenceRule:
		return ex.routeTerm(&document.InferenceRule{ID: f.id, Params: f.params}, f.uri, n)

	case *openComplexTerm:
		return ex.routeTerm(&document.ComplexApplication{
			Head:         f.head,
			Presentation: f.pres,
		}, f.uri, n)

	case *openConsumer:
		return ex.closeConsumer(f, n)

	case *openAssign:
		m, ok := ex.domain.find(func(f openDomain) bool {
			_, is := f.(*openMorphism)
			return is
		})
		if !ok {
			return ferr.NotIn{Key: keys.Assign, Required: "a morphism"}
		}
		morph := m.(*openMorphism)
		morph.decls = append(morph.decls, &document.Assignment{
			Target:    f.target,
			Definiens: f.definiens,
			Refined:   f.refined,
		})
		return nil

	case *openMarker:
		// Transparent: anything it absorbed was dropped on purpose.
		return nil
	}
	return ferr.UnexpectedEndOf{Key: frame.dkind().key()}
}

func (ex *Extractor) closeSymbolDecl(f *openSymbolDecl, n node.Node) error {
	_, end := n.ByteRange()
	sym := &document.Symbol{
		URI:         f.uri,
		Arity:       f.arity,
		Macroname:   f.macroname,
		Roles:       f.roles,
		AssocType:   f.assocType,
		ReorderArgs: f.reorderArgs,
		Type:        f.typ,
		Definiens:   f.definiens,
		ReturnType:  f.returnType,
		ArgTypes:    f.argTypes,
		Range:       document.SourceRange{Start: f.start, End: end},
	}
	if err := ex.addDeclaration(sym, keys.Symdecl); err != nil {
		return err
	}
	// Index the finished symbol so a later definition paragraph can still
	// fill an empty definiens slot, and mirror it into the narrative.
	ex.symbols[sym.URI.String()] = sym
	ex.addNarrativeChild(&document.SymbolDeclaration{URI: sym.URI})
	if mod, ok := ex.currentModuleURI(); ok {
		ex.triple(mod, document.PredDeclares, sym.URI)
	}
	return nil
}

// routeTerm disposes of a finished term: a term opened with a URI is a
// top-level narrative term; anything else becomes a pending candidate.
func (ex *Extractor) routeTerm(t document.Term, uri uris.URI, n node.Node) error {
	if uri.IsValid() {
		ex.addNarrativeChild(&document.TermElement{URI: uri, Term: t})
		return nil
	}
	return ex.pendingTerm(t, n)
}

// pendingTerm offers a finished sub-term to the frame beneath it. The
// nearest consumer frame claims it; a transparent marker absorbs it
// silently; anything else rejects it.
func (ex *Extractor) pendingTerm(t document.Term, n node.Node) error {
	frames := ex.domain.all()
	for i := len(frames) - 1; i >= 0; i-- {
		switch f := frames[i].(type) {
		case *openConsumer:
			path, err := n.RelativePath(f.node)
			if err != nil {
				// The consumer's node is not an ancestor; record the
				// candidate without a path rather than lose the term.
				path = nil
			}
			f.add(t, path)
			return nil
		case *openMarker:
			return nil
		case *openComplexTerm:
			if f.pres == nil {
				f.pres = t
				return nil
			}
			ex.warn("complex term already has a presentation; dropping term")
			return nil
		default:
			return ferr.InvalidIn{Key: keys.Term, Container: frames[i].dkind().key().String()}
		}
	}
	return ferr.NotIn{Key: keys.Term, Required: "a term consumer"}
}

// closeConsumer resolves a candidate-accumulating frame and delivers its
// term to the right slot.
func (ex *Extractor) closeConsumer(f *openConsumer, n node.Node) error {
	switch f.kind {
	case dArgument:
		term := f.resolve()
		if term == nil {
			return ferr.MissingArgument{Index: f.index}
		}
		tf, ok := ex.domain.find(func(fr openDomain) bool {
			_, is := fr.(*openTermFrame)
			return is
		})
		if !ok {
			return ferr.NotIn{Key: keys.Arg, Required: "an application or binding"}
		}
		return tf.(*openTermFrame).assign(f.index, f.seqIndex, f.mode, term)

	case dHeadTerm:
		term := f.resolve()
		if term == nil {
			return ferr.UnexpectedEndOf{Key: keys.HeadTerm}
		}
		for i := ex.domain.len() - 1; i >= 0; i-- {
			switch tf := ex.domain.all()[i].(type) {
			case *openTermFrame:
				if tf.headPres != nil {
					return ferr.DuplicateValue{Key: keys.HeadTerm}
				}
				tf.headPres = term
				return nil
			case *openComplexTerm:
				if tf.head != nil {
					return ferr.DuplicateValue{Key: keys.HeadTerm}
				}
				tf.head = term
				return nil
			}
		}
		return ferr.NotIn{Key: keys.HeadTerm, Required: "a term"}

	case dRuleParam:
		term := f.resolve()
		r, ok := ex.domain.find(func(fr openDomain) bool {
			_, is := fr.(*openInferenceRule)
			return is
		})
		if !ok {
			return ferr.NotIn{Key: keys.RuleArg, Required: "an inference rule"}
		}
		if term == nil {
			ex.warn("empty rule parameter")
			return nil
		}
		rule := r.(*openInferenceRule)
		rule.params = append(rule.params, term)
		return nil

	case dType:
		return ex.assignType(f.resolve())

	case dReturnType:
		return ex.assignReturnType(f.resolve())

	case dArgTypes:
		return ex.assignArgTypes(f.candidates())

	case dDefiniens:
		term := f.resolve()
		if term == nil {
			return ferr.UnexpectedEndOf{Key: keys.Definiens}
		}
		return ex.assignDefiniens(term, f.target)

	case dConclusion:
		term := f.resolve()
		if term == nil {
			return ferr.UnexpectedEndOf{Key: keys.Conclusion}
		}
		p, ok := ex.nearestParagraph()
		if !ok {
			return ferr.NotIn{Key: keys.Conclusion, Required: "a logical paragraph"}
		}
		if p.conclusion != nil {
			return ferr.DuplicateValue{Key: keys.Conclusion}
		}
		p.conclusion = term
		return nil

	case dPremise:
		term := f.resolve()
		if term == nil {
			return ferr.UnexpectedEndOf{Key: keys.Premise}
		}
		p, ok := ex.nearestParagraph()
		if !ok {
			return ferr.NotIn{Key: keys.Premise, Required: "a logical paragraph"}
		}
		p.premises = append(p.premises, term)
		return nil
	}
	return ferr.UnexpectedEndOf{Key: f.kind.key()}
}

// candidates returns every recorded candidate in record order.
func (c *openConsumer) candidates() []document.Term {
	out := make([]document.Term, 0, len(c.cand))
	for _, cd := range c.cand {
		out = append(out, cd.term)
	}
	return out
}

func (ex *Extractor) nearestParagraph() (*openParagraph, bool) {
	f, ok := ex.narrative.find(func(fr openNarrative) bool {
		_, is := fr.(*openParagraph)
		return is
	})
	if !ok {
		return nil, false
	}
	return f.(*openParagraph), true
}

// assignType sets the once-only type slot of the nearest symbol, assignment
// or variable frame. The type/definiens path does not special-case equal
// re-assignment: any second set is a DuplicateValue.
func (ex *Extractor) assignType(t document.Term) error {
	if t == nil {
		return ferr.UnexpectedEndOf{Key: keys.Type}
	}
	frames := ex.domain.all()
	for i := len(frames) - 1; i >= 0; i-- {
		switch f := frames[i].(type) {
		case *openSymbolDecl:
			if f.hasTyp {
				return ferr.DuplicateValue{Key: keys.Type}
			}
			f.typ = t
			f.hasTyp = true
			return nil
		case *openAssign:
			if f.hasRef {
				return ferr.DuplicateValue{Key: keys.Type}
			}
			f.refined = t
			f.hasRef = true
			return nil
		case *openLabel:
			if f.hasTyp {
				return ferr.DuplicateValue{Key: keys.Type}
			}
			f.typ = t
			f.hasTyp = true
			return nil
		}
	}
	if v, ok := ex.nearestVariable(); ok {
		if v.Type != nil {
			return ferr.DuplicateValue{Key: keys.Type}
		}
		v.Type = t
		return nil
	}
	return ferr.NotIn{Key: keys.Type, Required: "a symbol, variable or assignment"}
}

func (ex *Extractor) assignReturnType(t document.Term) error {
	if t == nil {
		return ferr.UnexpectedEndOf{Key: keys.ReturnType}
	}
	f, ok := ex.domain.find(func(fr openDomain) bool {
		_, is := fr.(*openSymbolDecl)
		return is
	})
	if !ok {
		return ferr.NotIn{Key: keys.ReturnType, Required: "a symbol declaration"}
	}
	sym := f.(*openSymbolDecl)
	if sym.hasRet {
		return ferr.DuplicateValue{Key: keys.ReturnType}
	}
	sym.returnType = t
	sym.hasRet = true
	return nil
}

func (ex *Extractor) assignArgTypes(ts []document.Term) error {
	f, ok := ex.domain.find(func(fr openDomain) bool {
		_, is := fr.(*openSymbolDecl)
		return is
	})
	if !ok {
		return ferr.NotIn{Key: keys.ArgTypes, Required: "a symbol declaration"}
	}
	sym := f.(*openSymbolDecl)
	if sym.hasArgTyp {
		return ferr.DuplicateValue{Key: keys.ArgTypes}
	}
	sym.argTypes = ts
	sym.hasArgTyp = true
	return nil
}

// assignDefiniens routes a resolved definiens, in priority order: the
// nearest open symbol/label/assignment frame, then the nearest variable,
// then the subject symbol of the enclosing definition-like paragraph.
func (ex *Extractor) assignDefiniens(t document.Term, target uris.URI) error {
	frames := ex.domain.all()
	for i := len(frames) - 1; i >= 0; i-- {
		switch f := frames[i].(type) {
		case *openSymbolDecl:
			if target.IsValid() && !f.uri.Eq(target) {
				continue
			}
			if f.hasDef {
				return ferr.DuplicateValue{Key: keys.Definiens}
			}
			f.definiens = t
			f.hasDef = true
			return nil
		case *openAssign:
			if f.hasDef {
				return ferr.DuplicateValue{Key: keys.Definiens}
			}
			f.definiens = t
			f.hasDef = true
			return nil
		case *openLabel:
			if f.hasDef {
				return ferr.DuplicateValue{Key: keys.Definiens}
			}
			f.definiens = t
			f.hasDef = true
			return nil
		}
	}
	if v, ok := ex.nearestVariable(); ok && !target.IsValid() {
		if v.Definiens != nil {
			return ferr.DuplicateValue{Key: keys.Definiens}
		}
		v.Definiens = t
		return nil
	}

	// Inside a definition-like paragraph the definiens attaches to the
	// explicitly-named subject, or to the first "fors" symbol.
	if p, ok := ex.nearestParagraph(); ok && p.kind.IsDefinitionLike() {
		subject := target
		if !subject.IsValid() && len(p.fors) > 0 {
			subject = p.fors[0]
		}
		if subject.IsValid() {
			ex.propagateDefiniens(subject, t)
			// Record the subject on the paragraph; its close emits the
			// paragraph-defines-symbol fact.
			known := false
			for _, s := range p.fors {
				if s.Eq(subject) {
					known = true
					break
				}
			}
			if !known {
				p.fors = append(p.fors, subject)
			}
			return nil
		}
	}
	return ferr.UnexpectedEndOf{Key: keys.Definiens}
}

// propagateDefiniens eagerly fills the subject symbol's own definiens slot
// if it is still empty, whether the declaration is still open or already
// closed and buffered.
func (ex *Extractor) propagateDefiniens(subject uris.URI, t document.Term) {
	if sym, ok := ex.symbols[subject.String()]; ok {
		if sym.Definiens == nil {
			sym.Definiens = t
		}
		return
	}
	frames := ex.domain.all()
	for i := len(frames) - 1; i >= 0; i-- {
		if f, ok := frames[i].(*openSymbolDecl); ok && f.uri.Eq(subject) {
			if !f.hasDef {
				f.definiens = t
				f.hasDef = true
			}
			return
		}
	}
	ex.warn("definiens subject not declared", "subject", subject.String())
}

func (ex *Extractor) nearestVariable() (*document.Variable, bool) {
	f, ok := ex.narrative.find(func(fr openNarrative) bool {
		_, is := fr.(*openVariableDecl)
		return is
	})
	if !ok {
		return nil, false
	}
	return f.(*openVariableDecl).v, true
}
