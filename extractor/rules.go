package extractor

import (
	"errors"
	"strconv"
	"strings"

	"github.com/dgallion1/ftml/document"
	ferr "github.com/dgallion1/ftml/errors"
	"github.com/dgallion1/ftml/keys"
	"github.com/dgallion1/ftml/node"
	"github.com/dgallion1/ftml/uris"
)

// handler processes one recognized key on one node. It may consume auxiliary
// keys through the attribute reader; the dispatch loop skips keys a prior
// handler consumed.
type handler func(ex *Extractor, a *node.Attributes, n node.Node) (directive, error)

// handlers is the static key table, built once at startup. Every recognized
// key has an entry; keys that only ever ride along as auxiliaries get the
// orphan handler, which warns and consumes when their primary is absent.
var handlers map[keys.Key]handler

func init() {
	handlers = map[keys.Key]handler{
		keys.Module:        ruleModule,
		keys.MathStructure: ruleMathStructure,
		keys.Extension:     ruleExtension,
		keys.Morphism:      ruleMorphism,
		keys.Assign:        ruleAssign,
		keys.Rename:        ruleRename,
		keys.ImportModule:  ruleImportModule,
		keys.UseModule:     ruleUseModule,

		keys.Symdecl: ruleSymdecl,
		keys.Vardef:  ruleVardef,
		keys.Varseq:  ruleVarseq,

		keys.Type:       consumerRule(dType),
		keys.Definiens:  ruleDefiniens,
		keys.ReturnType: consumerRule(dReturnType),
		keys.ArgTypes:   consumerRule(dArgTypes),
		keys.Conclusion: consumerRule(dConclusion),
		keys.Premise:    consumerRule(dPremise),

		keys.Term:     ruleTerm,
		keys.Arg:      ruleArg,
		keys.HeadTerm: consumerRule(dHeadTerm),
		keys.Rule:     ruleRule,
		keys.RuleArg:  ruleRuleArg,

		keys.DocTitle:      ruleDocTitle,
		keys.DocKind:       ruleDocKind,
		keys.Title:         ruleTitle,
		keys.ProofTitle:    ruleTitle,
		keys.SubproofTitle: ruleTitle,

		keys.Section:         ruleSection,
		keys.SkipSection:     containerRule(nSkipSection),
		keys.SetSectionLevel: ruleSetSectionLevel,

		keys.Definition: paragraphRule(document.KindDefinition),
		keys.Paragraph:  paragraphRule(document.KindParagraph),
		keys.Assertion:  paragraphRule(document.KindAssertion),
		keys.Example:    paragraphRule(document.KindExample),
		keys.Proof:      paragraphRule(document.KindProof),
		keys.SubProof:   paragraphRule(document.KindSubProof),

		keys.Slide:     ruleSlide,
		keys.Slideshow: containerRule(nSlideshow),

		keys.Problem:    problemRule(false),
		keys.SubProblem: problemRule(true),

		keys.Style:               ruleStyle,
		keys.Counter:             ruleCounter,
		keys.CounterSet:          ruleCounterSet,
		keys.InputRef:            ruleInputRef,
		keys.IfInputref:          ruleIfInputref,
		keys.CurrentSectionLevel: ruleCurrentSectionLevel,
		keys.Invisible:           ruleInvisible,

		keys.Notation:       ruleNotation,
		keys.NotationComp:   notationCompRule(nNotationComp),
		keys.NotationOpComp: notationCompRule(nNotationOpComp),
		keys.ArgSep:         ruleArgSep,
		keys.ArgMap:         ruleArgMap,
		keys.Comp:           ruleComp,
		keys.VarComp:        ruleComp,
		keys.MainComp:       ruleMainComp,
		keys.DefComp:        ruleDefComp,
		keys.Definiendum:    ruleDefiniendum,

		keys.Solution:              ruleSolution,
		keys.ProblemHint:           problemTextRule(nProblemHint),
		keys.ProblemNote:           problemTextRule(nProblemExNote),
		keys.ProblemGradingNote:    problemTextRule(nProblemGradingNote),
		keys.AnswerClass:           ruleAnswerClass,
		keys.AnswerClassFeedback:   ruleAnswerClassFeedback,
		keys.MultipleChoiceBlock:   choiceBlockRule(true),
		keys.SingleChoiceBlock:     choiceBlockRule(false),
		keys.ProblemChoice:         ruleProblemChoice,
		keys.ProblemChoiceVerdict:  choiceTextRule(nChoiceVerdict),
		keys.ProblemChoiceFeedback: choiceTextRule(nChoiceFeedback),
		keys.Fillinsol:             ruleFillinsol,
		keys.FillinsolCase:         ruleFillinsolCase,
		keys.PreconditionSymbol:    cognitiveRule(keys.PreconditionDimension, document.PredPrecondition),
		keys.ObjectiveSymbol:       cognitiveRule(keys.ObjectiveDimension, document.PredObjective),

		// Auxiliary keys reached standalone: their primary is absent.
		keys.Metatheory:           orphan,
		keys.Signature:            orphan,
		keys.MorphismDomain:       orphan,
		keys.MorphismTotal:        orphan,
		keys.RenameTo:             orphan,
		keys.AssignMorphismFrom:   orphan,
		keys.AssignMorphismTo:     orphan,
		keys.Args:                 orphan,
		keys.Macroname:            orphan,
		keys.Role:                 orphan,
		keys.AssocType:            orphan,
		keys.ReorderArgs:          orphan,
		keys.Head:                 orphan,
		keys.ArgMode:              orphan,
		keys.NotationID:           orphan,
		keys.Inline:               orphan,
		keys.Fors:                 orphan,
		keys.ID:                   orphan,
		keys.Styles:               orphan,
		keys.Language:             ruleLanguage,
		keys.SlideNumber:          orphan,
		keys.FrameNumber:          orphan,
		keys.NotationFragment:     orphan,
		keys.Precedence:           orphan,
		keys.Argprecs:             orphan,
		keys.ArgMapSep:            orphan,
		keys.ProblemPoints:        orphan,
		keys.ProblemMinutes:       orphan,
		keys.Autogradable:         orphan,
		keys.AnswerClassPts:       orphan,
		keys.FillinsolCaseValue:   orphan,
		keys.FillinsolCaseVerdict: orphan,
		keys.PreconditionDimension: orphan,
		keys.ObjectiveDimension:    orphan,
		keys.Capitalize:            orphan,

		// Presentation-level keys: validated and consumed, the renderer
		// interprets them.
		keys.ProofMethod:     passthrough,
		keys.ProofTerm:       passthrough,
		keys.ProofBody:       passthrough,
		keys.ProofAssumption: passthrough,
		keys.ProofHide:       passthrough,
		keys.ProofStep:       passthrough,
		keys.ProofStepName:   passthrough,
		keys.ProofEqStep:     passthrough,
		keys.ProofPremise:    passthrough,
		keys.ProofConclusion: passthrough,
		keys.Collapsible:     passthrough,
	}
}

// orphan consumes an auxiliary key whose governing primary attribute is
// absent: the MissingKey condition, downgraded to a diagnostic.
func orphan(ex *Extractor, a *node.Attributes, n node.Node) (directive, error) {
	k := firstUnconsumed(a)
	_, _ = a.Take(k)
	ex.warn("auxiliary attribute without its primary", "key", k.String())
	return directive{}, nil
}

// passthrough validates presence and consumes; the attribute's meaning is
// presentational.
func passthrough(_ *Extractor, a *node.Attributes, _ node.Node) (directive, error) {
	_, _ = a.Take(firstUnconsumed(a))
	return directive{}, nil
}

// firstUnconsumed returns the highest-priority unconsumed key. The dispatch
// loop guarantees it is the key this handler was invoked for.
func firstUnconsumed(a *node.Attributes) keys.Key {
	ks := a.Unconsumed()
	if len(ks) == 0 {
		return keys.Invalid
	}
	return ks[0]
}

// takeURI is Take followed by URI validation.
func takeURI(a *node.Attributes, k keys.Key) (uris.URI, error) {
	v, err := a.Take(k)
	if err != nil {
		return uris.URI{}, err
	}
	u, perr := uris.Parse(v)
	if perr != nil {
		return uris.URI{}, ferr.InvalidValue{Key: k, Value: v}
	}
	return u, nil
}

// The opt* helpers downgrade MissingKey to "absent": the single optionality
// mechanism callers processing auxiliary keys get.

func optString(a *node.Attributes, k keys.Key) (string, bool, error) {
	v, err := a.Take(k)
	if err != nil {
		var mk ferr.MissingKey
		if errors.As(err, &mk) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

func optURI(a *node.Attributes, k keys.Key) (uris.URI, bool, error) {
	v, ok, err := optString(a, k)
	if err != nil || !ok {
		return uris.URI{}, false, err
	}
	u, perr := uris.Parse(v)
	if perr != nil {
		return uris.URI{}, false, ferr.InvalidValue{Key: k, Value: v}
	}
	return u, true, nil
}

func optBool(a *node.Attributes, k keys.Key) (bool, bool, error) {
	if !a.Has(k) {
		return false, false, nil
	}
	b, err := a.TakeBool(k)
	if err != nil {
		return false, false, err
	}
	return b, true, nil
}

func optInt(a *node.Attributes, k keys.Key) (int64, bool, error) {
	if !a.Has(k) {
		return 0, false, nil
	}
	v, err := a.TakeInt(k)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

func optFloat(a *node.Attributes, k keys.Key) (float64, bool, error) {
	if !a.Has(k) {
		return 0, false, nil
	}
	v, err := a.TakeFloat(k)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

// consumerRule opens a candidate-accumulating frame of the given kind.
func consumerRule(kind domainKind) handler {
	return func(_ *Extractor, a *node.Attributes, n node.Node) (directive, error) {
		if _, err := a.Take(kind.key()); err != nil {
			return directive{}, err
		}
		return directive{
			domain: &openConsumer{kind: kind, node: n},
			close:  Close{domain: kind},
		}, nil
	}
}

// ruleDefiniens is consumerRule(dDefiniens) plus the optional explicit
// subject symbol carried in the attribute value.
func ruleDefiniens(_ *Extractor, a *node.Attributes, n node.Node) (directive, error) {
	v, err := a.Take(keys.Definiens)
	if err != nil {
		return directive{}, err
	}
	c := &openConsumer{kind: dDefiniens, node: n}
	if v != "" {
		u, perr := uris.Parse(v)
		if perr != nil {
			return directive{}, ferr.InvalidValue{Key: keys.Definiens, Value: v}
		}
		c.target = u
	}
	return directive{domain: c, close: Close{domain: dDefiniens}}, nil
}

func ruleModule(ex *Extractor, a *node.Attributes, n node.Node) (directive, error) {
	uri, err := takeURI(a, keys.Module)
	if err != nil {
		return directive{}, err
	}
	meta, _, err := optURI(a, keys.Metatheory)
	if err != nil {
		return directive{}, err
	}
	sig, _, err := optString(a, keys.Signature)
	if err != nil {
		return directive{}, err
	}
	start, _ := n.ByteRange()
	return directive{
		domain:    &openModule{uri: uri, meta: meta, signature: sig, start: start},
		narrative: &openNarrativeContainer{kind: nModule, uri: uri},
		close:     Close{domain: dModule, narrative: nModule},
	}, nil
}

func ruleMathStructure(ex *Extractor, a *node.Attributes, n node.Node) (directive, error) {
	uri, err := takeURI(a, keys.MathStructure)
	if err != nil {
		return directive{}, err
	}
	macro, _, err := optString(a, keys.Macroname)
	if err != nil {
		return directive{}, err
	}
	start, _ := n.ByteRange()
	return directive{
		domain:    &openMathStructure{uri: uri, macroname: macro, start: start},
		narrative: &openNarrativeContainer{kind: nMathStructure, uri: uri},
		close:     Close{domain: dMathStructure, narrative: nMathStructure},
	}, nil
}

// ruleExtension opens a conservative extension of the structure named in the
// attribute value. Extensions are auto-named under the reserved prefix.
func ruleExtension(ex *Extractor, a *node.Attributes, n node.Node) (directive, error) {
	target, err := takeURI(a, keys.Extension)
	if err != nil {
		return directive{}, err
	}
	mod, ok := ex.currentModuleURI()
	if !ok {
		return directive{}, ferr.NotIn{Key: keys.Extension, Required: "a module or structure"}
	}
	uri, derr := mod.InModule(ex.NewID(ExtStructPrefix))
	if derr != nil {
		return directive{}, ferr.InvalidValue{Key: keys.Extension, Value: mod.String()}
	}
	start, _ := n.ByteRange()
	return directive{
		domain: &openExtension{uri: uri, target: target, start: start},
		close:  Close{domain: dExtension},
	}, nil
}

func ruleMorphism(ex *Extractor, a *node.Attributes, n node.Node) (directive, error) {
	uri, err := takeURI(a, keys.Morphism)
	if err != nil {
		return directive{}, err
	}
	dom, _, err := optURI(a, keys.MorphismDomain)
	if err != nil {
		return directive{}, err
	}
	total, _, err := optBool(a, keys.MorphismTotal)
	if err != nil {
		return directive{}, err
	}
	start, _ := n.ByteRange()
	return directive{
		domain:    &openMorphism{uri: uri, domain: dom, total: total, start: start},
		narrative: &openNarrativeContainer{kind: nMorphism, uri: uri},
		close:     Close{domain: dMorphism, narrative: nMorphism},
	}, nil
}

func ruleAssign(ex *Extractor, a *node.Attributes, _ node.Node) (directive, error) {
	target, err := takeURI(a, keys.Assign)
	if err != nil {
		return directive{}, err
	}
	// The refinement endpoints are optional companions.
	if _, _, err := optURI(a, keys.AssignMorphismFrom); err != nil {
		return directive{}, err
	}
	if _, _, err := optURI(a, keys.AssignMorphismTo); err != nil {
		return directive{}, err
	}
	return directive{
		domain: &openAssign{target: target},
		close:  Close{domain: dAssign},
	}, nil
}

// ruleRename is a meta instruction: it mutates the nearest open morphism
// without pushing a frame.
func ruleRename(ex *Extractor, a *node.Attributes, _ node.Node) (directive, error) {
	target, err := takeURI(a, keys.Rename)
	if err != nil {
		return directive{}, err
	}
	to, _, err := optString(a, keys.RenameTo)
	if err != nil {
		return directive{}, err
	}
	macro, _, err := optString(a, keys.Macroname)
	if err != nil {
		return directive{}, err
	}
	f, ok := ex.domain.find(func(f openDomain) bool {
		_, is := f.(*openMorphism)
		return is
	})
	if !ok {
		return directive{}, ferr.NotIn{Key: keys.Rename, Required: "a morphism"}
	}
	m := f.(*openMorphism)
	m.decls = append(m.decls, &document.Rename{Target: target, To: to, Macroname: macro})
	return directive{}, nil
}

func ruleImportModule(ex *Extractor, a *node.Attributes, _ node.Node) (directive, error) {
	target, err := takeURI(a, keys.ImportModule)
	if err != nil {
		return directive{}, err
	}
	if err := ex.addDeclaration(&document.Import{Target: target}, keys.ImportModule); err != nil {
		return directive{}, err
	}
	ex.addNarrativeChild(&document.ImportModule{Target: target})
	if mod, ok := ex.currentModuleURI(); ok {
		ex.triple(mod, document.PredImports, target)
	}
	return directive{}, nil
}

func ruleUseModule(ex *Extractor, a *node.Attributes, _ node.Node) (directive, error) {
	target, err := takeURI(a, keys.UseModule)
	if err != nil {
		return directive{}, err
	}
	ex.addNarrativeChild(&document.UseModule{Target: target})
	ex.triple(ex.doc.URI, document.PredUses, target)
	return directive{}, nil
}

// parseArity accepts either a plain count ("2": two simple arguments) or a
// mode string ("iab").
func parseArity(v string) ([]document.ArgMode, bool) {
	if v == "" {
		return nil, true
	}
	if n, err := strconv.Atoi(v); err == nil {
		if n < 0 || n > 16 {
			return nil, false
		}
		out := make([]document.ArgMode, n)
		for i := range out {
			out[i] = document.ArgModeSimple
		}
		return out, true
	}
	return document.ParseArity(v)
}

func ruleSymdecl(ex *Extractor, a *node.Attributes, n node.Node) (directive, error) {
	name, err := a.Take(keys.Symdecl)
	if err != nil {
		return directive{}, err
	}
	var uri uris.URI
	if strings.Contains(name, "?") {
		u, perr := uris.Parse(name)
		if perr != nil {
			return directive{}, ferr.InvalidValue{Key: keys.Symdecl, Value: name}
		}
		uri = u
	} else {
		mod, ok := ex.currentModuleURI()
		if !ok {
			return directive{}, ferr.NotIn{Key: keys.Symdecl, Required: "a module or structure"}
		}
		u, derr := mod.InModule(name)
		if derr != nil {
			return directive{}, ferr.InvalidValue{Key: keys.Symdecl, Value: name}
		}
		uri = u
	}

	sym := &openSymbolDecl{uri: uri}
	if v, ok, err := optString(a, keys.Args); err != nil {
		return directive{}, err
	} else if ok {
		ar, good := parseArity(v)
		if !good {
			return directive{}, ferr.InvalidValue{Key: keys.Args, Value: v}
		}
		sym.arity = ar
	}
	var aerr error
	if sym.macroname, _, aerr = optString(a, keys.Macroname); aerr != nil {
		return directive{}, aerr
	}
	if a.Has(keys.Role) {
		roles, rerr := a.TakeList(keys.Role)
		if rerr != nil {
			return directive{}, rerr
		}
		sym.roles = roles
	}
	if sym.assocType, _, aerr = optString(a, keys.AssocType); aerr != nil {
		return directive{}, aerr
	}
	if a.Has(keys.ReorderArgs) {
		parts, rerr := a.TakeList(keys.ReorderArgs)
		if rerr != nil {
			return directive{}, rerr
		}
		for _, p := range parts {
			i, cerr := strconv.Atoi(p)
			if cerr != nil || i < 1 {
				return directive{}, ferr.InvalidValue{Key: keys.ReorderArgs, Value: p}
			}
			sym.reorderArgs = append(sym.reorderArgs, i)
		}
	}
	sym.start, _ = n.ByteRange()
	return directive{domain: sym, close: Close{domain: dSymbolDecl}}, nil
}

func ruleVardef(ex *Extractor, a *node.Attributes, n node.Node) (directive, error) {
	return varRule(ex, a, n, keys.Vardef, false)
}

func ruleVarseq(ex *Extractor, a *node.Attributes, n node.Node) (directive, error) {
	return varRule(ex, a, n, keys.Varseq, true)
}

func varRule(ex *Extractor, a *node.Attributes, n node.Node, k keys.Key, seq bool) (directive, error) {
	name, err := a.Take(k)
	if err != nil {
		return directive{}, err
	}
	uri, derr := ex.variableURI(name)
	if derr != nil {
		return directive{}, ferr.InvalidValue{Key: k, Value: name}
	}
	v := &document.Variable{URI: uri, Sequence: seq}
	if v.Macroname, _, err = optString(a, keys.Macroname); err != nil {
		return directive{}, err
	}
	if a.Has(keys.Role) {
		roles, rerr := a.TakeList(keys.Role)
		if rerr != nil {
			return directive{}, rerr
		}
		v.Roles = roles
	}
	if av, ok, aerr := optString(a, keys.Args); aerr != nil {
		return directive{}, aerr
	} else if ok {
		ar, good := parseArity(av)
		if !good {
			return directive{}, ferr.InvalidValue{Key: keys.Args, Value: av}
		}
		v.Arity = ar
	}
	v.Range.Start, v.Range.End = n.ByteRange()
	ex.vars[name] = uri
	return directive{
		narrative: &openVariableDecl{v: v},
		close:     Close{narrative: nVariableDecl},
	}, nil
}

func ruleLanguage(ex *Extractor, a *node.Attributes, _ node.Node) (directive, error) {
	// Document-level language declaration; module signatures consume the
	// key as an auxiliary before dispatch reaches here.
	_, err := a.Take(keys.Language)
	return directive{}, err
}
