// Package extractor is the core of the FTML engine: a two-level, stack-based
// extraction state machine. The host drives a depth-first walk of the source
// tree and calls Enter on node entry and Close on node exit; everything else
// happens in here.
package extractor

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgallion1/ftml/document"
	ferr "github.com/dgallion1/ftml/errors"
	"github.com/dgallion1/ftml/keys"
	"github.com/dgallion1/ftml/node"
	"github.com/dgallion1/ftml/uris"
)

// ExtStructPrefix is the reserved id prefix for auto-named conservative
// extensions.
const ExtStructPrefix = "EXTSTRUCT"

// Extractor processes exactly one document. It is single-threaded and
// synchronous: no suspension, no internal parallelism, no retry. The first
// error aborts the call that produced it; node deletions already performed
// are not rolled back.
type Extractor struct {
	log *slog.Logger

	doc       *document.Document
	domain    stack[openDomain]
	narrative stack[openNarrative]

	modules   []*document.Module
	blobs     document.BlobBuffer
	notations []document.NotationEntry
	triples   []document.Triple
	solutions map[string]document.BlobRef

	// symbols indexes every closed symbol by URI so a later definition
	// paragraph can eagerly fill an empty definiens slot.
	symbols map[string]*document.Symbol
	// vars maps declared variable names to their declaration URIs, for
	// resolving variable references and variable-headed notations.
	vars map[string]uris.URI

	ids      map[string]int
	forcedID string

	emitTriples bool
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger routes diagnostic warnings (downgraded MissingKey conditions)
// to log. Without it the extractor is silent.
func WithLogger(log *slog.Logger) Option {
	return func(ex *Extractor) { ex.log = log }
}

// WithTriples enables the relation-triple stream.
func WithTriples() Option {
	return func(ex *Extractor) { ex.emitTriples = true }
}

// New returns an extractor for one document.
func New(docURI uris.URI, opts ...Option) *Extractor {
	ex := &Extractor{
		doc:       &document.Document{URI: docURI, Kind: document.KindArticle},
		solutions: make(map[string]document.BlobRef),
		symbols:   make(map[string]*document.Symbol),
		vars:      make(map[string]uris.URI),
		ids:       make(map[string]int),
	}
	for _, o := range opts {
		o(ex)
	}
	return ex
}

func (ex *Extractor) warn(msg string, args ...any) {
	if ex.log != nil {
		ex.log.Warn(msg, args...)
	}
}

// NewID generates a monotonically suffixed id: prefix, prefix_1, prefix_2...
// A pending ForceNextID override is consumed instead, once.
func (ex *Extractor) NewID(prefix string) string {
	if ex.forcedID != "" {
		id := ex.forcedID
		ex.forcedID = ""
		return id
	}
	n := ex.ids[prefix]
	ex.ids[prefix]++
	if n == 0 {
		return prefix
	}
	return fmt.Sprintf("%s_%d", prefix, n)
}

// ForceNextID pre-assigns the next generated id. One-shot: the first NewID
// call consumes it.
func (ex *Extractor) ForceNextID(id string) { ex.forcedID = id }

// Close is one scheduled close directive, fired on node exit.
type Close struct {
	domain    domainKind
	narrative narrativeKind
}

// directive is what one key handler produces: at most one push per stack,
// at most one scheduled close.
type directive struct {
	domain    openDomain
	narrative openNarrative
	close     Close
}

// Enter processes every still-unconsumed recognized key on the node, in
// dispatch priority order, and returns the close directives the host must
// fire on node exit (it fires them in reverse order).
func (ex *Extractor) Enter(n node.Node) ([]Close, error) {
	attrs := node.Read(n)
	var closes []Close
	for _, k := range attrs.Unconsumed() {
		if !attrs.Has(k) {
			// A prior handler consumed this key as an auxiliary.
			continue
		}
		h := handlers[k]
		if h == nil {
			continue
		}
		d, err := h(ex, attrs, n)
		if err != nil {
			return nil, err
		}
		ex.add(d, n)
		if d.close != (Close{}) {
			closes = append(closes, d.close)
		}
	}
	return closes, nil
}

// add applies one directive: an optional domain push, an optional narrative
// push. Meta instructions mutate state inside their handler and produce the
// zero directive.
func (ex *Extractor) add(d directive, n node.Node) {
	_ = n
	if d.domain != nil {
		ex.domain.push(d.domain)
	}
	if d.narrative != nil {
		ex.narrative.push(d.narrative)
	}
}

// CloseAll fires the closes of one node in reverse order.
func (ex *Extractor) CloseAll(closes []Close, n node.Node) error {
	for i := len(closes) - 1; i >= 0; i-- {
		if err := ex.Close(closes[i], n); err != nil {
			return err
		}
	}
	return nil
}

// Close pops the expected frame kind from the matching stack and runs its
// finalizer. A kind mismatch is a structural fault naming the expected key.
func (ex *Extractor) Close(c Close, n node.Node) error {
	if c.domain != dNone {
		frame, ok := ex.domain.pop()
		if !ok || frame.dkind() != c.domain {
			return ferr.UnexpectedEndOf{Key: c.domain.key()}
		}
		if err := ex.closeDomain(frame, n); err != nil {
			return err
		}
	}
	if c.narrative != nNone {
		frame, ok := ex.narrative.pop()
		if !ok || frame.nkind() != c.narrative {
			return ferr.UnexpectedEndOf{Key: c.narrative.key()}
		}
		if err := ex.closeNarrative(frame, n); err != nil {
			return err
		}
	}
	return nil
}

// Result is everything one completed parse produces.
type Result struct {
	Document *document.Document
	// Modules lists every top-level module in declaration order.
	Modules []*document.Module
	Blobs   *document.BlobBuffer
	// Notations is the registry of (leaf identity, element uri, notation)
	// triples.
	Notations []document.NotationEntry
	// Solutions maps problem URIs to their serialized solution blobs.
	Solutions map[string]document.BlobRef
	// Triples is the optional relation stream; nil unless WithTriples.
	Triples []document.Triple
}

// Finish validates that every open frame was closed and returns the result.
func (ex *Extractor) Finish() (*Result, error) {
	if top, ok := ex.domain.peek(); ok {
		return nil, ferr.UnexpectedEndOf{Key: top.dkind().key()}
	}
	if top, ok := ex.narrative.peek(); ok {
		return nil, ferr.UnexpectedEndOf{Key: top.nkind().key()}
	}
	res := &Result{
		Document:  ex.doc,
		Modules:   ex.modules,
		Blobs:     &ex.blobs,
		Notations: ex.notations,
		Solutions: ex.solutions,
	}
	if ex.emitTriples {
		res.Triples = ex.triples
	}
	return res, nil
}

// triple records a relation fact when the stream is enabled.
func (ex *Extractor) triple(s uris.URI, p document.Predicate, o uris.URI) {
	if ex.emitTriples {
		ex.triples = append(ex.triples, document.Triple{Subject: s, Predicate: p, Object: o})
	}
}

// addNarrativeChild appends a finished element to the nearest enclosing
// narrative container, or to the document itself when none is open.
func (ex *Extractor) addNarrativeChild(el document.Element) {
	if f, ok := ex.narrative.find(func(f openNarrative) bool {
		_, is := f.(childAccumulator)
		return is
	}); ok {
		f.(childAccumulator).addChild(el)
		return
	}
	ex.doc.Elements = append(ex.doc.Elements, el)
}

// addDeclaration appends a declaration to the nearest open module-like
// domain frame. It fails with NotIn when no such frame is open.
func (ex *Extractor) addDeclaration(decl document.Declaration, k keys.Key) error {
	frames := ex.domain.all()
	for i := len(frames) - 1; i >= 0; i-- {
		switch f := frames[i].(type) {
		case *openModule:
			f.decls = append(f.decls, decl)
			return nil
		case *openMathStructure:
			f.decls = append(f.decls, decl)
			return nil
		case *openExtension:
			f.decls = append(f.decls, decl)
			return nil
		case *openMorphism:
			f.decls = append(f.decls, decl)
			return nil
		}
	}
	return ferr.NotIn{Key: k, Required: "a module or structure"}
}

// currentModuleURI returns the URI of the nearest open module-like frame.
func (ex *Extractor) currentModuleURI() (uris.URI, bool) {
	frames := ex.domain.all()
	for i := len(frames) - 1; i >= 0; i-- {
		switch f := frames[i].(type) {
		case *openModule:
			return f.uri, true
		case *openMathStructure:
			return f.uri, true
		case *openExtension:
			return f.uri, true
		case *openMorphism:
			return f.uri, true
		}
	}
	return uris.URI{}, false
}

// variableURI synthesizes the declaration URI of a narrative-scoped
// variable. Variables are scoped to the document, so the document URI is the
// natural namespace; documents without one fall back to a bare namespace.
func (ex *Extractor) variableURI(name string) (uris.URI, error) {
	if ex.doc.URI.IsValid() {
		s := ex.doc.URI.String()
		if strings.Contains(s, "?") {
			return uris.Parse(s + "&e=" + name)
		}
		return uris.Parse(s + "?a=" + s + "&d=" + s + "&e=" + name)
	}
	return uris.Parse("var://" + name)
}

// elementURI synthesizes a URI for a document element with a local id.
func (ex *Extractor) elementURI(id string) (uris.URI, error) {
	if ex.doc.URI.IsValid() {
		s := ex.doc.URI.String()
		if strings.Contains(s, "?") {
			return uris.Parse(s + "&e=" + id)
		}
		return uris.Parse(s + "?a=" + s + "&d=" + s + "&e=" + id)
	}
	return uris.Parse("elem://" + id)
}

// nearestProblem returns the nearest open problem frame.
func (ex *Extractor) nearestProblem() (*openProblem, bool) {
	f, ok := ex.narrative.find(func(f openNarrative) bool {
		_, is := f.(*openProblem)
		return is
	})
	if !ok {
		return nil, false
	}
	return f.(*openProblem), true
}
