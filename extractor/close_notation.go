package extractor

import (
	"strings"

	"github.com/dgallion1/ftml/document"
	ferr "github.com/dgallion1/ftml/errors"
	"github.com/dgallion1/ftml/keys"
	"github.com/dgallion1/ftml/node"
)

func (ex *Extractor) notationFrame() (*openNotation, bool) {
	f, ok := ex.narrative.find(func(f openNarrative) bool {
		_, is := f.(*openNotation)
		return is
	})
	if !ok {
		return nil, false
	}
	return f.(*openNotation), true
}

// compPath addresses a component node relative to the notation's own node.
// Paths are always relative so the finished template can be instantiated
// against different concrete markup.
func (ex *Extractor) compPath(not *openNotation, n node.Node) []int {
	p, err := n.RelativePath(not.node)
	if err != nil {
		ex.warn("notation component outside its notation node")
		return nil
	}
	return p
}

// attachComp hands a finished component to the nearest enclosing component
// frame, or to the notation itself when the component is top-level.
func (ex *Extractor) attachComp(comp document.NotationComponent, src node.Node, asOp bool, k keys.Key) error {
	frames := ex.narrative.all()
	for i := len(frames) - 1; i >= 0; i-- {
		switch f := frames[i].(type) {
		case *openNotationComp:
			f.subs = append(f.subs, closedComp{node: src, comp: comp})
			return nil
		case *openNotation:
			if asOp {
				if f.op != nil {
					return ferr.DuplicateValue{Key: keys.NotationOpComp}
				}
				f.op = comp
				return nil
			}
			if f.component != nil {
				return ferr.DuplicateValue{Key: keys.NotationComp}
			}
			f.component = comp
			return nil
		}
	}
	return ferr.NotIn{Key: k, Required: "a notation"}
}

// buildChildren walks the source children of a component node, substituting
// recorded sub-components and turning everything else into text and node
// components.
func buildChildren(n node.Node, path []int, subs map[node.Node]document.NotationComponent) []document.NotationComponent {
	var out []document.NotationComponent
	for i, c := range n.Children() {
		childPath := append(append([]int{}, path...), i)
		if c.IsText() {
			if strings.TrimSpace(c.Text) == "" {
				continue
			}
			out = append(out, &document.TextComponent{Path: childPath, Text: c.Text})
			continue
		}
		if comp, ok := subs[c.Element]; ok {
			out = append(out, comp)
			continue
		}
		out = append(out, &document.NodeComponent{
			Path:     childPath,
			Children: buildChildren(c.Element, childPath, subs),
		})
	}
	return out
}

func subIndex(subs []closedComp) map[node.Node]document.NotationComponent {
	m := make(map[node.Node]document.NotationComponent, len(subs))
	for _, s := range subs {
		m[s.node] = s.comp
	}
	return m
}

func (ex *Extractor) closeNotationComp(f *openNotationComp, n node.Node) error {
	not, ok := ex.notationFrame()
	if !ok {
		return ferr.NotIn{Key: f.kind.key(), Required: "a notation"}
	}
	path := ex.compPath(not, n)
	children := buildChildren(n, path, subIndex(f.subs))
	var comp document.NotationComponent
	if f.kind == nArgSep {
		comp = &document.SepComponent{Path: path, Index: f.index, Children: children}
	} else {
		if f.kind == nArgMap && f.sep != "" {
			// The declared separator joins the mapped items.
			children = append(children, &document.TextComponent{Path: path, Text: f.sep})
		}
		comp = &document.NodeComponent{Path: path, Children: children}
	}
	return ex.attachComp(comp, n, f.kind == nNotationOpComp, f.kind.key())
}

func (ex *Extractor) closeMainComp(f *openMainComp, n node.Node) error {
	not, ok := ex.notationFrame()
	if !ok {
		return ferr.NotIn{Key: keys.MainComp, Required: "a notation"}
	}
	comp := &document.MainComponent{Path: ex.compPath(not, n), Text: n.InnerString()}
	return ex.attachComp(comp, n, false, keys.MainComp)
}

func (ex *Extractor) closeNotationArg(f *openNotationArg, n node.Node) error {
	not, ok := ex.notationFrame()
	if !ok {
		return ferr.NotIn{Key: keys.Arg, Required: "a notation"}
	}
	comp := &document.ArgComponent{Path: ex.compPath(not, n), Index: f.index, Mode: f.mode}
	return ex.attachComp(comp, n, false, keys.Arg)
}

// closeNotation finishes one notation definition: the head is resolved (a
// variable head must be declared by now), the template is serialized into the
// blob buffer, and the registry gains an entry.
func (ex *Extractor) closeNotation(f *openNotation, _ node.Node) error {
	if f.component == nil && f.op == nil {
		return ferr.UnexpectedEndOf{Key: keys.NotationComp}
	}
	head := f.head
	if f.headVar != "" {
		decl, ok := ex.vars[f.headVar]
		if !ok {
			return ferr.InvalidValue{Key: keys.Notation, Value: f.headVar}
		}
		head = decl
	}
	not := &document.Notation{
		Head:       head,
		URI:        f.uri,
		Fragment:   f.fragment,
		Precedence: f.precedence,
		Argprecs:   f.argprecs,
		Component:  f.component,
		Op:         f.op,
	}
	blob, err := ex.blobs.WriteJSON(not)
	if err != nil {
		return ferr.EncodingError{What: "notation", Err: err}
	}
	ex.notations = append(ex.notations, document.NotationEntry{
		Head:     head,
		Element:  f.uri,
		Notation: not,
		Blob:     blob,
	})
	ex.addNarrativeChild(&document.NotationRef{Head: head, URI: f.uri})
	ex.triple(head, document.PredHasNotation, f.uri)
	return nil
}
