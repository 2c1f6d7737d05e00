// Package htmlnode implements the node capability over HTML source.
//
// html.Parse discards source positions, so this package drives
// html.Tokenizer directly and builds its own mutable tree, recording the
// outer and inner byte range of every element. VerbatimString slices the raw
// source; InnerString returns entity-resolved text.
package htmlnode

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/ftml/node"
	"golang.org/x/net/html"
)

// Element is one parsed element. It implements node.Node.
type Element struct {
	Tag string

	src      *source
	parent   *Element
	attrs    []node.Attr
	children []child

	start, end           int
	innerStart, innerEnd int
}

type child struct {
	el   *Element
	text string
}

type source struct {
	raw []byte
}

// Void elements never get an end tag; the tokenizer reports only a start
// tag for them.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// Parse reads HTML and returns a synthetic root element spanning the whole
// input. Mis-nested end tags close intervening open elements; stray end tags
// are dropped, matching the forgiving behavior hosts expect from HTML.
func Parse(r io.Reader) (*Element, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read html: %w", err)
	}
	src := &source{raw: raw}
	root := &Element{Tag: "#root", src: src, end: len(raw), innerEnd: len(raw)}

	z := html.NewTokenizer(bytes.NewReader(raw))
	stack := []*Element{root}
	pos := 0

	for {
		tt := z.Next()
		tokStart := pos
		pos += len(z.Raw())

		switch tt {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				// Unclosed elements extend to end of input.
				for _, el := range stack[1:] {
					el.innerEnd = len(raw)
					el.end = len(raw)
				}
				return root, nil
			}
			return nil, fmt.Errorf("tokenize html: %w", z.Err())

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			el := &Element{
				Tag:        tok.Data,
				src:        src,
				parent:     stack[len(stack)-1],
				start:      tokStart,
				innerStart: pos,
				innerEnd:   pos,
				end:        pos,
			}
			for _, a := range tok.Attr {
				el.attrs = append(el.attrs, node.Attr{Name: a.Key, Value: a.Val})
			}
			top := stack[len(stack)-1]
			top.children = append(top.children, child{el: el})
			if tt == html.StartTagToken && !voidElements[tok.Data] {
				stack = append(stack, el)
			}

		case html.EndTagToken:
			tok := z.Token()
			// Find the matching open element; ignore a stray end tag.
			match := -1
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].Tag == tok.Data {
					match = i
					break
				}
			}
			if match < 0 {
				continue
			}
			for i := len(stack) - 1; i >= match; i-- {
				stack[i].innerEnd = tokStart
				stack[i].end = tokStart
			}
			stack[match].end = pos
			stack = stack[:match]

		case html.TextToken:
			top := stack[len(stack)-1]
			top.children = append(top.children, child{text: z.Token().Data})

		case html.CommentToken, html.DoctypeToken:
			// Not part of the extracted model.
		}
	}
}

// ParseString is Parse over a string.
func ParseString(s string) (*Element, error) {
	return Parse(strings.NewReader(s))
}

// Children returns the element and text children in document order.
func (e *Element) Children() []node.Child {
	out := make([]node.Child, len(e.children))
	for i, c := range e.children {
		if c.el != nil {
			out[i] = node.Child{Element: c.el}
		} else {
			out[i] = node.Child{Text: c.text}
		}
	}
	return out
}

// Attributes returns all attributes in source order.
func (e *Element) Attributes() []node.Attr {
	out := make([]node.Attr, len(e.attrs))
	copy(out, e.attrs)
	return out
}

// Attribute returns the named attribute's value.
func (e *Element) Attribute(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// RemoveAttribute deletes the named attribute if present.
func (e *Element) RemoveAttribute(name string) {
	for i, a := range e.attrs {
		if a.Name == name {
			e.attrs = append(e.attrs[:i], e.attrs[i+1:]...)
			return
		}
	}
}

// SetAttribute adds or replaces an attribute.
func (e *Element) SetAttribute(name, value string) {
	for i, a := range e.attrs {
		if a.Name == name {
			e.attrs[i].Value = value
			return
		}
	}
	e.attrs = append(e.attrs, node.Attr{Name: name, Value: value})
}

// VerbatimString returns the raw source of the element, tags included.
func (e *Element) VerbatimString() string {
	if e.start < 0 || e.end > len(e.src.raw) || e.start > e.end {
		return ""
	}
	return string(e.src.raw[e.start:e.end])
}

// InnerString returns the concatenated resolved text content.
func (e *Element) InnerString() string {
	var b strings.Builder
	e.innerText(&b)
	return b.String()
}

func (e *Element) innerText(b *strings.Builder) {
	for _, c := range e.children {
		if c.el != nil {
			c.el.innerText(b)
		} else {
			b.WriteString(c.text)
		}
	}
}

// ByteRange returns the outer source span of the element.
func (e *Element) ByteRange() (int, int) { return e.start, e.end }

// InnerByteRange returns the source span between the tags.
func (e *Element) InnerByteRange() (int, int) { return e.innerStart, e.innerEnd }

// RelativePath returns the child-index path from ancestor down to e.
func (e *Element) RelativePath(ancestor node.Node) ([]int, error) {
	anc, ok := ancestor.(*Element)
	if !ok {
		return nil, fmt.Errorf("ancestor is not an htmlnode element")
	}
	var path []int
	for cur := e; cur != anc; cur = cur.parent {
		if cur.parent == nil {
			return nil, fmt.Errorf("<%s> is not an ancestor of <%s>", anc.Tag, e.Tag)
		}
		idx := -1
		for i, c := range cur.parent.children {
			if c.el == cur {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("<%s> detached from its parent", cur.Tag)
		}
		path = append(path, idx)
	}
	// Collected bottom-up; reverse to top-down.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// Resolve walks a child-index path from e downward.
func (e *Element) Resolve(path []int) (node.Child, error) {
	cur := node.Child{Element: e}
	for _, idx := range path {
		if cur.Element == nil {
			return node.Child{}, fmt.Errorf("path descends into text")
		}
		el := cur.Element.(*Element)
		if idx < 0 || idx >= len(el.children) {
			return node.Child{}, fmt.Errorf("path index %d out of range in <%s>", idx, el.Tag)
		}
		c := el.children[idx]
		if c.el != nil {
			cur = node.Child{Element: c.el}
		} else {
			cur = node.Child{Text: c.text}
		}
	}
	return cur, nil
}

// Delete detaches the element from the tree. Sibling linkage of the
// remaining children is preserved; the element's own content stays readable.
func (e *Element) Delete() {
	if e.parent == nil {
		return
	}
	for i, c := range e.parent.children {
		if c.el == e {
			e.parent.children = append(e.parent.children[:i], e.parent.children[i+1:]...)
			break
		}
	}
	e.parent = nil
}

var _ node.Node = (*Element)(nil)
