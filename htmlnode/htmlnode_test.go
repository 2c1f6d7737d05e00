package htmlnode

import (
	"strings"
	"testing"
)

func parse(t *testing.T, src string) *Element {
	t.Helper()
	root, err := ParseString(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return root
}

func firstElement(t *testing.T, n *Element) *Element {
	t.Helper()
	for _, c := range n.children {
		if c.el != nil {
			return c.el
		}
	}
	t.Fatalf("<%s> has no element child", n.Tag)
	return nil
}

func TestByteRanges(t *testing.T) {
	src := `<p>a<b>c</b>d</p>`
	root := parse(t, src)
	p := firstElement(t, root)
	if p.Tag != "p" {
		t.Fatalf("first element is <%s>", p.Tag)
	}
	if start, end := p.ByteRange(); start != 0 || end != len(src) {
		t.Errorf("p range = [%d,%d), want [0,%d)", start, end, len(src))
	}
	b := firstElement(t, p)
	wantStart := strings.Index(src, "<b>")
	wantEnd := strings.Index(src, "</b>") + len("</b>")
	if start, end := b.ByteRange(); start != wantStart || end != wantEnd {
		t.Errorf("b range = [%d,%d), want [%d,%d)", start, end, wantStart, wantEnd)
	}
	if got := b.VerbatimString(); got != "<b>c</b>" {
		t.Errorf("b verbatim = %q", got)
	}
	if is, ie := b.InnerByteRange(); src[is:ie] != "c" {
		t.Errorf("b inner = %q", src[is:ie])
	}
	if got := p.InnerString(); got != "acd" {
		t.Errorf("p inner text = %q", got)
	}
}

func TestEntitiesResolved(t *testing.T) {
	root := parse(t, `<p>a &amp; b</p>`)
	p := firstElement(t, root)
	if got := p.InnerString(); got != "a & b" {
		t.Errorf("inner = %q", got)
	}
	if got := p.VerbatimString(); got != `<p>a &amp; b</p>` {
		t.Errorf("verbatim = %q", got)
	}
}

func TestRelativePathAndResolve(t *testing.T) {
	root := parse(t, `<div><p>x</p><p>a<b>c</b></p></div>`)
	div := firstElement(t, root)
	b := div.children[1].el.children[1].el
	if b.Tag != "b" {
		t.Fatalf("navigation landed on <%s>", b.Tag)
	}
	path, err := b.RelativePath(div)
	if err != nil {
		t.Fatal(err)
	}
	if len(path) != 2 || path[0] != 1 || path[1] != 1 {
		t.Fatalf("path = %v, want [1 1]", path)
	}
	got, err := div.Resolve(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Element != b {
		t.Error("resolve did not round-trip")
	}

	other := div.children[0].el
	if _, err := other.RelativePath(b); err == nil {
		t.Error("path from a non-ancestor succeeded")
	}
}

func TestDelete(t *testing.T) {
	root := parse(t, `<p>a<b>c</b>d</p>`)
	p := firstElement(t, root)
	b := firstElement(t, p)
	b.Delete()
	if got := p.InnerString(); got != "ad" {
		t.Errorf("inner after delete = %q", got)
	}
	if len(p.Children()) != 2 {
		t.Errorf("%d children after delete, want 2", len(p.Children()))
	}
	// Reads on the detached node stay valid.
	if got := b.InnerString(); got != "c" {
		t.Errorf("deleted node inner = %q", got)
	}
}

func TestMisnestedTags(t *testing.T) {
	root := parse(t, `<i>a<b>c</i>d`)
	i := firstElement(t, root)
	if i.Tag != "i" {
		t.Fatalf("first element is <%s>", i.Tag)
	}
	// The stray </i> closes both open elements; trailing text belongs to
	// the root.
	if got := i.InnerString(); got != "ac" {
		t.Errorf("i inner = %q", got)
	}
	if got := root.InnerString(); got != "acd" {
		t.Errorf("root inner = %q", got)
	}
}

func TestUnclosedExtendsToEOF(t *testing.T) {
	src := `<div><p>tail`
	root := parse(t, src)
	div := firstElement(t, root)
	if _, end := div.ByteRange(); end != len(src) {
		t.Errorf("unclosed div ends at %d, want %d", end, len(src))
	}
}

func TestVoidElements(t *testing.T) {
	root := parse(t, `<p>a<br>b</p>`)
	p := firstElement(t, root)
	if got := p.InnerString(); got != "ab" {
		t.Errorf("inner = %q", got)
	}
	br := firstElement(t, p).Children()
	if len(br) != 0 {
		t.Errorf("br has %d children", len(br))
	}
}

func TestAttributeMutation(t *testing.T) {
	root := parse(t, `<div data-ftml-module="m" class="x"></div>`)
	div := firstElement(t, root)
	if v, ok := div.Attribute("data-ftml-module"); !ok || v != "m" {
		t.Fatalf("attribute = %q, %v", v, ok)
	}
	div.RemoveAttribute("data-ftml-module")
	if _, ok := div.Attribute("data-ftml-module"); ok {
		t.Error("attribute still present after remove")
	}
	div.SetAttribute("class", "y")
	if v, _ := div.Attribute("class"); v != "y" {
		t.Errorf("class = %q after set", v)
	}
	div.SetAttribute("data-new", "1")
	if len(div.Attributes()) != 2 {
		t.Errorf("%d attributes, want 2", len(div.Attributes()))
	}
}
