package ftml_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/ftml"
	"github.com/dgallion1/ftml/document"
	ferr "github.com/dgallion1/ftml/errors"
	"github.com/dgallion1/ftml/extractor"
	"github.com/dgallion1/ftml/htmlnode"
	"github.com/dgallion1/ftml/keys"
	"github.com/dgallion1/ftml/uris"
)

func ftmlParse(src string) (*htmlnode.Element, error) {
	return htmlnode.ParseString(src)
}

const docBase = "http://mathhub.info?a=smglom&d=calc&l=en"

func docURI(t *testing.T) uris.URI {
	t.Helper()
	u, err := uris.Parse(docBase)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func extract(t *testing.T, src string, opts ...extractor.Option) *extractor.Result {
	t.Helper()
	res, err := ftml.ExtractHTML([]byte(src), docURI(t), opts...)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	return res
}

func TestModuleWithSymbolAndImport(t *testing.T) {
	src := `<div data-ftml-doctitle=""><h1>Calculus</h1></div>` +
		`<section data-ftml-section="http://mathhub.info?a=smglom&d=calc&e=sec1" data-ftml-id="intro">` +
		`<div data-ftml-title="">Introduction</div>` +
		`<div data-ftml-module="http://mathhub.info?a=smglom&m=arith" data-ftml-metatheory="http://mathhub.info?a=smglom&m=meta">` +
		`<span data-ftml-symdecl="plus" data-ftml-args="2" data-ftml-macroname="plus"></span>` +
		`<span data-ftml-import="http://mathhub.info?a=smglom&m=nat"></span>` +
		`</div></section>`

	res := extract(t, src)
	if !strings.Contains(res.Document.Title, "<h1>Calculus</h1>") {
		t.Errorf("document title = %q", res.Document.Title)
	}

	if len(res.Modules) != 1 {
		t.Fatalf("%d modules", len(res.Modules))
	}
	mod := res.Modules[0]
	if mod.URI.Module() != "arith" {
		t.Errorf("module uri = %s", mod.URI)
	}
	if mod.Meta.Module() != "meta" {
		t.Errorf("metatheory = %s", mod.Meta)
	}
	if len(mod.Declarations) != 2 {
		t.Fatalf("%d declarations", len(mod.Declarations))
	}
	sym, ok := mod.Declarations[0].(*document.Symbol)
	if !ok {
		t.Fatalf("first declaration is %T", mod.Declarations[0])
	}
	if sym.URI.Symbol() != "plus" || len(sym.Arity) != 2 || sym.Macroname != "plus" {
		t.Errorf("symbol = %+v", sym)
	}
	if imp, ok := mod.Declarations[1].(*document.Import); !ok || imp.Target.Module() != "nat" {
		t.Errorf("second declaration = %+v", mod.Declarations[1])
	}

	if len(res.Document.Elements) != 1 {
		t.Fatalf("%d top-level elements", len(res.Document.Elements))
	}
	sec, ok := res.Document.Elements[0].(*document.Section)
	if !ok {
		t.Fatalf("top element is %T", res.Document.Elements[0])
	}
	if sec.ID != "intro" {
		t.Errorf("section id = %q", sec.ID)
	}
	if !strings.Contains(sec.Title, "Introduction") {
		t.Errorf("section title = %q", sec.Title)
	}
	if len(sec.Children) != 1 {
		t.Fatalf("%d section children", len(sec.Children))
	}
	ref, ok := sec.Children[0].(*document.ModuleRef)
	if !ok {
		t.Fatalf("section child is %T", sec.Children[0])
	}
	if len(ref.Children) != 2 {
		t.Fatalf("%d module-ref children", len(ref.Children))
	}
	if _, ok := ref.Children[0].(*document.SymbolDeclaration); !ok {
		t.Errorf("first narrative child is %T", ref.Children[0])
	}
	if _, ok := ref.Children[1].(*document.ImportModule); !ok {
		t.Errorf("second narrative child is %T", ref.Children[1])
	}
}

func TestTermApplication(t *testing.T) {
	src := `<math data-ftml-term="OMA" data-ftml-head="http://mathhub.info?a=smglom&m=arith&s=plus" data-ftml-id="t1">` +
		`<mrow data-ftml-arg="1"><mi data-ftml-term="OMV" data-ftml-head="x"></mi></mrow>` +
		`<mrow data-ftml-arg="2"><mi data-ftml-term="OMID" data-ftml-head="http://mathhub.info?a=smglom&m=arith&s=zero"></mi></mrow>` +
		`</math>`

	res := extract(t, src)
	if len(res.Document.Elements) != 1 {
		t.Fatalf("%d elements", len(res.Document.Elements))
	}
	te, ok := res.Document.Elements[0].(*document.TermElement)
	if !ok {
		t.Fatalf("element is %T", res.Document.Elements[0])
	}
	app, ok := te.Term.(*document.Application)
	if !ok {
		t.Fatalf("term is %T", te.Term)
	}
	head, ok := app.Head.(*document.SymbolRef)
	if !ok || head.URI.Symbol() != "plus" {
		t.Fatalf("head = %+v", app.Head)
	}
	if len(app.Args) != 2 {
		t.Fatalf("%d args", len(app.Args))
	}
	if v, ok := app.Args[0].Term.(*document.VarRef); !ok || v.Name != "x" {
		t.Errorf("arg 1 = %+v", app.Args[0].Term)
	}
	if s, ok := app.Args[1].Term.(*document.SymbolRef); !ok || s.URI.Symbol() != "zero" {
		t.Errorf("arg 2 = %+v", app.Args[1].Term)
	}
}

func TestBindingWithSequenceArgument(t *testing.T) {
	src := `<div data-ftml-vardef="x"></div>` +
		`<math data-ftml-term="OMBIND" data-ftml-head="http://mathhub.info?a=smglom&m=calc&s=forall" data-ftml-id="t1">` +
		`<mrow data-ftml-arg="1" data-ftml-mode="b"><mi data-ftml-term="OMV" data-ftml-head="x"></mi></mrow>` +
		`<mrow data-ftml-arg="2.1"><mi data-ftml-term="OMV" data-ftml-head="x"></mi></mrow>` +
		`<mrow data-ftml-arg="2.2"><mi data-ftml-term="OMV" data-ftml-head="x"></mi></mrow>` +
		`</math>`

	res := extract(t, src)
	var te *document.TermElement
	for _, el := range res.Document.Elements {
		if cand, ok := el.(*document.TermElement); ok {
			te = cand
		}
	}
	if te == nil {
		t.Fatal("no term element")
	}
	bind, ok := te.Term.(*document.Binding)
	if !ok {
		t.Fatalf("term is %T", te.Term)
	}
	if len(bind.Args) != 2 {
		t.Fatalf("%d args", len(bind.Args))
	}
	if !bind.Args[0].Mode.IsBound() {
		t.Errorf("arg 1 mode = %c", bind.Args[0].Mode)
	}
	if len(bind.Args[1].Sequence) != 2 {
		t.Fatalf("sequence length %d", len(bind.Args[1].Sequence))
	}
	// The declared variable resolves to its declaration URI.
	v := bind.Args[1].Sequence[0].(*document.VarRef)
	if !v.Declaration.IsValid() {
		t.Error("variable reference not resolved to its declaration")
	}
}

func TestNotation(t *testing.T) {
	src := `<div data-ftml-module="http://mathhub.info?a=smglom&m=arith">` +
		`<span data-ftml-symdecl="plus" data-ftml-args="2"></span>` +
		`<span data-ftml-notation="http://mathhub.info?a=smglom&m=arith&s=plus" data-ftml-notationfragment="infix" data-ftml-precedence="10">` +
		`<span data-ftml-notationcomp="">` +
		`<span data-ftml-arg="1" data-ftml-mode="i">a</span>` +
		`<span data-ftml-comp="">+</span>` +
		`<span data-ftml-arg="2" data-ftml-mode="i">b</span>` +
		`</span></span></div>`

	res := extract(t, src)
	if len(res.Notations) != 1 {
		t.Fatalf("%d notations", len(res.Notations))
	}
	entry := res.Notations[0]
	if entry.Head.Symbol() != "plus" {
		t.Errorf("head = %s", entry.Head)
	}
	not := entry.Notation
	if not.Fragment != "infix" || not.Precedence != 10 {
		t.Errorf("fragment %q precedence %d", not.Fragment, not.Precedence)
	}
	nc, ok := not.Component.(*document.NodeComponent)
	if !ok {
		t.Fatalf("component is %T", not.Component)
	}
	if len(nc.Children) != 3 {
		t.Fatalf("%d component children", len(nc.Children))
	}
	a1, ok := nc.Children[0].(*document.ArgComponent)
	if !ok || a1.Index != 1 {
		t.Fatalf("child 0 = %+v", nc.Children[0])
	}
	main, ok := nc.Children[1].(*document.MainComponent)
	if !ok || main.Text != "+" {
		t.Fatalf("child 1 = %+v", nc.Children[1])
	}
	if a2, ok := nc.Children[2].(*document.ArgComponent); !ok || a2.Index != 2 {
		t.Fatalf("child 2 = %+v", nc.Children[2])
	}
	// Paths are relative to the notation node: component [0], its
	// children [0 i].
	if len(a1.ComponentPath()) != 2 || a1.ComponentPath()[0] != 0 || a1.ComponentPath()[1] != 0 {
		t.Errorf("arg 1 path = %v", a1.ComponentPath())
	}
	if entry.Blob.IsZero() {
		t.Error("notation not serialized")
	}
	if s, err := res.Blobs.ReadString(entry.Blob); err != nil || !strings.Contains(s, "infix") {
		t.Errorf("serialized notation = %q, %v", s, err)
	}
}

func TestProblem(t *testing.T) {
	src := `<div data-ftml-problem="http://mathhub.info?a=smglom&d=calc&e=p1" data-ftml-problempoints="2.5">` +
		`<span data-ftml-fillinsol="10">42<span data-ftml-fillin-case="numrange" data-ftml-fillin-case-value="[40,45]">close</span></span>` +
		`<div data-ftml-multiple-choice-block="">` +
		`<span data-ftml-problem-choice="true">A<span data-ftml-problem-choice-feedback="">yes</span></span>` +
		`<span data-ftml-problem-choice="false">B</span>` +
		`</div>` +
		`<p data-ftml-solution="">Because.</p>` +
		`</div>`

	res := extract(t, src)
	if len(res.Document.Elements) != 1 {
		t.Fatalf("%d elements", len(res.Document.Elements))
	}
	prob, ok := res.Document.Elements[0].(*document.Problem)
	if !ok {
		t.Fatalf("element is %T", res.Document.Elements[0])
	}
	if prob.Data.Points != 2.5 {
		t.Errorf("points = %v", prob.Data.Points)
	}
	if len(prob.Data.Solutions) != 3 {
		t.Fatalf("%d solutions", len(prob.Data.Solutions))
	}

	fill, ok := prob.Data.Solutions[0].(*document.FillInSol)
	if !ok {
		t.Fatalf("solution 0 is %T", prob.Data.Solutions[0])
	}
	if fill.Width != 10 || len(fill.Cases) != 2 {
		t.Fatalf("fillin = %+v", fill)
	}
	if fill.Cases[0].Kind != document.FillInExact || fill.Cases[0].Value != "42" || !fill.Cases[0].Correct {
		t.Errorf("implicit case = %+v", fill.Cases[0])
	}
	if c := fill.Cases[1]; c.Kind != document.FillInNumRange || c.Low != 40 || c.High != 45 {
		t.Errorf("numrange case = %+v", c)
	}

	block, ok := prob.Data.Solutions[1].(*document.ChoiceBlock)
	if !ok {
		t.Fatalf("solution 1 is %T", prob.Data.Solutions[1])
	}
	if !block.Multiple || len(block.Choices) != 2 {
		t.Fatalf("block = %+v", block)
	}
	if !block.Choices[0].Correct || block.Choices[0].Verdict != "correct" {
		t.Errorf("choice 0 = %+v", block.Choices[0])
	}
	if fb, err := res.Blobs.ReadString(block.Choices[0].Feedback); err != nil || !strings.Contains(fb, "yes") {
		t.Errorf("choice feedback = %q, %v", fb, err)
	}
	if block.Choices[1].Correct || block.Choices[1].Verdict != "wrong" {
		t.Errorf("choice 1 = %+v", block.Choices[1])
	}

	sol, ok := prob.Data.Solutions[2].(*document.Solution)
	if !ok {
		t.Fatalf("solution 2 is %T", prob.Data.Solutions[2])
	}
	if s, err := res.Blobs.ReadString(sol.Blob); err != nil || !strings.Contains(s, "Because.") {
		t.Errorf("solution blob = %q, %v", s, err)
	}

	blob, ok := res.Solutions[prob.URI.String()]
	if !ok {
		t.Fatal("no serialized solutions for the problem uri")
	}
	if s, err := res.Blobs.ReadString(blob); err != nil || !strings.Contains(s, "numrange") {
		t.Errorf("serialized solutions = %q, %v", s, err)
	}
}

func TestDefiniensPropagatesToClosedSymbol(t *testing.T) {
	zero := "http://mathhub.info?a=smglom&m=nat&s=zero"
	src := `<div data-ftml-module="http://mathhub.info?a=smglom&m=nat"><span data-ftml-symdecl="zero"></span></div>` +
		`<div data-ftml-definition="" data-ftml-fors="` + zero + `">` +
		`<span data-ftml-definiendum="` + zero + `">zero</span>` +
		`<span data-ftml-definiens=""><span data-ftml-term="OMID" data-ftml-head="` + zero + `"></span></span>` +
		`</div>`

	res := extract(t, src)
	sym := res.Modules[0].Declarations[0].(*document.Symbol)
	if sym.Definiens == nil {
		t.Fatal("definiens did not propagate to the declared symbol")
	}
	if ref, ok := sym.Definiens.(*document.SymbolRef); !ok || ref.URI.Symbol() != "zero" {
		t.Errorf("definiens = %+v", sym.Definiens)
	}

	var para *document.Paragraph
	for _, el := range res.Document.Elements {
		if p, ok := el.(*document.Paragraph); ok {
			para = p
		}
	}
	if para == nil {
		t.Fatal("no paragraph element")
	}
	if para.Kind != document.KindDefinition || len(para.Fors) != 1 {
		t.Errorf("paragraph = %+v", para)
	}
}

func TestDuplicateTypeSlot(t *testing.T) {
	c := "http://mathhub.info?a=smglom&m=nat&s=c"
	src := `<div data-ftml-module="http://mathhub.info?a=smglom&m=nat"><span data-ftml-symdecl="c">` +
		`<span data-ftml-type=""><span data-ftml-term="OMID" data-ftml-head="` + c + `"></span></span>` +
		`<span data-ftml-type=""><span data-ftml-term="OMID" data-ftml-head="` + c + `"></span></span>` +
		`</span></div>`

	_, err := ftml.ExtractHTML([]byte(src), docURI(t))
	var dv ferr.DuplicateValue
	if !errors.As(err, &dv) || dv.Key != keys.Type {
		t.Fatalf("err = %v, want DuplicateValue{type}", err)
	}
}

func TestMissingArgument(t *testing.T) {
	src := `<math data-ftml-term="OMA" data-ftml-head="http://mathhub.info?a=smglom&m=arith&s=plus" data-ftml-id="t1">` +
		`<mrow data-ftml-arg="2"><mi data-ftml-term="OMV" data-ftml-head="x"></mi></mrow>` +
		`</math>`

	_, err := ftml.ExtractHTML([]byte(src), docURI(t))
	var ma ferr.MissingArgument
	if !errors.As(err, &ma) || ma.Index != 1 {
		t.Fatalf("err = %v, want MissingArgument{1}", err)
	}
}

func TestTitleOutsideContainer(t *testing.T) {
	_, err := ftml.ExtractHTML([]byte(`<div data-ftml-title="">Lost</div>`), docURI(t))
	var ni ferr.NotIn
	if !errors.As(err, &ni) || ni.Key != keys.Title {
		t.Fatalf("err = %v, want NotIn{title}", err)
	}
}

func TestDocumentMeta(t *testing.T) {
	src := `<div data-ftml-dockind="exam"></div>` +
		`<div data-ftml-sectionlevel="section"></div>` +
		`<div data-ftml-styles="" data-ftml-style="definition:compact" data-ftml-counter="defs" data-ftml-counter-parent="chapter"></div>`

	res := extract(t, src)
	if res.Document.Kind != document.KindExam {
		t.Errorf("kind = %q", res.Document.Kind)
	}
	if res.Document.TopSectionLevel != document.LevelSection {
		t.Errorf("top level = %v", res.Document.TopSectionLevel)
	}
	if len(res.Document.Styles) != 1 || res.Document.Styles[0].Counter != "defs" {
		t.Fatalf("styles = %+v", res.Document.Styles)
	}
	if len(res.Document.Counters) != 1 {
		t.Fatalf("counters = %+v", res.Document.Counters)
	}
	if p := res.Document.Counters[0].Parent; p == nil || *p != document.LevelChapter {
		t.Errorf("counter parent = %v", p)
	}
}

func TestTriples(t *testing.T) {
	src := `<div data-ftml-module="http://mathhub.info?a=smglom&m=arith">` +
		`<span data-ftml-symdecl="plus"></span>` +
		`<span data-ftml-import="http://mathhub.info?a=smglom&m=nat"></span>` +
		`</div>` +
		`<span data-ftml-usemodule="http://mathhub.info?a=smglom&m=sets"></span>`

	res := extract(t, src, extractor.WithTriples())
	want := map[document.Predicate]bool{
		document.PredDeclares: false,
		document.PredImports:  false,
		document.PredUses:     false,
		document.PredContains: false,
	}
	for _, tr := range res.Triples {
		if _, tracked := want[tr.Predicate]; tracked {
			want[tr.Predicate] = true
		}
	}
	for pred, seen := range want {
		if !seen {
			t.Errorf("no %s triple emitted", pred)
		}
	}

	// Without the option the stream stays nil.
	res = extract(t, src)
	if res.Triples != nil {
		t.Errorf("triples emitted without WithTriples: %v", res.Triples)
	}
}

func TestSolutionNodeRemoved(t *testing.T) {
	src := `<div data-ftml-problem="http://mathhub.info?a=smglom&d=calc&e=p1">` +
		`<p data-ftml-solution="">secret</p>` +
		`<p>visible</p>` +
		`</div>`

	root, err := ftmlParse(src)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ftml.Extract(root, docURI(t)); err != nil {
		t.Fatal(err)
	}
	if got := root.InnerString(); strings.Contains(got, "secret") {
		t.Errorf("captured solution still in tree: %q", got)
	} else if !strings.Contains(got, "visible") {
		t.Errorf("sibling content lost: %q", got)
	}
}

func TestCognitivePairs(t *testing.T) {
	plus := "http://mathhub.info?a=smglom&m=arith&s=plus"
	times := "http://mathhub.info?a=smglom&m=arith&s=times"
	src := `<div data-ftml-problem="http://mathhub.info?a=smglom&d=calc&e=p1">` +
		`<span data-ftml-precondition-symbol="` + plus + `" data-ftml-precondition-dimension="remember"></span>` +
		`<span data-ftml-objective-symbol="` + times + `" data-ftml-objective-dimension="apply"></span>` +
		`</div>`

	res := extract(t, src)
	prob, ok := res.Document.Elements[0].(*document.Problem)
	if !ok {
		t.Fatalf("element is %T", res.Document.Elements[0])
	}
	if len(prob.Data.Preconditions) != 1 {
		t.Fatalf("preconditions = %+v", prob.Data.Preconditions)
	}
	pre := prob.Data.Preconditions[0]
	if pre.Dimension != document.DimRemember || pre.Symbol.Symbol() != "plus" {
		t.Errorf("precondition = %+v", pre)
	}
	if len(prob.Data.Objectives) != 1 {
		t.Fatalf("objectives = %+v", prob.Data.Objectives)
	}
	obj := prob.Data.Objectives[0]
	if obj.Dimension != document.DimApply || obj.Symbol.Symbol() != "times" {
		t.Errorf("objective = %+v", obj)
	}
}

func TestNotationBlobCarriesHead(t *testing.T) {
	plus := "http://mathhub.info?a=smglom&m=arith&s=plus"
	src := `<span data-ftml-notation="` + plus + `">` +
		`<span data-ftml-notationcomp=""><span data-ftml-comp="">+</span></span>` +
		`</span>`

	res := extract(t, src)
	if len(res.Notations) != 1 {
		t.Fatalf("%d notations", len(res.Notations))
	}
	entry := res.Notations[0]
	s, err := res.Blobs.ReadString(entry.Blob)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(s, plus) {
		t.Errorf("serialized notation lost its head: %q", s)
	}
	if !strings.Contains(s, entry.Element.String()) {
		t.Errorf("serialized notation lost its element uri: %q", s)
	}
}

func TestNotationArgMapSeparator(t *testing.T) {
	plus := "http://mathhub.info?a=smglom&m=arith&s=plus"
	src := `<span data-ftml-notation="` + plus + `">` +
		`<span data-ftml-notationcomp="">` +
		`<span data-ftml-argmap="" data-ftml-argmap-sep=", ">` +
		`<span data-ftml-arg="1" data-ftml-mode="a">a</span>` +
		`</span></span></span>`

	res := extract(t, src)
	entry := res.Notations[0]
	nc, ok := entry.Notation.Component.(*document.NodeComponent)
	if !ok || len(nc.Children) != 1 {
		t.Fatalf("component = %+v", entry.Notation.Component)
	}
	m, ok := nc.Children[0].(*document.NodeComponent)
	if !ok {
		t.Fatalf("map component is %T", nc.Children[0])
	}
	var sep *document.TextComponent
	for _, c := range m.Children {
		if tc, ok := c.(*document.TextComponent); ok && tc.Text == ", " {
			sep = tc
		}
	}
	if sep == nil {
		t.Errorf("declared separator missing from map component: %+v", m.Children)
	}
}

func TestDefinesTripleSubjectIsParagraph(t *testing.T) {
	zero := "http://mathhub.info?a=smglom&m=nat&s=zero"
	def := "http://mathhub.info?a=smglom&d=calc&e=def1"
	src := `<div data-ftml-module="http://mathhub.info?a=smglom&m=nat"><span data-ftml-symdecl="zero"></span></div>` +
		`<div data-ftml-definition="` + def + `">` +
		`<span data-ftml-definiens="` + zero + `"><span data-ftml-term="OMID" data-ftml-head="` + zero + `"></span></span>` +
		`</div>`

	res := extract(t, src, extractor.WithTriples())
	found := false
	for _, tr := range res.Triples {
		if tr.Predicate != document.PredDefines {
			continue
		}
		if tr.Subject.Eq(tr.Object) {
			t.Errorf("self-referential defines triple: %+v", tr)
		}
		if tr.Subject.String() == def && tr.Object.String() == zero {
			found = true
		}
	}
	if !found {
		t.Error("no defines triple from the definition paragraph")
	}
}
