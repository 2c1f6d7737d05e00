package document

import (
	"testing"

	"github.com/dgallion1/ftml/uris"
)

func sym(t *testing.T, s string) *SymbolRef {
	t.Helper()
	u, err := uris.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return &SymbolRef{URI: u}
}

func TestTermEq(t *testing.T) {
	plus := "http://x?a=r&m=arith&s=plus"
	zero := "http://x?a=r&m=arith&s=zero"

	app := func(head Term, args ...Term) *Application {
		a := &Application{Head: head}
		for _, arg := range args {
			a.Args = append(a.Args, Arg{Mode: ArgModeSimple, Term: arg})
		}
		return a
	}

	tests := []struct {
		name string
		a, b Term
		want bool
	}{
		{"nil both", nil, nil, true},
		{"nil one", sym(t, plus), nil, false},
		{"same symbol", sym(t, plus), sym(t, plus), true},
		{"different symbol", sym(t, plus), sym(t, zero), false},
		{"same var", &VarRef{Name: "x"}, &VarRef{Name: "x"}, true},
		{"different var", &VarRef{Name: "x"}, &VarRef{Name: "y"}, false},
		{"var vs symbol", &VarRef{Name: "x"}, sym(t, plus), false},
		{
			"same application",
			app(sym(t, plus), &VarRef{Name: "x"}, sym(t, zero)),
			app(sym(t, plus), &VarRef{Name: "x"}, sym(t, zero)),
			true,
		},
		{
			"different arg",
			app(sym(t, plus), &VarRef{Name: "x"}),
			app(sym(t, plus), &VarRef{Name: "y"}),
			false,
		},
		{
			"arity mismatch",
			app(sym(t, plus), &VarRef{Name: "x"}),
			app(sym(t, plus)),
			false,
		},
		{
			"label",
			&Label{Name: "n", Type: sym(t, zero)},
			&Label{Name: "n", Type: sym(t, zero)},
			true,
		},
		{
			"rule",
			&InferenceRule{ID: "mp", Params: []Term{sym(t, zero)}},
			&InferenceRule{ID: "mp", Params: []Term{sym(t, zero)}},
			true,
		},
		{
			"rule params differ",
			&InferenceRule{ID: "mp", Params: []Term{sym(t, zero)}},
			&InferenceRule{ID: "mp", Params: []Term{sym(t, plus)}},
			false,
		},
	}
	for _, tt := range tests {
		if got := TermEq(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: TermEq = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestTermEqSequences(t *testing.T) {
	plus := "http://x?a=r&m=arith&s=plus"
	mk := func(names ...string) *Application {
		arg := Arg{Mode: ArgModeSequence}
		for _, n := range names {
			arg.Sequence = append(arg.Sequence, &VarRef{Name: n})
		}
		return &Application{Head: sym(t, plus), Args: []Arg{arg}}
	}
	if !TermEq(mk("x", "y"), mk("x", "y")) {
		t.Error("equal sequences not equal")
	}
	if TermEq(mk("x", "y"), mk("x")) {
		t.Error("sequences of different length compare equal")
	}
	if TermEq(mk("x", "y"), mk("y", "x")) {
		t.Error("sequence order ignored")
	}
}

func TestParseArity(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"", 0, true},
		{"i", 1, true},
		{"iab", 3, true},
		{"iB", 2, true},
		{"ix", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseArity(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseArity(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && len(got) != tt.want {
			t.Errorf("ParseArity(%q) len = %d, want %d", tt.in, len(got), tt.want)
		}
	}
}

func TestArgModeFlags(t *testing.T) {
	if ArgModeSimple.IsSequence() || ArgModeSimple.IsBound() {
		t.Error("simple mode misclassified")
	}
	if !ArgModeSequence.IsSequence() || ArgModeSequence.IsBound() {
		t.Error("sequence mode misclassified")
	}
	if !ArgModeBinding.IsBound() || ArgModeBinding.IsSequence() {
		t.Error("binding mode misclassified")
	}
	if !ArgModeBindingSequence.IsBound() || !ArgModeBindingSequence.IsSequence() {
		t.Error("binding-sequence mode misclassified")
	}
}
