package uris

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
)

func TestParseValid(t *testing.T) {
	tests := []string{
		"http://mathhub.info",
		"http://mathhub.info?a=smglom/calculus",
		"http://mathhub.info?a=smglom&p=sets&m=union",
		"http://mathhub.info?a=smglom&m=union&s=cup",
		"http://mathhub.info?a=smglom&d=deriv&l=en",
		"http://mathhub.info?a=smglom&d=deriv&l=en&e=sec1",
		"smglom?a=smglom&m=top",
	}
	for _, s := range tests {
		u, err := Parse(s)
		if err != nil {
			t.Errorf("Parse(%q): %v", s, err)
			continue
		}
		if !u.IsValid() {
			t.Errorf("Parse(%q): invalid result", s)
		}
		if u.String() != s {
			t.Errorf("Parse(%q).String() = %q", s, u.String())
		}
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		uri  string
	}{
		{"empty", ""},
		{"no base", "?a=x"},
		{"whitespace", "http://x?a=a b"},
		{"unknown param", "http://x?a=r&q=1"},
		{"missing archive", "http://x?m=top"},
		{"symbol without module", "http://x?a=r&s=cup"},
		{"element without document", "http://x?a=r&e=sec"},
		{"out of order", "http://x?m=top&a=r"},
		{"repeated", "http://x?a=r&a=r"},
		{"empty value", "http://x?a="},
	}
	for _, tt := range tests {
		if _, err := Parse(tt.uri); err == nil {
			t.Errorf("%s: Parse(%q) succeeded, want error", tt.name, tt.uri)
		}
	}
}

func TestEqAndCompare(t *testing.T) {
	a, err := Parse("http://x?a=r&m=top")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Parse("http://x?a=r&m=top")
	if err != nil {
		t.Fatal(err)
	}
	c, err := Parse("http://x?a=r&m=other")
	if err != nil {
		t.Fatal(err)
	}
	if !a.Eq(b) {
		t.Error("identical URIs not equal")
	}
	if a.s != b.s {
		t.Error("identical URIs not interned to the same string")
	}
	if a.Eq(c) {
		t.Error("distinct URIs compare equal")
	}
	if a.Compare(c) == 0 {
		t.Error("Compare of distinct URIs is 0")
	}
	var zero URI
	if zero.IsValid() {
		t.Error("zero URI reports valid")
	}
	if zero.Compare(a) >= 0 {
		t.Error("zero URI does not sort first")
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"http://x?a=r&m=union&s=cup", "cup"},
		{"http://x?a=r&d=deriv&e=sec1", "sec1"},
		{"http://x?a=r&d=deriv", "deriv"},
		{"http://x?a=r&m=union", "union"},
		{"http://x?a=smglom/calculus", "calculus"},
		{"http://mathhub.info/base", "base"},
	}
	for _, tt := range tests {
		u, err := Parse(tt.uri)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.uri, err)
		}
		if got := u.Name(); got != tt.want {
			t.Errorf("Name(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}

func TestInModule(t *testing.T) {
	archive, err := Parse("http://x?a=r")
	if err != nil {
		t.Fatal(err)
	}
	mod, err := archive.InModule("union")
	if err != nil {
		t.Fatal(err)
	}
	if mod.Module() != "union" {
		t.Fatalf("Module() = %q", mod.Module())
	}
	sym, err := mod.InModule("cup")
	if err != nil {
		t.Fatal(err)
	}
	if sym.Symbol() != "cup" {
		t.Fatalf("Symbol() = %q", sym.Symbol())
	}
	if sym.Module() != "union" {
		t.Fatalf("symbol lost its module: %q", sym.Module())
	}

	bare, err := Parse("smglom")
	if err != nil {
		t.Fatal(err)
	}
	m2, err := bare.InModule("top")
	if err != nil {
		t.Fatal(err)
	}
	if m2.Module() != "top" {
		t.Fatalf("bare-base derivation: Module() = %q", m2.Module())
	}
}

func TestJSONRoundTrip(t *testing.T) {
	type entry struct {
		Head URI
		Name string
	}
	u, err := Parse("http://x?a=r&m=union&s=cup")
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(entry{Head: u, Name: "cup"})
	if err != nil {
		t.Fatal(err)
	}
	if want := `"http://x?a=r&m=union&s=cup"`; !strings.Contains(string(b), want) {
		t.Fatalf("marshaled entry %s does not carry the canonical string", b)
	}
	var back entry
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Head.Eq(u) {
		t.Errorf("round-tripped head = %q", back.Head)
	}

	// The zero URI survives a round trip as the zero URI.
	b, err = json.Marshal(entry{Name: "anon"})
	if err != nil {
		t.Fatal(err)
	}
	back = entry{}
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if back.Head.IsValid() {
		t.Errorf("zero URI decoded as %q", back.Head)
	}
}

func TestPoolConcurrent(t *testing.T) {
	p := NewPool(128)
	const workers = 8
	uris := make([][]URI, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				u, err := p.Parse("http://x?a=r&m=shared")
				if err != nil {
					t.Errorf("worker %d: %v", w, err)
					return
				}
				uris[w] = append(uris[w], u)
			}
		}(w)
	}
	wg.Wait()
	first := uris[0][0]
	for w := range uris {
		for _, u := range uris[w] {
			if u.s != first.s {
				t.Fatal("concurrent interning produced distinct canonical strings")
			}
		}
	}
	if p.Len() != 1 {
		t.Fatalf("pool holds %d entries, want 1", p.Len())
	}
}

func TestPoolKeepsLiveEntries(t *testing.T) {
	p := NewPool(4)
	var live []URI
	for _, s := range []string{
		"http://x?a=r&m=a", "http://x?a=r&m=b", "http://x?a=r&m=c",
		"http://x?a=r&m=d", "http://x?a=r&m=e", "http://x?a=r&m=f",
	} {
		u, err := p.Parse(s)
		if err != nil {
			t.Fatal(err)
		}
		live = append(live, u)
	}
	// Every URI is still referenced, so sweeps must not drop any entry.
	if p.Len() != len(live) {
		t.Fatalf("pool holds %d entries, want %d", p.Len(), len(live))
	}
	for i, u := range live {
		again, err := p.Parse(u.String())
		if err != nil {
			t.Fatal(err)
		}
		if again.s != u.s {
			t.Fatalf("entry %d re-interned to a new string", i)
		}
	}
}
