package keys

import "testing"

func TestAttrRoundTrip(t *testing.T) {
	for _, k := range All() {
		attr := k.Attr()
		got, ok := FromAttr(attr)
		if !ok {
			t.Errorf("FromAttr(%q) not recognized", attr)
			continue
		}
		if got != k {
			t.Errorf("FromAttr(%q) = %v, want %v", attr, got, k)
		}
	}
}

func TestFromAttrRejectsForeign(t *testing.T) {
	for _, attr := range []string{"class", "id", "data-ftml-", "data-ftml-nope", "ftml-module"} {
		if k, ok := FromAttr(attr); ok {
			t.Errorf("FromAttr(%q) = %v, want rejection", attr, k)
		}
	}
}

func TestNamesUnique(t *testing.T) {
	seen := make(map[string]Key)
	for _, k := range All() {
		name := k.String()
		if name == "" || name == "invalid" {
			t.Errorf("key %d has no name", k)
			continue
		}
		if prev, dup := seen[name]; dup {
			t.Errorf("name %q shared by %v and %v", name, prev, k)
		}
		seen[name] = k
	}
	if len(seen) != Count() {
		t.Fatalf("%d distinct names for %d keys", len(seen), Count())
	}
}

// Dispatch priority is declaration order; a primary key must always run
// before the auxiliaries that depend on it.
func TestAuxiliariesFollowPrimaries(t *testing.T) {
	for _, k := range All() {
		spec := Spec(k)
		if spec.AuxOf == Invalid {
			continue
		}
		if spec.AuxOf >= k {
			t.Errorf("%v is auxiliary of %v but dispatches first", k, spec.AuxOf)
		}
	}
}

func TestSpec(t *testing.T) {
	if got := Spec(Metatheory).AuxOf; got != Module {
		t.Errorf("Metatheory aux of %v, want Module", got)
	}
	if got := Spec(CounterParent).AuxOf; got != Counter {
		t.Errorf("CounterParent aux of %v, want Counter", got)
	}
	if !ArgMode.IsAuxiliary() {
		t.Error("ArgMode not auxiliary")
	}
	if Symdecl.IsAuxiliary() {
		t.Error("Symdecl reported auxiliary")
	}
}
