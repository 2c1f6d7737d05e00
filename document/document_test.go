package document

import "testing"

func TestParseSectionLevel(t *testing.T) {
	tests := []struct {
		in   string
		want SectionLevel
		ok   bool
	}{
		{"part", LevelPart, true},
		{"chapter", LevelChapter, true},
		{"subsection", LevelSubsection, true},
		{"0", LevelPart, true},
		{"3", LevelSubsection, true},
		{"5", LevelParagraph, true},
		{"6", 0, false},
		{"sub", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseSectionLevel(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseSectionLevel(%q) = %v, %v", tt.in, got, ok)
		}
	}
}

func TestSectionLevelInc(t *testing.T) {
	if LevelChapter.Inc() != LevelSection {
		t.Error("chapter does not step to section")
	}
	if LevelParagraph.Inc() != LevelParagraph {
		t.Error("paragraph level does not saturate")
	}
}

func TestIsDefinitionLike(t *testing.T) {
	for kind, want := range map[ParagraphKind]bool{
		KindDefinition: true,
		KindAssertion:  true,
		KindExample:    false,
		KindProof:      false,
		KindParagraph:  false,
	} {
		if got := kind.IsDefinitionLike(); got != want {
			t.Errorf("%s: IsDefinitionLike = %v, want %v", kind, got, want)
		}
	}
}

func TestBlobBuffer(t *testing.T) {
	var b BlobBuffer
	r1 := b.WriteString("hello")
	r2 := b.WriteString("world")
	if r1.IsZero() {
		t.Error("non-empty ref reports zero")
	}
	if got, err := b.ReadString(r1); err != nil || got != "hello" {
		t.Errorf("ReadString(r1) = %q, %v", got, err)
	}
	if got, err := b.ReadString(r2); err != nil || got != "world" {
		t.Errorf("ReadString(r2) = %q, %v", got, err)
	}
	if b.Len() != 10 {
		t.Errorf("Len = %d", b.Len())
	}

	jr, err := b.WriteJSON(map[string]int{"n": 1})
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := b.ReadString(jr); got != `{"n":1}` {
		t.Errorf("json blob = %q", got)
	}

	if _, err := b.Read(BlobRef{Offset: 5, Length: 1 << 20}); err == nil {
		t.Error("out-of-range read succeeded")
	}

	var zero BlobRef
	if !zero.IsZero() {
		t.Error("zero ref not zero")
	}
}
