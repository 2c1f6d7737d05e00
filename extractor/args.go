package extractor

import (
	"github.com/dgallion1/ftml/document"
	ferr "github.com/dgallion1/ftml/errors"
)

// openArgument is one argument slot of an open application or binding.
// Simple slots take exactly one term; sequence slots take terms at positions
// 1..k and are complete only once every position is filled.
type openArgument struct {
	mode document.ArgMode
	term document.Term
	seq  []document.Term // 1-based positions at index-1
}

// assign fills position (index, seqIndex) of the term frame. Assigning the
// same position twice is a no-op when the terms are structurally equal and a
// MismatchedArgument otherwise; bound positions report the bound flavor.
func (t *openTermFrame) assign(index, seqIndex int, mode document.ArgMode, term document.Term) error {
	if index < 1 {
		return ferr.MissingArgument{Index: index}
	}
	for len(t.args) < index {
		t.args = append(t.args, nil)
	}
	slot := t.args[index-1]
	if slot == nil {
		slot = &openArgument{mode: mode}
		t.args[index-1] = slot
	}

	if seqIndex == 0 && !mode.IsSequence() {
		if slot.term == nil {
			slot.term = term
			slot.mode = mode
			return nil
		}
		if document.TermEq(slot.term, term) {
			return nil
		}
		return mismatch(mode, index)
	}

	// Sequence position; an unmarked seqIndex on a sequence mode means
	// position 1.
	if seqIndex < 1 {
		seqIndex = 1
	}
	for len(slot.seq) < seqIndex {
		slot.seq = append(slot.seq, nil)
	}
	if slot.seq[seqIndex-1] == nil {
		slot.seq[seqIndex-1] = term
		slot.mode = mode
		return nil
	}
	if document.TermEq(slot.seq[seqIndex-1], term) {
		return nil
	}
	return mismatch(mode, index)
}

func mismatch(mode document.ArgMode, index int) error {
	if mode.IsBound() {
		return ferr.MismatchedBoundArgument{Index: index}
	}
	return ferr.MismatchedArgument{Index: index}
}

// resolveArgs checks completeness and produces the finished argument list.
// The first gap, counted 1-based over slots and then over sequence
// positions, fails with MissingArgument.
func (t *openTermFrame) resolveArgs() ([]document.Arg, error) {
	out := make([]document.Arg, 0, len(t.args))
	for i, slot := range t.args {
		if slot == nil {
			return nil, ferr.MissingArgument{Index: i + 1}
		}
		if slot.mode.IsSequence() || len(slot.seq) > 0 {
			for j, s := range slot.seq {
				if s == nil {
					return nil, ferr.MissingArgument{Index: j + 1}
				}
			}
			out = append(out, document.Arg{Mode: slot.mode, Sequence: slot.seq})
			continue
		}
		if slot.term == nil {
			return nil, ferr.MissingArgument{Index: i + 1}
		}
		out = append(out, document.Arg{Mode: slot.mode, Term: slot.term})
	}
	return out, nil
}
