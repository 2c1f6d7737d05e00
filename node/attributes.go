package node

import (
	"sort"
	"strconv"
	"strings"

	ferr "github.com/dgallion1/ftml/errors"
	"github.com/dgallion1/ftml/keys"
)

// Attributes is the typed reader the engine uses for one node. It tracks
// which recognized keys are still unconsumed so that a handler which eats an
// auxiliary key (Counter on Style, say) prevents the generic dispatch loop
// from re-processing it.
type Attributes struct {
	node       Node
	unconsumed map[keys.Key]bool
}

// Read scans a node's attributes and returns a reader over the recognized
// keys present on it.
func Read(n Node) *Attributes {
	a := &Attributes{node: n, unconsumed: make(map[keys.Key]bool)}
	for _, at := range n.Attributes() {
		if k, ok := keys.FromAttr(at.Name); ok {
			a.unconsumed[k] = true
		}
	}
	return a
}

// Node returns the node this reader was built from.
func (a *Attributes) Node() Node { return a.node }

// Unconsumed returns the recognized keys not yet consumed, in dispatch
// priority order.
func (a *Attributes) Unconsumed() []keys.Key {
	out := make([]keys.Key, 0, len(a.unconsumed))
	for k := range a.unconsumed {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Has reports whether the key is present and unconsumed.
func (a *Attributes) Has(k keys.Key) bool { return a.unconsumed[k] }

// MarkConsumed removes the key from the unconsumed set without touching the
// node. Handlers call it for auxiliary keys they processed themselves.
func (a *Attributes) MarkConsumed(k keys.Key) { delete(a.unconsumed, k) }

// Value returns the attribute value for k without consuming it.
func (a *Attributes) Value(k keys.Key) (string, error) {
	v, ok := a.node.Attribute(k.Attr())
	if !ok {
		return "", ferr.MissingKey{Key: k}
	}
	return v, nil
}

// Take returns the attribute value for k, removes the attribute from the
// node and marks the key consumed. Absent keys yield MissingKey, which
// auxiliary-handling callers may downgrade to a no-op.
func (a *Attributes) Take(k keys.Key) (string, error) {
	v, ok := a.node.Attribute(k.Attr())
	if !ok {
		a.MarkConsumed(k)
		return "", ferr.MissingKey{Key: k}
	}
	a.node.RemoveAttribute(k.Attr())
	a.MarkConsumed(k)
	return v, nil
}

// TakeBool is Take for boolean attributes. An empty value and "true" are
// true; "false" is false; anything else is an InvalidValue.
func (a *Attributes) TakeBool(k keys.Key) (bool, error) {
	v, err := a.Take(k)
	if err != nil {
		return false, err
	}
	switch v {
	case "", "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, ferr.InvalidValue{Key: k, Value: v}
}

// TakeInt is Take for signed integers.
func (a *Attributes) TakeInt(k keys.Key) (int64, error) {
	v, err := a.Take(k)
	if err != nil {
		return 0, err
	}
	n, perr := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if perr != nil {
		return 0, ferr.InvalidValue{Key: k, Value: v}
	}
	return n, nil
}

// TakeUint is Take for non-negative integers.
func (a *Attributes) TakeUint(k keys.Key) (uint64, error) {
	v, err := a.Take(k)
	if err != nil {
		return 0, err
	}
	n, perr := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
	if perr != nil {
		return 0, ferr.InvalidValue{Key: k, Value: v}
	}
	return n, nil
}

// TakeFloat is Take for decimal numbers.
func (a *Attributes) TakeFloat(k keys.Key) (float64, error) {
	v, err := a.Take(k)
	if err != nil {
		return 0, err
	}
	f, perr := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if perr != nil {
		return 0, ferr.InvalidValue{Key: k, Value: v}
	}
	return f, nil
}

// TakeList is Take for comma-separated multi-values. Empty segments are
// dropped; an attribute that is all separators yields an empty list.
func (a *Attributes) TakeList(k keys.Key) ([]string, error) {
	v, err := a.Take(k)
	if err != nil {
		return nil, err
	}
	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}
