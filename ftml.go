// Package ftml extracts the structured content of FTML documents: HTML
// markup annotated with data-ftml-* attributes describing modules, symbols,
// terms, notations and narrative structure.
//
// The engine is a two-level state machine driven by a depth-first walk of
// the source tree; Extract runs the whole walk, Enter/CloseAll on
// extractor.Extractor expose it step by step for hosts with their own tree
// traversal.
package ftml

import (
	"bytes"

	"github.com/dgallion1/ftml/extractor"
	"github.com/dgallion1/ftml/htmlnode"
	"github.com/dgallion1/ftml/node"
	"github.com/dgallion1/ftml/uris"
)

// Extract runs a full extraction over an already-parsed source tree.
func Extract(root node.Node, docURI uris.URI, opts ...extractor.Option) (*extractor.Result, error) {
	ex := extractor.New(docURI, opts...)
	if err := walk(ex, root); err != nil {
		return nil, err
	}
	return ex.Finish()
}

// ExtractHTML parses src and extracts it. The returned result references the
// parsed tree only through blob captures, so src may be released afterwards.
func ExtractHTML(src []byte, docURI uris.URI, opts ...extractor.Option) (*extractor.Result, error) {
	root, err := htmlnode.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	return Extract(root, docURI, opts...)
}

func walk(ex *extractor.Extractor, n node.Node) error {
	closes, err := ex.Enter(n)
	if err != nil {
		return err
	}
	for _, c := range n.Children() {
		if c.IsText() {
			continue
		}
		if err := walk(ex, c.Element); err != nil {
			return err
		}
	}
	return ex.CloseAll(closes, n)
}
