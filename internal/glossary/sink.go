// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package glossary

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/termex/pkg/types"
)

// Sink accepts entries in order.
type Sink interface {
	Write(ctx context.Context, e types.DefinitionEntry) error
}

// TextSink renders each entry as the term, a line break, the description,
// and two trailing line breaks. Nothing is escaped.
type TextSink struct {
	w io.Writer
}

// NewTextSink returns a TextSink writing to w.
func NewTextSink(w io.Writer) *TextSink {
	return &TextSink{w: w}
}

func (t *TextSink) Write(_ context.Context, e types.DefinitionEntry) error {
	_, err := fmt.Fprintf(t.w, "%s\n%s\n\n", e.Term, e.Description)
	return err
}

// MultiSink writes each entry to every sink in order, stopping at the
// first error.
type MultiSink []Sink

func (m MultiSink) Write(ctx context.Context, e types.DefinitionEntry) error {
	for _, s := range m {
		if err := s.Write(ctx, e); err != nil {
			return err
		}
	}
	return nil
}
