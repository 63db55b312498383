// Package classify provides the record-kind classification collaborator.
//
// The real classifier is implemented externally (typically an LLM call); the
// engine consumes the interface and degrades to the lexical fallback whenever
// the collaborator is absent or failing. The fallback is not an error path —
// it is the documented degraded mode.
package classify

import (
	"context"
	"strings"

	"github.com/strataco/strata/pkg/record"
)

// Classifier decides what kind of memory a piece of text is.
type Classifier interface {
	Classify(ctx context.Context, text string) (record.Kind, error)
}

// Lexical is the built-in keyword heuristic fallback.
type Lexical struct{}

// kindMarkers maps lead keywords to kinds, checked in order.
var kindMarkers = []struct {
	kind    record.Kind
	markers []string
}{
	{record.KindPreference, []string{"i prefer", "i like", "i'd rather", "my favorite"}},
	{record.KindProcedural, []string{"step ", "first,", "how to", "procedure", "instructions"}},
	{record.KindEpisodic, []string{"yesterday", "last week", "we discussed", "earlier you"}},
	{record.KindFactual, []string{" is ", " are ", " was ", " equals "}},
}

// Classify never fails; the error is part of the interface contract.
func (l Lexical) Classify(_ context.Context, text string) (record.Kind, error) {
	return l.MustClassify(text), nil
}

// MustClassify applies the keyword heuristics, defaulting to contextual for
// anything unrecognized.
func (Lexical) MustClassify(text string) record.Kind {
	lower := strings.ToLower(text)
	for _, entry := range kindMarkers {
		for _, marker := range entry.markers {
			if strings.Contains(lower, marker) {
				return entry.kind
			}
		}
	}
	return record.KindContextual
}
