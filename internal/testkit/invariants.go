package testkit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"norg/internal/source"
	"norg/internal/token"
)

// CheckTokenInvariants runs the structural invariants on a parsed token tree:
// 1) the literal source of the tree reconstructs the file content exactly
// 2) flattened leaves are contiguous in bytes and in (line, column) and every range is ordered
// 3) a modifier's range and span cover its delimiters and all of its children
// 4) for every delimiter character, two per modifier plus the literal occurrences
// in leaf tokens equals its count in the input
func CheckTokenInvariants(tokens []token.Token, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	content := string(sf.Content)

	// 1) round-trip
	if got := token.Source(tokens); got != content {
		return fmt.Errorf("round-trip mismatch:\n got  %q\n want %q", got, content)
	}

	// 2) contiguity
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	var off uint32
	var pos source.Pos
	for i, tok := range token.Flatten(tokens) {
		if !tok.Range.Valid() {
			return fmt.Errorf("leaf %d has inverted range %s", i, tok.Range)
		}
		if tok.Span.File != sf.ID {
			return fmt.Errorf("leaf %d span file mismatch: got=%d want=%d", i, tok.Span.File, sf.ID)
		}
		if tok.Span.Start != off || tok.Range.Start != pos {
			return fmt.Errorf("leaf %d %s %q starts at %v %s, previous ended at %d %s",
				i, tok.Kind, tok.Source(), tok.Span, tok.Range.Start, off, pos)
		}
		if sf.Text(tok.Span) != tok.Source() {
			return fmt.Errorf("leaf %d span %v holds %q, token source is %q", i, tok.Span, sf.Text(tok.Span), tok.Source())
		}
		off, pos = tok.Span.End, tok.Range.End
	}
	if off != lenContent {
		return fmt.Errorf("leaves end at byte %d, content has %d", off, lenContent)
	}

	// 3) nesting
	var nestErr error
	token.Walk(tokens, func(tok *token.Token, _ int) bool {
		if nestErr != nil || tok.Kind != token.Modifier {
			return nestErr == nil
		}
		for _, ch := range tok.Children {
			if ch.Range.Start.Less(tok.Range.Start) || tok.Range.End.Less(ch.Range.End) ||
				ch.Span.Start <= tok.Span.Start || ch.Span.End >= tok.Span.End {
				nestErr = fmt.Errorf("%s child %s %s escapes modifier %s", tok.Modifier, ch.Kind, ch.Range, tok.Range)
				return false
			}
		}
		return true
	})
	if nestErr != nil {
		return nestErr
	}

	// 4) stack balance
	counts := token.CountModifiers(tokens)
	for _, kind := range token.Modifiers() {
		ch := string(kind.Char())
		literal := 0
		token.Walk(tokens, func(tok *token.Token, _ int) bool {
			if tok.Kind != token.Modifier {
				literal += strings.Count(tok.Source(), ch)
			}
			return true
		})
		if want := strings.Count(content, ch); 2*counts[kind]+literal != want {
			return fmt.Errorf("%s: %d modifiers and %d literal %q, input has %d", kind, counts[kind], literal, ch, want)
		}
	}
	return nil
}
