package token

import (
	"testing"

	"norg/internal/source"
)

func rng(l1, c1, l2, c2 uint32) source.Range {
	return source.Range{Start: source.Pos{Line: l1, Col: c1}, End: source.Pos{Line: l2, Col: c2}}
}

func span(start, end uint32) source.Span {
	return source.Span{Start: start, End: end}
}

// "*a /b/* {x}\n"
func sampleTree() []Token {
	italic := Token{
		Kind:     Modifier,
		Modifier: Italic,
		Range:    rng(0, 3, 0, 6),
		Span:     span(3, 6),
		Children: []Token{{Kind: Word, Text: "b", Range: rng(0, 4, 0, 5), Span: span(4, 5)}},
	}
	bold := Token{
		Kind:     Modifier,
		Modifier: Bold,
		Range:    rng(0, 0, 0, 7),
		Span:     span(0, 7),
		Children: []Token{
			{Kind: Word, Text: "a", Range: rng(0, 1, 0, 2), Span: span(1, 2)},
			{Kind: Space, Text: " ", Range: rng(0, 2, 0, 3), Span: span(2, 3)},
			italic,
		},
	}
	return []Token{
		bold,
		{Kind: Space, Text: " ", Range: rng(0, 7, 0, 8), Span: span(7, 8)},
		{Kind: Link, Link: LinkURL, Text: "x", Range: rng(0, 8, 0, 11), Span: span(8, 11)},
		{Kind: SoftBreak, Range: rng(0, 11, 1, 0), Span: span(11, 12)},
	}
}

func TestSource(t *testing.T) {
	if got := Source(sampleTree()); got != "*a /b/* {x}\n" {
		t.Errorf("Source = %q", got)
	}
	pb := Token{Kind: ParagraphBreak}
	if pb.Source() != "\n\n" {
		t.Errorf("ParagraphBreak source = %q", pb.Source())
	}
	if Source(nil) != "" {
		t.Errorf("empty source must be empty")
	}
}

func TestFlatten(t *testing.T) {
	flat := Flatten(sampleTree())
	want := []string{"*", "a", " ", "/", "b", "/", "*", " ", "{x}", "\n"}
	if len(flat) != len(want) {
		t.Fatalf("Flatten returned %d tokens, want %d", len(flat), len(want))
	}
	for i, tok := range flat {
		if tok.Kind == Modifier {
			t.Errorf("flat[%d] is still a modifier", i)
		}
		if tok.Source() != want[i] {
			t.Errorf("flat[%d] = %q, want %q", i, tok.Source(), want[i])
		}
	}
	// закрывающий '*' стоит в колонке 6
	closing := flat[6]
	if closing.Range != rng(0, 6, 0, 7) || closing.Span != span(6, 7) {
		t.Errorf("closing delimiter at %v %v", closing.Range, closing.Span)
	}
	for i := 1; i < len(flat); i++ {
		if flat[i].Range.Start.Less(flat[i-1].Range.End) {
			t.Errorf("flat tokens overlap at %d: %v after %v", i, flat[i].Range, flat[i-1].Range)
		}
	}
}

func TestWalk(t *testing.T) {
	var kinds []Kind
	var depths []int
	Walk(sampleTree(), func(tok *Token, depth int) bool {
		kinds = append(kinds, tok.Kind)
		depths = append(depths, depth)
		return true
	})
	wantDepths := []int{0, 1, 1, 1, 2, 0, 0, 0}
	if len(depths) != len(wantDepths) {
		t.Fatalf("visited %d tokens (%v), want %d", len(depths), kinds, len(wantDepths))
	}
	for i := range wantDepths {
		if depths[i] != wantDepths[i] {
			t.Errorf("depth[%d] = %d, want %d", i, depths[i], wantDepths[i])
		}
	}

	visited := 0
	Walk(sampleTree(), func(tok *Token, _ int) bool {
		visited++
		return tok.Kind != Modifier
	})
	if visited != 4 {
		t.Errorf("skipping children visited %d tokens, want 4", visited)
	}
}

func TestCountModifiers(t *testing.T) {
	counts := CountModifiers(sampleTree())
	if counts[Bold] != 1 || counts[Italic] != 1 || counts[Verbatim] != 0 {
		t.Errorf("counts = %v", counts)
	}
}

func TestRunLen(t *testing.T) {
	tok := Token{Kind: Space, Text: " \t  "}
	if tok.RunLen() != 4 {
		t.Errorf("RunLen = %d", tok.RunLen())
	}
}
