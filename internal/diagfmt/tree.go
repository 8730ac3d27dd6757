package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/vmihailenco/msgpack/v5"

	"norg/internal/source"
	"norg/internal/token"
)

// PosOutput is a zero-based (line, column) pair.
type PosOutput struct {
	Line uint32 `json:"line" msgpack:"line"`
	Col  uint32 `json:"col" msgpack:"col"`
}

// RangeOutput is a half-open [start, end) pair of positions.
type RangeOutput struct {
	Start PosOutput `json:"start" msgpack:"start"`
	End   PosOutput `json:"end" msgpack:"end"`
}

// TokenNode: узел дерева токенов для JSON и msgpack.
type TokenNode struct {
	Kind      string      `json:"kind" msgpack:"kind"`
	Modifier  string      `json:"modifier,omitempty" msgpack:"modifier,omitempty"`
	Link      string      `json:"link,omitempty" msgpack:"link,omitempty"`
	Text      string      `json:"text,omitempty" msgpack:"text,omitempty"`
	Range     RangeOutput `json:"range" msgpack:"range"`
	StartByte uint32      `json:"start_byte" msgpack:"start_byte"`
	EndByte   uint32      `json:"end_byte" msgpack:"end_byte"`
	Children  []TokenNode `json:"children,omitempty" msgpack:"children,omitempty"`
}

// TreeOutput is the root of a serialised token tree.
type TreeOutput struct {
	File   string      `json:"file" msgpack:"file"`
	Tokens []TokenNode `json:"tokens" msgpack:"tokens"`
	Count  int         `json:"count" msgpack:"count"`
}

func makeRange(r source.Range) RangeOutput {
	return RangeOutput{
		Start: PosOutput{Line: r.Start.Line, Col: r.Start.Col},
		End:   PosOutput{Line: r.End.Line, Col: r.End.Col},
	}
}

// BuildTree converts tokens to serialisable nodes.
func BuildTree(tokens []token.Token) []TokenNode {
	nodes := make([]TokenNode, 0, len(tokens))
	for _, tok := range tokens {
		n := TokenNode{
			Kind:      tok.Kind.String(),
			Range:     makeRange(tok.Range),
			StartByte: tok.Span.Start,
			EndByte:   tok.Span.End,
		}
		switch tok.Kind {
		case token.Word, token.Space:
			n.Text = tok.Text
		case token.Link:
			n.Link = tok.Link.String()
			n.Text = tok.Text
		case token.Modifier:
			n.Modifier = tok.Modifier.String()
			n.Children = BuildTree(tok.Children)
		}
		nodes = append(nodes, n)
	}
	return nodes
}

// BuildTreeOutput wraps the tree of one file.
func BuildTreeOutput(path string, tokens []token.Token) TreeOutput {
	return TreeOutput{File: path, Tokens: BuildTree(tokens), Count: len(tokens)}
}

// FormatTreeJSON выводит дерево токенов в JSON формате.
func FormatTreeJSON(w io.Writer, path string, tokens []token.Token) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildTreeOutput(path, tokens))
}

// FormatTreeMsgpack пишет дерево токенов одним msgpack-сообщением.
func FormatTreeMsgpack(w io.Writer, path string, tokens []token.Token) error {
	return msgpack.NewEncoder(w).Encode(BuildTreeOutput(path, tokens))
}

// DecodeTreeMsgpack reads one tree written by FormatTreeMsgpack.
func DecodeTreeMsgpack(r io.Reader) (TreeOutput, error) {
	var out TreeOutput
	if err := msgpack.NewDecoder(r).Decode(&out); err != nil {
		return TreeOutput{}, fmt.Errorf("decode token tree: %w", err)
	}
	return out, nil
}

// FormatTreePretty печатает дерево с отступом по вложенности:
//
//	Modifier Bold [(0,0),(0,6))
//	  Word "bold" [(0,1),(0,5))
func FormatTreePretty(w io.Writer, tokens []token.Token, opts TreeOpts) error {
	kindColor := color.New(color.FgCyan)
	modColor := color.New(color.FgYellow, color.Bold)
	textColor := color.New(color.FgGreen)
	posColor := color.New(color.Faint)
	for _, c := range []*color.Color{kindColor, modColor, textColor, posColor} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	var err error
	token.Walk(tokens, func(tok *token.Token, depth int) bool {
		if err != nil {
			return false
		}
		var sb strings.Builder
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(kindColor.Sprint(tok.Kind.String()))
		switch tok.Kind {
		case token.Modifier:
			sb.WriteString(" " + modColor.Sprint(tok.Modifier.String()))
		case token.Link:
			sb.WriteString(" " + tok.Link.String() + " " + textColor.Sprint(clipText(tok.Text, opts.Width)))
		case token.Word, token.Space:
			sb.WriteString(" " + textColor.Sprint(clipText(tok.Text, opts.Width)))
		}
		sb.WriteString(" " + posColor.Sprint(tok.Range.String()))
		if opts.ShowSpans {
			sb.WriteString(" " + posColor.Sprintf("bytes %d-%d", tok.Span.Start, tok.Span.End))
		}
		sb.WriteByte('\n')
		_, err = io.WriteString(w, sb.String())
		return err == nil
	})
	return err
}

// clipText quotes s, truncating it to width terminal cells first.
func clipText(s string, width int) string {
	if width > 0 && runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return fmt.Sprintf("%q", s)
}
