package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"norg/internal/lexer"
	"norg/internal/source"
)

// LexemeOutput: одна лексема в JSON-выводе tokenize.
type LexemeOutput struct {
	Kind    string      `json:"kind"`
	Text    string      `json:"text,omitempty"`
	Range   RangeOutput `json:"range"`
	Span    source.Span `json:"span"`
	Opening bool        `json:"opening,omitempty"`
	Closing bool        `json:"closing,omitempty"`
}

func lexemeKind(lm lexer.Lexeme) string {
	if lm.Kind == lexer.LexDelimiter {
		return "Delimiter"
	}
	if lm.Kind == lexer.LexEOF {
		return "EOF"
	}
	return lm.Token.Kind.String()
}

// FormatLexemesPretty выводит лексемы в человекочитаемом формате
func FormatLexemesPretty(w io.Writer, lexemes []lexer.Lexeme) error {
	for i, lm := range lexemes {
		if _, err := fmt.Fprintf(w, "%3d: %-15s", i+1, lexemeKind(lm)); err != nil {
			return err
		}
		if lm.Token.Text != "" {
			fmt.Fprintf(w, " %q", lm.Token.Text)
		}
		fmt.Fprintf(w, " at %s", lm.Token.Range)
		if lm.Kind == lexer.LexDelimiter {
			fmt.Fprintf(w, " (opening=%t closing=%t)", lm.Opening, lm.Closing)
		}
		fmt.Fprintln(w)
	}
	return nil
}

// FormatLexemesJSON выводит лексемы в JSON формате
func FormatLexemesJSON(w io.Writer, lexemes []lexer.Lexeme) error {
	output := make([]LexemeOutput, 0, len(lexemes))
	for _, lm := range lexemes {
		output = append(output, LexemeOutput{
			Kind:    lexemeKind(lm),
			Text:    lm.Token.Text,
			Range:   makeRange(lm.Token.Range),
			Span:    lm.Token.Span,
			Opening: lm.Opening,
			Closing: lm.Closing,
		})
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// FormatAtomsPretty печатает классифицированные символы по одному на строку.
func FormatAtomsPretty(w io.Writer, atoms []lexer.PlacedAtom) error {
	for i, a := range atoms {
		if _, err := fmt.Fprintf(w, "%4d: %-10s %q at %s bytes %d-%d\n",
			i+1, a.Kind, a.Char, a.Range, a.Span.Start, a.Span.End); err != nil {
			return err
		}
	}
	return nil
}
