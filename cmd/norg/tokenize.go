package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"norg/internal/diagfmt"
	"norg/internal/driver"
	"norg/internal/lexer"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.norg",
	Short: "Show the lexeme stream of a Norg file",
	Long: `Tokenize groups characters into words, spaces, breaks, links and delimiter
candidates without resolving attached modifiers. With --atoms it prints every
classified character instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().Bool("atoms", false, "print classified characters instead of lexemes")
	tokenizeCmd.Flags().Bool("nfc", false, "normalise input to Unicode NFC")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	// у tokenize свой набор форматов, [output].format к нему не относится
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s (expected pretty|json)", format)
	}
	atoms, err := cmd.Flags().GetBool("atoms")
	if err != nil {
		return fmt.Errorf("failed to get atoms flag: %w", err)
	}

	result, err := driver.Tokenize(cmd.Context(), filePath, driver.Options{
		MaxDiagnostics: s.maxDiagnostics,
		NFC:            s.nfc,
	})
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	if err := printDiagnostics(cmd.ErrOrStderr(), result.Bag, result.FileSet, s); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if atoms {
		return diagfmt.FormatAtomsPretty(out, lexer.Atoms(result.File))
	}
	if format == "json" {
		return diagfmt.FormatLexemesJSON(out, result.Lexemes)
	}
	return diagfmt.FormatLexemesPretty(out, result.Lexemes)
}
