package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/medex/pkg/medex"
	"github.com/cognicore/medex/pkg/medex/lexicon"
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive symptom checklist",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			engine, err := buildEngine(cmd.Context(), cmd, logger)
			if err != nil {
				return err
			}
			defer engine.Close()

			lex, err := buildLexicon(cmd, engine)
			if err != nil {
				return err
			}

			return runRepl(cmd.Context(), engine, lex, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runRepl(ctx context.Context, engine *medex.Medex, lex *lexicon.Lexicon, in io.Reader, out io.Writer) error {
	symptoms := engine.Symptoms()

	fmt.Fprintln(out, "===========================================")
	fmt.Fprintln(out, "  medex symptom checker")
	fmt.Fprintln(out, "===========================================")
	fmt.Fprintln(out)
	printChecklist(out, symptoms)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Enter symptom numbers or names separated by commas or spaces.")
	fmt.Fprintln(out, "Commands: list, quit (Ctrl+D also exits)")
	fmt.Fprintln(out)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "quit", "exit":
			fmt.Fprintln(out, "Goodbye!")
			return nil
		case "list":
			printChecklist(out, symptoms)
			continue
		}

		selected, err := parseSelection(line, symptoms)
		if err == nil {
			selected = lex.NormalizeAll(selected)
		}
		if err != nil {
			fmt.Fprintln(out, "Error:", err)
			continue
		}

		rep, err := engine.Diagnose(ctx, medex.DiagnoseRequest{Symptoms: selected})
		if err != nil {
			return err
		}
		printReport(out, rep)
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "\nGoodbye!")
	return scanner.Err()
}

func printChecklist(w io.Writer, symptoms []string) {
	for i, s := range symptoms {
		fmt.Fprintf(w, "  [%2d] %s\n", i+1, s)
	}
}

// parseSelection turns "1, 3 Headache" into symptom names. Numbers index the
// checklist; anything else is taken as a name, so symptoms outside the
// checklist can still be entered. Names are split on spaces, so multi-word
// lay terms need the diagnose command.
func parseSelection(line string, checklist []string) ([]string, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})

	var out []string
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			out = append(out, f)
			continue
		}
		if n < 1 || n > len(checklist) {
			return nil, fmt.Errorf("no symptom numbered %d", n)
		}
		out = append(out, checklist[n-1])
	}
	return out, nil
}
