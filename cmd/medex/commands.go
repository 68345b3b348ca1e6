package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/medex/pkg/medex"
	"github.com/cognicore/medex/pkg/medex/catalog"
	"github.com/cognicore/medex/pkg/medex/config"
	"github.com/cognicore/medex/pkg/medex/report"
	"github.com/cognicore/medex/pkg/medex/store/sqlite"
)

func newDiagnoseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnose [symptom...]",
		Short: "Diagnose observed symptoms",
		Example: `  medex diagnose --symptom Fever --symptom Cough
  medex diagnose Fever Cough Headache --format json`,
		RunE: runDiagnose,
	}
	cmd.Flags().StringArrayP("symptom", "s", nil, "Observed symptom (repeatable)")
	cmd.Flags().String("format", "text", "Output format: text, json, html")
	cmd.Flags().Bool("exact", false, "Pass symptom names through without normalization")
	return cmd
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	symptoms, _ := cmd.Flags().GetStringArray("symptom")
	symptoms = append(symptoms, args...)
	format, _ := cmd.Flags().GetString("format")
	exact, _ := cmd.Flags().GetBool("exact")

	switch format {
	case "text", "json", "html":
	default:
		return fmt.Errorf("unknown format %q", format)
	}

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

	if !exact {
		lex, err := buildLexicon(cmd, engine)
		if err != nil {
			return err
		}
		symptoms = lex.NormalizeAll(symptoms)
	}

	rep, err := engine.Diagnose(cmd.Context(), medex.DiagnoseRequest{Symptoms: symptoms})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case "html":
		if err := report.RenderHTML(out, rep); err != nil {
			return err
		}
		_, err := fmt.Fprintln(out)
		return err
	default:
		printReport(out, rep)
		return nil
	}
}

func printReport(w io.Writer, rep report.Report) {
	fmt.Fprintln(w, rep.Message)
	for _, nm := range rep.Explain.NearMisses {
		fmt.Fprintf(w, "  almost %s (missing %s)\n", nm.Illness, nm.Missing)
	}
	if len(rep.Explain.UnknownSymptoms) > 0 {
		fmt.Fprintf(w, "  unknown symptoms: %s\n", strings.Join(rep.Explain.UnknownSymptoms, ", "))
	}
}

func newSymptomsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "symptoms",
		Short: "List the symptom checklist",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := buildEngine(cmd.Context(), cmd, zap.NewNop())
			if err != nil {
				return err
			}
			defer engine.Close()

			for i, s := range engine.Symptoms() {
				fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s\n", i+1, s)
			}
			return nil
		},
	}
}

func newRulesCmd() *cobra.Command {
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Rule operations",
	}
	rulesCmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Parse and validate the catalog's rules",
		RunE:  runRulesCheck,
	})
	rulesCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print every rule in canonical form",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := buildEngine(cmd.Context(), cmd, zap.NewNop())
			if err != nil {
				return err
			}
			defer engine.Close()

			for _, r := range engine.Rules() {
				fmt.Fprintln(cmd.OutOrStdout(), r)
			}
			return nil
		},
	})
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog's rules to a rules file",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				return fmt.Errorf("--out required")
			}
			engine, err := buildEngine(cmd.Context(), cmd, zap.NewNop())
			if err != nil {
				return err
			}
			defer engine.Close()

			rules := engine.Rules()
			header := fmt.Sprintf("medex rules, %d rules\nformat: Premise & Premise ==> Conclusion", len(rules))
			if err := config.WriteRules(out, header, rules); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rules to %s\n", len(rules), out)
			return nil
		},
	}
	exportCmd.Flags().String("out", "", "Destination rules file")
	rulesCmd.AddCommand(exportCmd)

	return rulesCmd
}

func runRulesCheck(cmd *cobra.Command, args []string) error {
	engine, err := buildEngine(cmd.Context(), cmd, zap.NewNop())
	if err != nil {
		return err
	}
	defer engine.Close()

	cat := engine.Catalog()
	out := cmd.OutOrStdout()

	rules, err := cat.ParseRules(catalog.BuildOptions{})
	if err != nil {
		return err
	}

	unrestricted := 0
	for _, r := range rules {
		if !r.RangeRestricted() {
			unrestricted++
		}
	}

	fmt.Fprintf(out, "%d illnesses, %d symptoms, %d rules: ok\n",
		len(cat.Illnesses), len(cat.Symptoms), len(rules))
	if unrestricted > 0 {
		fmt.Fprintf(out, "%d rules conclude a variable no premise binds\n", unrestricted)
	}

	uncollectable := cat.UncollectableSymptoms()
	for _, ill := range cat.Illnesses {
		if missing, ok := uncollectable[ill.Name]; ok {
			fmt.Fprintf(out, "%s requires symptoms outside the checklist: %s\n",
				ill.Name, strings.Join(missing, ", "))
		}
	}
	return nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Save the catalog (from --catalog/--rules or built-in) into the --db store",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, _ := cmd.Flags().GetString("db")
			if dbPath == "" {
				return fmt.Errorf("--db required")
			}

			components, err := loadComponents(cmd)
			if err != nil {
				return err
			}
			// fail on malformed rules before touching the store
			if _, err := components.Catalog.ParseRules(catalog.BuildOptions{}); err != nil {
				return err
			}

			st, err := sqlite.OpenSQLite(cmd.Context(), dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.SaveCatalog(cmd.Context(), components.Catalog); err != nil {
				return fmt.Errorf("save catalog: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d illnesses, %d rules into %s\n",
				len(components.Catalog.Illnesses), len(components.Catalog.Rules), dbPath)
			return nil
		},
	}
}
