package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/medex/internal/envconfig"
	"github.com/cognicore/medex/internal/logging"
	"github.com/cognicore/medex/pkg/medex"
	"github.com/cognicore/medex/pkg/medex/config"
	"github.com/cognicore/medex/pkg/medex/lexicon"
	"github.com/cognicore/medex/pkg/medex/store/sqlite"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "medex",
		Short: "medex - rule-based symptom diagnosis",
		Long: `medex matches observed symptoms against a catalog of illnesses.

An illness is reported only when its rules prove it from the knowledge base
and every one of its required symptoms was observed.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := envconfig.Load(); err != nil {
				return err
			}
			// environment fills any global flag left unset
			defaults := map[string]string{
				"catalog":   envconfig.CatalogPath(),
				"rules":     envconfig.RulesPath(),
				"db":        envconfig.DatabasePath(),
				"log-level": envconfig.LogLevel(),
			}
			flags := cmd.Flags()
			for name, v := range defaults {
				if !flags.Changed(name) && v != "" {
					if err := flags.Set(name, v); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.String("catalog", "", "Catalog YAML file (default: built-in catalog)")
	pf.String("rules", "", "Rules file, replaces the catalog's rules")
	pf.String("db", "", "SQLite catalog store; when set the catalog is loaded from it")
	pf.String("log-level", "warn", "Log level: debug, info, warn, error, off")
	pf.Int("parallelism", 1, "Illnesses evaluated concurrently per diagnosis")
	pf.String("lexicon", "", "Symptom synonyms YAML file")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "medex v%s (%s)\n", version, commit)
		},
	})

	rootCmd.AddCommand(newDiagnoseCmd())
	rootCmd.AddCommand(newReplCmd())
	rootCmd.AddCommand(newSymptomsCmd())
	rootCmd.AddCommand(newRulesCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	level, _ := cmd.Flags().GetString("log-level")
	return logging.New(level)
}

// buildEngine assembles a Medex from the global flags.
// With --db the stored catalog wins over --catalog and --rules.
func buildEngine(ctx context.Context, cmd *cobra.Command, logger *zap.Logger) (*medex.Medex, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	parallelism, _ := cmd.Flags().GetInt("parallelism")
	if !cmd.Flags().Changed("parallelism") {
		parallelism = max(parallelism, envconfig.Parallelism())
	}

	opts := medex.Options{
		Logger:      logger,
		Parallelism: parallelism,
	}

	if dbPath != "" {
		st, err := sqlite.OpenSQLite(ctx, dbPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		m, err := medex.NewFromStore(ctx, st, opts)
		if err != nil {
			st.Close()
			return nil, err
		}
		return m, nil
	}

	components, err := loadComponents(cmd)
	if err != nil {
		return nil, err
	}
	opts.Catalog = components.Catalog
	return medex.New(opts)
}

func loadComponents(cmd *cobra.Command) (*config.Components, error) {
	catalogPath, _ := cmd.Flags().GetString("catalog")
	rulesPath, _ := cmd.Flags().GetString("rules")

	loader := config.Loader{
		CatalogPath: catalogPath,
		RulesPath:   rulesPath,
	}
	components, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return components, nil
}

// buildLexicon resolves loosely typed symptom names against engine's catalog,
// plus the --lexicon synonyms file when given.
func buildLexicon(cmd *cobra.Command, engine *medex.Medex) (*lexicon.Lexicon, error) {
	lex := lexicon.FromCatalog(engine.Catalog())

	path, _ := cmd.Flags().GetString("lexicon")
	if path != "" {
		if err := lex.LoadFromYAML(path); err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
	}
	return lex, nil
}
