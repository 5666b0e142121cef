package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"jankguard/internal/config"
	"jankguard/internal/diag"
	"jankguard/internal/engine"
	"jankguard/internal/render"
	"jankguard/internal/storage"
)

var (
	rootCmd = &cobra.Command{
		Use:   "jankguard",
		Short: "Linter for blocking database operations on the UI path",
		Long: `jankguard flags blocking database operations in JavaScript/TypeScript
code that are not immediately followed by a frame-yield call, and can
rewrite the code to insert the mitigation.`,
	}
	configPath string
	dbPath     string
	format     string
	dryRun     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to jankguard.yaml (default: ./jankguard.yaml)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the result cache database (SQLite); empty disables caching")

	checkCmd.Flags().StringVarP(&format, "format", "f", "pretty", "Output format: pretty or json")
	fixCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without writing files")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(rulesCmd)
}

// initEngine loads configuration and wires the analysis engine, opening the
// cache store when requested.
func initEngine() (*engine.Engine, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	path := dbPath
	if path == "" {
		path = os.Getenv("JANKGUARD_DB")
	}

	var store storage.Store
	cleanup := func() {}
	if path != "" {
		s, err := storage.NewSQLiteStore(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open cache database: %w", err)
		}
		store = s
		cleanup = func() { s.Close() }
	}

	return engine.New(cfg, store), cleanup, nil
}

func targetRoot(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Analyze a project and print diagnostics",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e, cleanup, err := initEngine()
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer cleanup()

		diags, err := e.AnalyzeProject(context.Background(), targetRoot(args))
		if err != nil {
			log.Fatalf("Analysis failed: %v", err)
		}

		load := render.SourceLoader(os.ReadFile)
		switch format {
		case "json":
			if err := render.JSON(os.Stdout, diags, load); err != nil {
				log.Fatalf("Failed to encode diagnostics: %v", err)
			}
		case "pretty":
			render.Pretty(os.Stdout, diags, load)
			fmt.Printf("%d issue(s) found\n", len(diags))
		default:
			log.Fatalf("Unknown format: %s", format)
		}

		for _, d := range diags {
			if d.Severity >= diag.SevWarning {
				os.Exit(1)
			}
		}
	},
}

var fixCmd = &cobra.Command{
	Use:   "fix [path]",
	Short: "Apply automated fixes in place",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e, cleanup, err := initEngine()
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer cleanup()

		result, err := e.FixProject(context.Background(), targetRoot(args), dryRun)
		if err != nil {
			log.Fatalf("Fix failed: %v", err)
		}

		verb := "applied"
		if dryRun {
			verb = "would apply"
		}
		fmt.Printf("%s %d fix(es), skipped %d, across %d file(s)\n",
			verb, result.Applied, result.Skipped, len(result.ChangedFiles))
		for _, path := range result.ChangedFiles {
			fmt.Printf("  %s\n", path)
		}
	},
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the rule taxonomy",
	Run: func(cmd *cobra.Command, args []string) {
		for _, def := range diag.Definitions() {
			fmt.Printf("%s  %-22s  %-10s  %s\n", def.Code, def.Slug, def.DefaultSeverity, def.Title)
		}
	},
}
