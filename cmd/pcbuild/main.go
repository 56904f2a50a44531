// pcbuild CLI - PC build compatibility and recommendation engine
//
// Usage:
//
//	pcbuild check --build build.json [options]
//	pcbuild recommend --template gaming --catalog catalog.json
//	pcbuild catalog import --file catalog.json --database-url postgres://...
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"pcbuild/api"
	"pcbuild/db/catalog"
	"pcbuild/decision/compat"
	"pcbuild/decision/parts"
	"pcbuild/decision/policy"
	"pcbuild/decision/power"
	"pcbuild/decision/scoring"
	"pcbuild/decision/specs"
	"pcbuild/pkg/platform"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ExitDeny is returned when the build verdict is deny.
const ExitDeny = 2

const catalogMigrateTimeout = 30 * time.Second

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "pcbuild",
		Usage:   "PC build compatibility checks, power budgets and template recommendations",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{platform.EnvLogLevel},
			},
			&cli.StringFlag{
				Name:    "policy",
				Usage:   "Path to a YAML policy file overriding the default thresholds and gates",
				EnvVars: []string{platform.EnvPolicyFile},
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "PostgreSQL DSN of the parts catalog",
				EnvVars: []string{platform.EnvDatabaseURL},
			},
		},

		Commands: []*cli.Command{
			checkCommand(),
			powerCommand(),
			recommendCommand(),
			specsCommand(),
			templatesCommand(),
			catalogCommand(),
			serveCommand(),
		},
	}
}

// env is what every command needs: the loaded policy and a logger.
type env struct {
	policy policy.Config
	logger *slog.Logger
}

func setup(c *cli.Context) (*env, error) {
	logger := platform.InitLogger(c.String("log-level"))
	cfg, err := policy.Load(c.String("policy"))
	if err != nil {
		return nil, err
	}
	return &env{policy: cfg, logger: logger}, nil
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "table",
		Usage:   "Output format (table, json, markdown)",
	}
}

func buildFlag(required bool) cli.Flag {
	return &cli.StringFlag{
		Name:     "build",
		Aliases:  []string{"b"},
		Usage:    "Path to a JSON build: an object keyed by category with one part record each",
		Required: required,
	}
}

func readBuild(path string) (parts.Selection, error) {
	if path == "" {
		return parts.NewSelection(nil), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return parts.Selection{}, fmt.Errorf("failed to read build: %w", err)
	}
	var sel parts.Selection
	if err := json.Unmarshal(data, &sel); err != nil {
		return parts.Selection{}, fmt.Errorf("failed to parse build: %w", err)
	}
	return sel, nil
}

// denyExit turns a deny verdict into exit code 2.
func denyExit(v policy.Verdict) error {
	if v.Decision == policy.DecisionDeny {
		return cli.Exit("", ExitDeny)
	}
	return nil
}

// =============================================================================
// CHECK COMMAND
// =============================================================================

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Check a build for compatibility issues and apply the policy gates",
		Flags: []cli.Flag{
			buildFlag(true),
			formatFlag(),
			&cli.Float64Flag{
				Name:  "price-limit",
				Usage: "Deny builds whose total price exceeds this amount",
			},
		},
		Action: runCheck,
	}
}

func runCheck(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}

	sel, err := readBuild(c.String("build"))
	if err != nil {
		return err
	}

	if limit := c.Float64("price-limit"); limit > 0 {
		e.policy.Gates = append(e.policy.Gates, policy.Gate{
			ID:        "cli-price-limit",
			Name:      "Price Limit",
			Type:      policy.GateTypePriceLimit,
			Severity:  policy.SeverityError,
			Threshold: limit,
			Enabled:   true,
		})
	}

	evaluator, err := e.policy.Evaluator(compat.WithLogger(e.logger))
	if err != nil {
		return fmt.Errorf("failed to build evaluator: %w", err)
	}

	assessment := e.policy.Assess(evaluator, sel)
	e.logger.Debug("build assessed",
		"parts", sel.Len(),
		"issues", len(assessment.Compatibility.Issues),
		"decision", assessment.Verdict.Decision)

	if err := renderAssessment(c.App.Writer, c.String("format"), assessment); err != nil {
		return err
	}
	return denyExit(assessment.Verdict)
}

// =============================================================================
// POWER COMMAND
// =============================================================================

func powerCommand() *cli.Command {
	return &cli.Command{
		Name:  "power",
		Usage: "Show the power budget and PSU recommendation for a build",
		Flags: []cli.Flag{
			buildFlag(true),
			formatFlag(),
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			sel, err := readBuild(c.String("build"))
			if err != nil {
				return err
			}
			return renderBudget(c.App.Writer, c.String("format"), power.Calculate(sel, e.policy.Power))
		},
	}
}

// =============================================================================
// RECOMMEND COMMAND
// =============================================================================

func recommendCommand() *cli.Command {
	return &cli.Command{
		Name:  "recommend",
		Usage: "Complete a build from a catalog following a use-case template",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "template",
				Aliases: []string{"t"},
				Value:   "gaming",
				Usage:   "Built-in template name (see the templates command)",
			},
			&cli.StringFlag{
				Name:  "template-file",
				Usage: "Path to a YAML template; overrides --template",
			},
			&cli.StringFlag{
				Name:    "catalog",
				Aliases: []string{"c"},
				Usage:   "Path to a JSON catalog; without it the catalog is read from --database-url",
			},
			buildFlag(false),
			&cli.IntFlag{
				Name:  "top",
				Value: scoring.DefaultTopN,
				Usage: "How many top-ranked candidates to probe per category",
			},
			formatFlag(),
		},
		Action: runRecommend,
	}
}

func runRecommend(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}

	tmpl, err := loadTemplate(c.String("template"), c.String("template-file"))
	if err != nil {
		return err
	}

	start, err := readBuild(c.String("build"))
	if err != nil {
		return err
	}

	candidates, err := loadCatalog(c, tmpl)
	if err != nil {
		return err
	}

	evaluator, err := e.policy.Evaluator(compat.WithLogger(e.logger))
	if err != nil {
		return fmt.Errorf("failed to build evaluator: %w", err)
	}

	scorer := scoring.NewScorer(evaluator,
		scoring.WithWeights(e.policy.Scoring),
		scoring.WithTopN(c.Int("top")),
		scoring.WithLogger(e.logger))

	sel, report := scorer.Build(tmpl, candidates, start)
	assessment := e.policy.Assess(evaluator, sel)

	if err := renderRecommendation(c.App.Writer, c.String("format"), sel, report, assessment); err != nil {
		return err
	}
	return denyExit(assessment.Verdict)
}

func loadTemplate(name, path string) (scoring.Template, error) {
	if path == "" {
		tmpl, ok := scoring.TemplateByName(name)
		if !ok {
			return scoring.Template{}, fmt.Errorf("unknown template %q", name)
		}
		return tmpl, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return scoring.Template{}, fmt.Errorf("failed to read template: %w", err)
	}
	var tmpl scoring.Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return scoring.Template{}, fmt.Errorf("failed to parse template: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return scoring.Template{}, err
	}
	return tmpl, nil
}

func loadCatalog(c *cli.Context, tmpl scoring.Template) (scoring.Catalog, error) {
	if path := c.String("catalog"); path != "" {
		return catalog.ReadFile(path)
	}

	dsn := c.String("database-url")
	if dsn == "" {
		return nil, errors.New("either --catalog or --database-url is required")
	}
	store, err := catalog.OpenDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to catalog database: %w", err)
	}
	defer store.Close()

	categories := make([]parts.Category, len(tmpl.Entries))
	for i, entry := range tmpl.Entries {
		categories[i] = entry.Category
	}
	return store.LoadCatalog(c.Context, categories...)
}

// =============================================================================
// REFERENCE COMMANDS
// =============================================================================

func specsCommand() *cli.Command {
	return &cli.Command{
		Name:  "specs",
		Usage: "List the attribute definitions of a category",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "category",
				Usage:    "Part category (" + categoryList() + ")",
				Required: true,
			},
			formatFlag(),
		},
		Action: func(c *cli.Context) error {
			cat, ok := parts.ParseCategory(c.String("category"))
			if !ok {
				return fmt.Errorf("unknown category %q (want one of %s)", c.String("category"), categoryList())
			}
			return renderSpecs(c.App.Writer, c.String("format"), cat, specs.ForCategory(cat))
		},
	}
}

func categoryList() string {
	names := make([]string, 0, len(parts.Categories()))
	for _, cat := range parts.Categories() {
		names = append(names, string(cat))
	}
	return strings.Join(names, ", ")
}

func templatesCommand() *cli.Command {
	return &cli.Command{
		Name:  "templates",
		Usage: "List the built-in use-case templates",
		Flags: []cli.Flag{formatFlag()},
		Action: func(c *cli.Context) error {
			return renderTemplates(c.App.Writer, c.String("format"), scoring.Templates())
		},
	}
}

// =============================================================================
// CATALOG COMMAND
// =============================================================================

func catalogCommand() *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Manage the parts catalog database",
		Subcommands: []*cli.Command{
			{
				Name:  "import",
				Usage: "Validate a JSON catalog and upsert it into the database",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path to the JSON catalog",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Validate only (no database writes)",
					},
				},
				Action: runCatalogImport,
			},
		},
	}
}

func runCatalogImport(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}

	loaded, err := catalog.ReadFile(c.String("file"))
	if err != nil {
		return err
	}
	total := len(catalog.Flatten(loaded))

	if c.Bool("dry-run") {
		fmt.Fprintf(c.App.Writer, "%d parts valid; nothing written (dry run)\n", total)
		return nil
	}

	dsn := c.String("database-url")
	if dsn == "" {
		return errors.New("--database-url is required unless --dry-run is set")
	}
	store, err := catalog.OpenDSN(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to catalog database: %w", err)
	}
	defer store.Close()

	result, err := store.Ingest(c.Context, loaded)
	if err != nil {
		return fmt.Errorf("catalog import failed: %w", err)
	}
	e.logger.Info("catalog imported", "parts", result.Total, "duration", result.Duration)
	return printImport(c.App.Writer, result)
}

func printImport(w io.Writer, r *catalog.IngestionResult) error {
	fmt.Fprintf(w, "Imported %d parts in %s\n", r.Total, r.Duration)
	for _, cat := range parts.Categories() {
		if n := r.Counts[cat]; n > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat, n)
		}
	}
	return nil
}

// =============================================================================
// SERVE COMMAND (API SERVER)
// =============================================================================

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the pcbuild API server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "API server port",
				EnvVars: []string{platform.EnvPort},
			},
			&cli.StringFlag{
				Name:    "cors-origins",
				Value:   "*",
				Usage:   "Comma-separated list of allowed CORS origins",
				EnvVars: []string{"PCBUILD_CORS_ORIGINS"},
			},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}

	var source api.CatalogSource
	if dsn := c.String("database-url"); dsn != "" {
		store, err := catalog.OpenDSN(dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to catalog database: %w", err)
		}
		defer store.Close()

		ctx, cancel := context.WithTimeout(c.Context, catalogMigrateTimeout)
		defer cancel()
		if err := store.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate catalog schema: %w", err)
		}
		source = store
	}

	// Parse CORS origins
	corsOrigins := strings.Split(c.String("cors-origins"), ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}

	config := api.DefaultConfig()
	config.Port = c.Int("port")
	config.CORSOrigins = corsOrigins

	server, err := api.NewServer(e.policy, source, config, e.logger)
	if err != nil {
		return err
	}
	return server.StartWithGracefulShutdown()
}
