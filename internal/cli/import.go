// Package cli implements the command line commands: one-shot imports,
// watch mode, and run status queries.
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/newspaper-importer/internal/assembler"
	"github.com/mrlokans/newspaper-importer/internal/audit"
	"github.com/mrlokans/newspaper-importer/internal/config"
	"github.com/mrlokans/newspaper-importer/internal/database"
	"github.com/mrlokans/newspaper-importer/internal/database/processes"
	"github.com/mrlokans/newspaper-importer/internal/database/runs"
	"github.com/mrlokans/newspaper-importer/internal/grouping"
	"github.com/mrlokans/newspaper-importer/internal/importer"
	"github.com/mrlokans/newspaper-importer/internal/page"
	"github.com/mrlokans/newspaper-importer/internal/progress"
	"github.com/mrlokans/newspaper-importer/internal/storage"
)

// ImportCommand runs one import of a single set and exits.
type ImportCommand struct {
	ConfigPath string
	SetName    string
	Verbose    bool
	DryRun     bool
}

func NewImportCommand() *ImportCommand {
	return &ImportCommand{}
}

func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	fs.StringVar(&cmd.ConfigPath, "config", "", "Path to the configuration file (default \""+config.DefaultConfigFile+"\")")
	fs.StringVar(&cmd.SetName, "set", "", "Name of the import set to run (required)")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print the full run log, not only errors")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Parse, validate and group the files without importing anything")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import -set <name> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import all newspaper page scans of one configured set: parse and\n")
		fmt.Fprintf(os.Stderr, "validate the files in its import folder, build one process per year,\n")
		fmt.Fprintf(os.Stderr, "and move the images into each process's master folder.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s import -set volksblatt -config ./newspaper-importer.yaml\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import -set volksblatt -dry-run\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.SetName == "" {
		return fmt.Errorf("required flag -set not provided")
	}

	return nil
}

func (cmd *ImportCommand) Run() error {
	cfg, err := config.Load(cmd.ConfigPath)
	if err != nil {
		return err
	}

	set, err := cfg.Set(cmd.SetName)
	if err != nil {
		return err
	}

	if cmd.DryRun {
		return cmd.dryRun(set)
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	state := progress.NewState(nil)
	imp := importer.New(
		cfg,
		storage.NewLocal(),
		processes.NewRepository(db.DB),
		importer.NewTemplates(cfg),
		runs.NewRepository(db.DB),
		audit.NewService(audit.NewAuditor(cfg.Audit.Dir)),
		state,
	)

	runErr := imp.Run(context.Background(), set)

	printRunLog(state, cmd.Verbose)

	processed, total := state.Counts()
	fmt.Printf("\nProcessed %d/%d pages, %d errors\n", processed, total, state.Errors())

	if runErr != nil {
		return runErr
	}
	if state.Errors() > 0 {
		return fmt.Errorf("import finished with %d errors", state.Errors())
	}
	return nil
}

// dryRun parses, validates and groups the set's files and prints what a
// real run would assemble. Nothing is written: no database, no documents,
// no file moves.
func (cmd *ImportCommand) dryRun(set *config.Set) error {
	fmt.Println("DRY RUN MODE - No changes will be made")
	fmt.Printf("Reading import folder %s\n\n", set.ImportFolder)

	files, err := storage.NewLocal().List(set.ImportFolder)
	if err != nil {
		return fmt.Errorf("failed to read import folder %s: %w", set.ImportFolder, err)
	}

	pages := make([]page.Descriptor, 0, len(files))
	for _, f := range files {
		pages = append(pages, page.Parse(f, set.MorningIdentifier, set.EveningIdentifier))
	}

	invalid := 0
	for _, p := range pages {
		if result := page.Validate(p); !result.OK() {
			invalid++
			fmt.Printf("  [INVALID] %s\n", importer.DescribeFailure(p, result))
		}
	}
	if invalid > 0 {
		fmt.Printf("\n%d of %d files are invalid; the import would abort without assembling anything.\n", invalid, len(pages))
		return fmt.Errorf("dry run found %d invalid files", invalid)
	}

	groups := grouping.GroupByYear(pages)
	fmt.Printf("Would import %d pages into %d processes:\n", grouping.TotalPages(groups), len(groups))
	for _, g := range groups {
		fmt.Printf("  %s: %d issues, %d pages\n", assembler.ProcessTitle(set, g.Year), len(g.Issues), g.PageCount())
		for _, issue := range g.Issues {
			fmt.Printf("    issue %s: %d pages\n", issue.Key, len(issue.Pages))
		}
	}

	fmt.Println("\nDry run complete. Use without -dry-run to import.")
	return nil
}

func printRunLog(state *progress.State, verbose bool) {
	for _, m := range state.History() {
		if m.Level == progress.LevelError {
			fmt.Printf("  [ERROR] %s\n", m.Message)
		} else if verbose {
			fmt.Printf("  %s\n", m.Message)
		}
	}
}
