package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/mrlokans/newspaper-importer/internal/config"
	"github.com/mrlokans/newspaper-importer/internal/database"
	"github.com/mrlokans/newspaper-importer/internal/database/processes"
	"github.com/mrlokans/newspaper-importer/internal/database/runs"
	"github.com/mrlokans/newspaper-importer/internal/entities"
)

// StatusCommand prints the last run of a set and its processes.
type StatusCommand struct {
	ConfigPath string
	SetName    string
}

func NewStatusCommand() *StatusCommand {
	return &StatusCommand{}
}

func (cmd *StatusCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)

	fs.StringVar(&cmd.ConfigPath, "config", "", "Path to the configuration file (default \""+config.DefaultConfigFile+"\")")
	fs.StringVar(&cmd.SetName, "set", "", "Name of the import set (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s status -set <name> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Show the last import run of a set and the processes it produced.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.SetName == "" {
		return fmt.Errorf("required flag -set not provided")
	}

	return nil
}

func (cmd *StatusCommand) Run() error {
	cfg, err := config.Load(cmd.ConfigPath)
	if err != nil {
		return err
	}
	if _, err := cfg.Set(cmd.SetName); err != nil {
		return err
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	run, err := runs.NewRepository(db.DB).Get(cmd.SetName)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		fmt.Printf("Set %s: no runs recorded yet\n", cmd.SetName)
	case err != nil:
		return fmt.Errorf("failed to load run of set %s: %w", cmd.SetName, err)
	default:
		printRun(run)
	}

	all, err := processes.NewRepository(db.DB).List()
	if err != nil {
		return fmt.Errorf("failed to list processes: %w", err)
	}
	printProcesses(all)

	return nil
}

func printRun(run *entities.ImportRun) {
	fmt.Printf("Set %s: %s\n", run.SetName, run.Status)
	fmt.Printf("  Pages:   %d/%d\n", run.Processed, run.TotalItems)
	fmt.Printf("  Errors:  %d\n", run.Errors)
	fmt.Printf("  Started: %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	if run.CompletedAt != nil {
		fmt.Printf("  Ended:   %s\n", run.CompletedAt.Format("2006-01-02 15:04:05"))
	}
}

func printProcesses(all []entities.Process) {
	if len(all) == 0 {
		fmt.Println("\nNo processes yet")
		return
	}

	fmt.Printf("\nProcesses (%d):\n", len(all))
	for _, p := range all {
		fmt.Printf("  %-40s year %s  updated %s\n",
			p.Title, p.Year, p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
}
