package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/newspaper-importer/internal/config"
	"github.com/mrlokans/newspaper-importer/internal/entrypoint"
)

// WatchCommand runs the scheduler and task queue until interrupted.
type WatchCommand struct {
	ConfigPath string
	Version    string
}

func NewWatchCommand(version string) *WatchCommand {
	return &WatchCommand{Version: version}
}

func (cmd *WatchCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)

	fs.StringVar(&cmd.ConfigPath, "config", "", "Path to the configuration file (default \""+config.DefaultConfigFile+"\")")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s watch [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Watch mode: keep running and import every set on its cron schedule.\n")
		fmt.Fprintf(os.Stderr, "Sets without a 'schedule' entry are never imported automatically.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *WatchCommand) Run() error {
	cfg, err := config.Load(cmd.ConfigPath)
	if err != nil {
		return err
	}

	entrypoint.Run(cfg, cmd.Version)
	return nil
}
