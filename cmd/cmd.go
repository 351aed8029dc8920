// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func init() {
	// -v belongs to --verbose.
	cli.VersionFlag = &cli.BoolFlag{Name: "version", Usage: "print the version"}
}

// rootCommand runs the concert search; everything else is a subcommand.
func rootCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "gigx",
		Usage:   "Find concerts by your Spotify artists during your upcoming travels",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
			&cli.BoolFlag{
				Name:  "csv",
				Usage: "Output CSV",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write results to a file instead of stdout",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Hide the progress bar",
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "Browse results in an interactive terminal UI",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Log file used while the TUI is running",
				Value: "./tmp/gigx-tui.log",
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Do not record this search",
			},
		},
		Action:   r.Find,
		Commands: r.register(),
	}
}

// setupCommand handles setup operations for configuration and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml from the template and initialize the database",
		Action: r.Setup,
	}
}

// configCommand inspects the configuration
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "check",
				Usage:  "Report which calendar source and concert providers are usable",
				Action: r.ConfigCheck,
			},
		},
	}
}

// historyCommand lists and shows recorded searches
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recorded searches",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of searches to list (0 for all)",
				Value: 10,
			},
		},
		Action: r.HistoryList,
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the concerts found by one search",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.HistoryShow,
			},
		},
	}
}

// cleanCommand removes cached credentials
func cleanCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "clean",
		Usage: "Remove stored tokens and search history",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Skip the confirmation prompt",
			},
			&cli.BoolFlag{
				Name:  "tokens-only",
				Usage: "Keep search history",
			},
		},
		Action: r.Clean,
	}
}
