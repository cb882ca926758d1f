// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "batch-size",
			Aliases: []string{"b"},
			Usage:   "Items per batch (defaults to run.batch_size)",
		},
		&cli.StringFlag{
			Name:    "image",
			Aliases: []string{"i"},
			Usage:   "Image title or URL to add or remove",
		},
		&cli.IntFlag{
			Name:  "media-id",
			Usage: "Media library id, skips image resolution",
		},
		&cli.StringFlag{
			Name:  "mode",
			Usage: "add or remove (defaults to run.mode)",
		},
		&cli.StringFlag{
			Name:  "position",
			Usage: "start, end or index (defaults to run.position)",
		},
		&cli.StringFlag{
			Name:  "index",
			Usage: "Insertion index when --position=index",
		},
		&cli.StringFlag{
			Name:  "order",
			Usage: "oldest or newest (defaults to run.order)",
		},
		&cli.DurationFlag{
			Name:  "interval",
			Usage: "Pause between auto-run batches (defaults to run.interval)",
		},
	}
}

// runCommand handles one-shot and auto runs
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Add or remove an image across item galleries in batches",
		Commands: []*cli.Command{
			{
				Name:   "once",
				Usage:  "Process the first batch only",
				Flags:  runFlags(),
				Action: r.RunOnce,
			},
			{
				Name:   "auto",
				Usage:  "Process every batch, pausing between batches (Ctrl+C stops after the current batch)",
				Flags:  runFlags(),
				Action: r.RunAuto,
			},
		},
	}
}

// bulkCommand appends image URLs to item galleries
func bulkCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "bulk",
		Usage: "Append image URLs to every item gallery",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "url",
				Aliases: []string{"u"},
				Usage:   "Image URL to append (repeatable)",
			},
			&cli.StringFlag{
				Name:  "limit",
				Usage: "Number of items to update, or ALL",
				Value: "ALL",
			},
			&cli.IntFlag{
				Name:    "batch-size",
				Aliases: []string{"b"},
				Usage:   "Items per batch (defaults to run.batch_size)",
			},
		},
		Action: r.Bulk,
	}
}

// setupCommand writes the example config and prepares the journal database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create a config file or initialize the journal database",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write an example config.toml",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize the journal database and run migrations",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the latest migration after migrating",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// itemsCommand reads catalog items
func itemsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "items",
		Usage: "Catalog item operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List item ids in date order",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "order",
						Usage: "oldest or newest (defaults to run.order)",
					},
					&cli.BoolFlag{
						Name:  "unordered",
						Usage: "List ids in catalog order without sorting by date",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ItemsList,
			},
			{
				Name:  "show",
				Usage: "Show an item's gallery",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "id",
						Usage:    "Item ID",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ItemsShow,
			},
		},
	}
}

// mediaCommand resolves media library ids
func mediaCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "media",
		Usage: "Media library operations",
		Commands: []*cli.Command{
			{
				Name:  "resolve",
				Usage: "Resolve an image URL or title to its media id",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "url",
						Usage: "Exact source URL",
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Image title, matched after normalization",
					},
				},
				Action: r.MediaResolve,
			},
		},
	}
}

// historyCommand prints the change journal
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show journaled runs and their changes",
		Description: "Runs are read from the journal at journal.path. The default \":memory:\" journal\n" +
			"only lives as long as one process, so set a file path to keep history between commands,\n" +
			"or press h in the TUI to list the runs of the current session.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "run",
				Usage: "Run ID to show changes for",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "text, csv or json",
				Value:   "text",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to list (0 lists all)",
				Value: 20,
			},
		},
		Action: r.History,
	}
}

// apiCommand handles direct catalog API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the catalog REST API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Authenticated GET, prints the response body",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "param",
						Aliases: []string{"p"},
						Usage:   "Query parameter as key=value (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "raw",
						Usage: "Print the body without indenting JSON",
					},
				},
				Action: r.APIGet,
			},
		},
	}
}

// tuiCommand launches the interactive interface
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Interactive batch runner (o run once, a auto run, s stop, r reset, q quit)",
		Flags:  runFlags(),
		Action: r.TUI,
	}
}
