// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/urfave/cli/v3"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// serveCommand starts the asset server
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the asset root over HTTP",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to listen on (overrides server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides server.port)",
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Directory to serve (overrides assets.root)",
			},
		},
		Action: r.Serve,
	}
}

// resolveCommand explains how a URL path maps onto the asset root
func resolveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "resolve",
		Usage: "Show the file, content type and status a URL path resolves to",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "path",
			},
		},
		Flags:  []cli.Flag{configFlag()},
		Action: r.Resolve,
	}
}

// mimeCommand prints the content type table
func mimeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "mime",
		Usage: "Print the effective extension to content type table",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Mime,
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage: "Write a default config and initialize the access log database",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "rollback",
				Usage: "Revert the most recent migration instead of applying pending ones",
			},
		},
		Action: r.Setup,
	}
}

// logsCommand reads persisted access records
func logsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "logs",
		Usage: "Inspect persisted access records",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent access records",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of records to return",
						Value: 50,
					},
					&cli.IntFlag{
						Name:  "status",
						Usage: "Only show records with this status code",
					},
					&cli.DurationFlag{
						Name:  "since",
						Usage: "Only include records newer than this (e.g. 15m, 24h)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.LogsList,
			},
			{
				Name:  "show",
				Usage: "Show one access record by ID",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.LogsShow,
			},
			{
				Name:  "export",
				Usage: "Export recent access records to a file",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (csv, md, text, json)",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of records to export",
						Value: 1000,
					},
					&cli.IntFlag{
						Name:  "status",
						Usage: "Only export records with this status code",
					},
					&cli.DurationFlag{
						Name:  "since",
						Usage: "Only include records newer than this (e.g. 15m, 24h)",
					},
				},
				Action: r.LogsExport,
			},
			{
				Name:  "watch",
				Usage: "Interactively follow recent access records",
				Flags: []cli.Flag{
					configFlag(),
					&cli.DurationFlag{
						Name:  "interval",
						Usage: "Refresh interval",
						Value: 2 * time.Second,
					},
				},
				Action: r.LogsWatch,
			},
		},
	}
}
