package main

import (
	"log"
	"os"

	"github.com/ix-apps/storage-render/consts"
	"github.com/urfave/cli/v2"
)

// Version is a build-time variable. The value is overridden by ldflags.
var Version string

type CLIArgs struct {
	LogLevel int

	Render struct {
		Input  string
		Output string
	}

	Serve struct {
		HTTPPort int
		LogFile  string
	}
}

func App() {
	var args CLIArgs

	app := &cli.App{
		Name:    consts.ServiceName,
		Usage:   "translate app storage declarations into compose mounts and volumes",
		Version: Version,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "log-level",
				Value:       consts.DefaultLogLevel,
				DefaultText: "4 (Info)",
				Usage:       "log verbosity level: 2 (Error), 3 (Warning), 4 (Info), 5 (Debug), 6 (Trace)",
				Destination: &args.LogLevel,
				EnvVars:     []string{"STORAGE_RENDER_LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "render",
				Usage: "Render the storage of a request document as compose YAML",
				Flags: []cli.Flag{
					&cli.PathFlag{
						Name:        "input",
						Aliases:     []string{"i"},
						Usage:       "Request document (.yaml, .yml, .json, .jsonc), - for stdin",
						Value:       "-",
						Destination: &args.Render.Input,
						EnvVars:     []string{"STORAGE_RENDER_INPUT"},
					},
					&cli.PathFlag{
						Name:        "output",
						Aliases:     []string{"o"},
						Usage:       "Write the compose document to a file instead of stdout",
						Destination: &args.Render.Output,
						EnvVars:     []string{"STORAGE_RENDER_OUTPUT"},
					},
				},
				Action: func(c *cli.Context) error {
					if err := render(c.Context, args); err != nil {
						return cli.Exit(err, 1)
					}
					return nil
				},
			},
			{
				Name:  "serve",
				Usage: "Start the HTTP render service",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:        "http-port",
						Usage:       "Set the http port",
						Value:       consts.ServerHTTPPort,
						Destination: &args.Serve.HTTPPort,
						EnvVars:     []string{"STORAGE_RENDER_HTTP_PORT"},
					},
					&cli.PathFlag{
						Name:        "log-file",
						Usage:       "Also append logs to this file",
						Destination: &args.Serve.LogFile,
						EnvVars:     []string{"STORAGE_RENDER_LOG_FILE"},
					},
				},
				Action: func(c *cli.Context) error {
					if err := serve(c.Context, args, Version); err != nil {
						return cli.Exit(err, 1)
					}
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
