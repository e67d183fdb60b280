package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"print-preflight/internal/analyze"
	"print-preflight/internal/edit"
	"print-preflight/internal/generate"
	"print-preflight/internal/serve"
)

func main() {
	app := &cli.App{
		Name:  "preflight",
		Usage: "AI-assisted print preflight: analyze print-ready PDFs, generate and edit print imagery",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "preflight.yaml",
				Usage: "path to the YAML config file",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "only log errors",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "analyze",
				Usage:     "Run a preflight inspection on a print-ready PDF",
				ArgsUsage: "<document.pdf>",
				Action:    analyze.AnalyzeAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Value: "json",
						Usage: "output format: json or yaml",
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "also save the report under the output directory",
					},
					&cli.StringFlag{
						Name:  "output-dir",
						Usage: "directory for saved artifacts",
					},
					&cli.BoolFlag{
						Name:  "strict-verdict",
						Usage: "downgrade READY_FOR_PRINT when any check FAILs",
					},
				},
			},
			{
				Name:      "generate",
				Usage:     "Generate print imagery from a text prompt",
				ArgsUsage: "<prompt>",
				Action:    generate.GenerateAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "prompt",
						Usage: "image description (alternative to the positional argument)",
					},
					&cli.StringFlag{
						Name:  "resolution",
						Value: "1K",
						Usage: "output size tier: 1K, 2K, or 4K",
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "output image path (default: under the output directory)",
					},
				},
			},
			{
				Name:      "edit",
				Usage:     "Edit an image with a natural-language instruction",
				ArgsUsage: "<image>",
				Action:    edit.EditAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "instruction",
						Usage:    "what to change in the image",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "output image path (default: under the output directory)",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Expose analyze/generate/edit over HTTP",
				Action: serve.ServeAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "port",
						Value: "8080",
						Usage: "listen port",
					},
					&cli.BoolFlag{
						Name:  "strict-verdict",
						Usage: "downgrade READY_FOR_PRINT when any check FAILs",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
