package generate

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"print-preflight/models"
	"print-preflight/pkg/preflight"
	"print-preflight/pkg/storage"
)

func GenerateAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(2)
	}

	prompt := c.String("prompt")
	if prompt == "" {
		prompt = c.Args().First()
	}
	if prompt == "" {
		fmt.Fprintln(os.Stderr, "Error: no prompt provided")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  preflight generate "a letterpress business card mockup" --resolution 2K`)
		os.Exit(1)
	}

	if !cfg.HasCredentials() {
		fmt.Fprintf(os.Stderr, "Error: no API key configured (set %s or api_key in the config file)\n", models.APIKeyEnv)
		os.Exit(1)
	}

	resolution := models.Resolution(c.String("resolution"))
	logger.Info("Generating image", "resolution", resolution)

	analyzer := preflight.New(cfg)
	result, err := analyzer.Generate(c.Context, models.GenerateRequest{
		Prompt:     prompt,
		Resolution: resolution,
	})
	if err != nil {
		logger.Error("generation failed", "error", err)
		fmt.Fprintln(os.Stderr, "Generation failed. You can retry the same command.")
		os.Exit(2)
	}

	outPath := c.String("out")
	if outPath == "" {
		store, err := storage.New(cfg.OutputDir)
		if err != nil {
			logger.Error("failed to open output directory", "error", err)
			os.Exit(2)
		}
		outPath = store.RunPath("generated", "image"+storage.ExtForMIME(result.MIMEType))
	}
	if err := os.WriteFile(outPath, result.Data, 0644); err != nil {
		logger.Error("failed to save image", "error", err)
		os.Exit(2)
	}

	logger.Info("Image saved", "path", outPath, "mime", result.MIMEType, "bytes", len(result.Data))
	fmt.Println(outPath)
	return nil
}
