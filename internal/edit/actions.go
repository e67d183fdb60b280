package edit

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"print-preflight/models"
	"print-preflight/pkg/document"
	"print-preflight/pkg/preflight"
	"print-preflight/pkg/storage"
)

func EditAction(c *cli.Context) error {
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

	path := c.Args().First()
	instruction := c.String("instruction")
	if path == "" || instruction == "" {
		fmt.Fprintln(os.Stderr, "Error: an image and an --instruction are required")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  preflight edit cover.png --instruction "remove the coffee stain in the top right corner"`)
		os.Exit(1)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read %s: %v\n", path, err)
		os.Exit(1)
	}

	mime, err := document.ValidateImage(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !cfg.HasCredentials() {
		fmt.Fprintf(os.Stderr, "Error: no API key configured (set %s or api_key in the config file)\n", models.APIKeyEnv)
		os.Exit(1)
	}

	logger.Info("Editing image", "file", path, "mime", mime)

	analyzer := preflight.New(cfg)
	result, err := analyzer.Edit(c.Context, models.EditRequest{
		Data:        data,
		MIMEType:    mime,
		Instruction: instruction,
	})
	if err != nil {
		logger.Error("edit failed", "error", err)
		fmt.Fprintln(os.Stderr, "Edit failed. The original image is untouched; you can retry the same command.")
		os.Exit(2)
	}

	outPath := c.String("out")
	if outPath == "" {
		store, err := storage.New(cfg.OutputDir)
		if err != nil {
			logger.Error("failed to open output directory", "error", err)
			os.Exit(2)
		}
		outPath = store.RunPath(path, "edited"+storage.ExtForMIME(result.MIMEType))
	}
	if err := os.WriteFile(outPath, result.Data, 0644); err != nil {
		logger.Error("failed to save edited image", "error", err)
		os.Exit(2)
	}

	logger.Info("Edited image saved", "path", outPath, "mime", result.MIMEType, "bytes", len(result.Data))
	fmt.Println(outPath)
	return nil
}
