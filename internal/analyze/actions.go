package analyze

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"print-preflight/models"
	"print-preflight/pkg/document"
	"print-preflight/pkg/preflight"
	"print-preflight/pkg/storage"
	"print-preflight/pkg/zone"
)

// Overlay pairs a check with its renderable highlight rectangle. Checks
// without a recognized zone get no overlay entry.
type Overlay struct {
	CheckIndex int               `json:"check_index" yaml:"check_index"`
	Zone       models.VisualZone `json:"zone" yaml:"zone"`
	Rect       zone.Rect         `json:"rect" yaml:"rect"`
}

// Output is the rendered result of one analysis run.
type Output struct {
	File           string         `json:"file" yaml:"file"`
	LocalPageCount int            `json:"local_page_count" yaml:"local_page_count"`
	Report         *models.Report `json:"report" yaml:"report"`
	Overlays       []Overlay      `json:"overlays,omitempty" yaml:"overlays,omitempty"`
}

func AnalyzeAction(c *cli.Context) error {
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
	if c.Bool("strict-verdict") {
		cfg.StrictVerdict = true
	}
	if c.IsSet("output-dir") {
		cfg.OutputDir = c.String("output-dir")
	}

	path := c.Args().First()
	if path == "" {
		fmt.Fprintln(os.Stderr, "Error: no document provided")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  preflight analyze flyer.pdf")
		fmt.Fprintln(os.Stderr, "  preflight analyze flyer.pdf --format yaml --save")
		os.Exit(1)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read %s: %v\n", path, err)
		os.Exit(1)
	}

	// Local rejection happens before the gate and before any network call.
	if err := document.ValidateForAnalysis(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !cfg.HasCredentials() {
		fmt.Fprintf(os.Stderr, "Error: no API key configured (set %s or api_key in the config file)\n", models.APIKeyEnv)
		os.Exit(1)
	}

	logger.Info("Analyzing document", "file", path, "bytes", len(data), "pages", document.PageCount(data))

	analyzer := preflight.New(cfg)
	report, err := analyzer.Analyze(c.Context, models.AnalyzeRequest{Data: data, Filename: path})
	if err != nil {
		logger.Error("analysis failed", "error", err)
		fmt.Fprintln(os.Stderr, "Analysis failed. The document was not changed; you can retry the same command.")
		os.Exit(2)
	}

	out := &Output{
		File:           path,
		LocalPageCount: document.PageCount(data),
		Report:         report,
		Overlays:       buildOverlays(report),
	}

	rendered, err := render(out, c.String("format"))
	if err != nil {
		logger.Error("failed to render report", "error", err)
		os.Exit(2)
	}
	fmt.Print(string(rendered))

	if c.Bool("save") {
		store, err := storage.New(cfg.OutputDir)
		if err != nil {
			logger.Error("failed to open output directory", "error", err)
			os.Exit(2)
		}
		artifact := "report." + formatExt(c.String("format"))
		savePath := store.RunPath(path, artifact)
		if err := store.SaveFile(savePath, rendered); err != nil {
			logger.Error("failed to save report", "error", err)
			os.Exit(2)
		}
		logger.Info("Report saved", "path", savePath)
	}

	return nil
}

func buildOverlays(r *models.Report) []Overlay {
	var overlays []Overlay
	for i, check := range r.Checks {
		rect, ok := zone.Map(check.VisualZone)
		if !ok {
			continue
		}
		overlays = append(overlays, Overlay{CheckIndex: i, Zone: check.VisualZone, Rect: rect})
	}
	return overlays
}

func render(out *Output, format string) ([]byte, error) {
	switch format {
	case "yaml":
		return yaml.Marshal(out)
	case "", "json":
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	return nil, errors.New("unknown format: " + format)
}

func formatExt(format string) string {
	if format == "yaml" {
		return "yaml"
	}
	return "json"
}
