package serve

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/urfave/cli/v2"

	"print-preflight/models"
)

func ServeAction(c *cli.Context) error {
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

	if !cfg.HasCredentials() {
		// The server still starts: the gate turns requests away with 401
		// until a key is configured.
		logger.Warn("no API key configured, remote calls will be refused", "env", models.APIKeyEnv)
	}

	server := NewServer(cfg, logger)
	addr := fmt.Sprintf(":%s", c.String("port"))
	logger.Info("Listening", "addr", addr)

	if err := http.ListenAndServe(addr, server.Routes()); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(2)
	}
	return nil
}
