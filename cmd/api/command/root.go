package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"comicshare/internal/config"
	"comicshare/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:           "comicshare",
	Short:         "Comic reading and publishing API",
	Long:          `comicshare serves the comic catalogue, reader, bookmarks and user uploads over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

// setup loads and validates the configuration and builds the logger.
func setup() (*config.Config, *zap.Logger, error) {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	if !cfg.EnvFileLoaded {
		log.Debug("no .env file found, using the process environment")
	}
	return cfg, log, nil
}
