package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leapstack-labs/tollgen/internal/cli/config"
	"github.com/leapstack-labs/tollgen/internal/engine"
	"github.com/leapstack-labs/tollgen/pkg/ontology"
)

// loadSchema reads the schema document at path, or the embedded one.
func loadSchema(path string) (*ontology.Schema, error) {
	if path == "" {
		return ontology.Default()
	}
	return ontology.Load(path)
}

// createEngine builds an engine from the command's configuration.
func createEngine(cmd *cobra.Command) (*engine.Engine, error) {
	ctx := cmd.Context()
	cfg := config.GetConfig(ctx)
	logger := config.GetLogger(ctx)

	schema, err := loadSchema(cfg.Schema)
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(cfg.StatePath); cfg.StatePath != "" && dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	logger.Debug("configuration",
		zap.String("target", cfg.Target.Redacted()),
		zap.String("schema", cfg.Schema),
		zap.String("state", cfg.StatePath),
		zap.String("config_file", config.GetConfigFileUsed()))

	return engine.New(ctx, engine.Config{
		Target:    cfg.Target,
		Schema:    schema,
		StatePath: cfg.StatePath,
		Logger:    logger,
	})
}

// withEngine runs fn with a fresh engine and closes it afterwards.
func withEngine(cmd *cobra.Command, fn func(context.Context, *engine.Engine) error) error {
	eng, err := createEngine(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()
	return fn(cmd.Context(), eng)
}
