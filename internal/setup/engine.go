// Package setup provides initialization and configuration functions
package setup

import (
	"fmt"

	"github.com/bethropolis/ainativeignore/internal/config"
	"github.com/bethropolis/ainativeignore/internal/ignore"
	"github.com/bethropolis/ainativeignore/internal/utils"
)

// EngineConfig maps application settings onto the engine configuration.
func EngineConfig(cfg *config.Config) (ignore.Config, error) {
	mode, err := ignore.ParseMode(cfg.Mode)
	if err != nil {
		return ignore.Config{}, fmt.Errorf("setup: %w", err)
	}
	return ignore.Config{
		RootDir:           cfg.RootDir,
		Mode:              mode,
		SecurityDetection: cfg.SecurityDetection,
		AuditLog:          cfg.AuditLog,
		MaxFileSize:       cfg.MaxFileSize,
		GitignoreFallback: cfg.GitignoreFallback,
		GlobalIgnoreFile:  cfg.GlobalIgnoreFile,
		Watch:             cfg.Watch,
	}, nil
}

// NewEngine builds and initializes the engine described by cfg. The caller
// owns the engine and must Dispose it.
func NewEngine(cfg *config.Config, logger utils.Logger, opts ...ignore.Option) (*ignore.Engine, error) {
	engineCfg, err := EngineConfig(cfg)
	if err != nil {
		return nil, err
	}

	opts = append([]ignore.Option{ignore.WithLogger(logger)}, opts...)
	engine, err := ignore.New(engineCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing ignore engine: %w", err)
	}
	if err := engine.Initialize(); err != nil {
		_ = engine.Dispose()
		return nil, fmt.Errorf("error loading ignore rules: %w", err)
	}

	logger.Debug("Engine ready for %s (mode %s, %d rules)", engineCfg.RootDir, engineCfg.Mode, len(engine.Rules()))
	return engine, nil
}
