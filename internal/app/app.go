// Package app wires configuration, the ignore engine and output together
// behind the command-line interface.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/bethropolis/ainativeignore/internal/config"
	"github.com/bethropolis/ainativeignore/internal/ignore"
	"github.com/bethropolis/ainativeignore/internal/logger"
	"github.com/bethropolis/ainativeignore/internal/printer"
	"github.com/bethropolis/ainativeignore/internal/setup"
	"github.com/bethropolis/ainativeignore/internal/summary"
	"github.com/bethropolis/ainativeignore/internal/watch"
)

// ErrInvalidPatterns is returned by Validate when at least one pattern does not compile.
var ErrInvalidPatterns = errors.New("one or more patterns are invalid")

// App encapsulates the main application functionality
type App struct {
	cfg       *config.Config
	log       *logger.Logger
	useColors bool
	Output    io.Writer
}

// New creates a new App instance writing results to out and logs to errOut.
func New(cfg *config.Config, out, errOut io.Writer) *App {
	useColors := cfg.UseColors()
	color.NoColor = !useColors

	log := logger.New(errOut, logger.ParseLevel(cfg.LogLevel), useColors)

	return &App{
		cfg:       cfg,
		log:       log,
		useColors: useColors,
		Output:    out,
	}
}

// Logger returns the application logger.
func (a *App) Logger() *logger.Logger {
	return a.log
}

func (a *App) openEngine() (*ignore.Engine, error) {
	a.log.Debug("Directory: %s, mode: %s, config file: %q", a.cfg.RootDir, a.cfg.Mode, a.cfg.Path)
	return setup.NewEngine(a.cfg, a.log)
}

func (a *App) newPrinter(jsonOutput bool) *printer.Printer {
	p := printer.New().WithOutput(a.Output).WithColors(a.useColors)
	if jsonOutput {
		a.log.Debug("JSON output mode enabled")
		p.WithJSON(true).WithColors(false)
	}
	return p
}

// Check prints the decision for every path, followed by the audit trail when showAudit is set.
func (a *App) Check(paths []string, jsonOutput, showAudit bool) error {
	engine, err := a.openEngine()
	if err != nil {
		return err
	}
	defer engine.Dispose()

	p := a.newPrinter(jsonOutput)
	for _, path := range paths {
		p.PrintResult(path, engine.CheckPath(path))
	}
	if showAudit {
		p.PrintAudit(engine.AuditLog())
	}
	p.Finalize()
	return nil
}

// Scan lists security-sensitive files under dir.
func (a *App) Scan(ctx context.Context, dir string, jsonOutput, showSkipped bool) error {
	engine, err := a.openEngine()
	if err != nil {
		return err
	}
	defer engine.Dispose()

	a.log.Info("Scanning directory: %s", dir)
	report, err := engine.ScanSensitiveFiles(ctx, dir)
	if err != nil {
		return fmt.Errorf("critical error during directory walk: %w", err)
	}

	p := a.newPrinter(jsonOutput)
	for _, f := range report.Files {
		p.PrintSensitiveFile(f)
	}
	p.Finalize()

	summary.DisplayScanResults(a.log, report, false)
	if showSkipped {
		summary.DisplaySkippedItems(a.log, report.Skipped, a.log.Writer(), false)
	}
	return nil
}

// Rules prints the active rules in evaluation order.
func (a *App) Rules(jsonOutput bool) error {
	engine, err := a.openEngine()
	if err != nil {
		return err
	}
	defer engine.Dispose()

	summary.DisplayStats(a.log, engine.Stats())
	p := a.newPrinter(jsonOutput)
	p.PrintRules(engine.Rules(), time.Now())
	p.Finalize()
	return nil
}

// Validate reports whether each pattern compiles. No engine is needed.
func (a *App) Validate(patterns []string, jsonOutput bool) error {
	m := ignore.NewMatcher()
	p := a.newPrinter(jsonOutput)

	invalid := 0
	for _, pattern := range patterns {
		res := m.Validate(pattern)
		if !res.Valid {
			invalid++
		}
		p.PrintValidation(pattern, res)
	}
	p.Finalize()

	if invalid > 0 {
		return fmt.Errorf("%w (%d of %d)", ErrInvalidPatterns, invalid, len(patterns))
	}
	return nil
}

// Export writes the active rules to file.
func (a *App) Export(file string, includeBuiltIn bool) error {
	engine, err := a.openEngine()
	if err != nil {
		return err
	}
	defer engine.Dispose()

	if err := engine.ExportRules(file, includeBuiltIn); err != nil {
		return err
	}
	a.newPrinter(false).PrintLine("Exported rules to %s", file)
	return nil
}

// Import adds the rules of a .gitignore file to the end of the project's
// .ainativeignore.
func (a *App) Import(gitignorePath string) error {
	engine, err := a.openEngine()
	if err != nil {
		return err
	}
	defer engine.Dispose()

	n, err := engine.SaveGitignoreImport(gitignorePath, ignore.SourceAINativeIgnore)
	if err != nil {
		return err
	}
	if n == 0 {
		a.log.Warn("No rules found to import.")
		return nil
	}
	a.log.Info("Imported %d rules into %s.", n, ignore.SourceAINativeIgnore)
	return nil
}

// Watch reloads the rules whenever a project ignore file changes, until ctx is done.
func (a *App) Watch(ctx context.Context) error {
	cfg := *a.cfg
	cfg.Watch = true
	engine, err := setup.NewEngine(&cfg, a.log)
	if err != nil {
		return err
	}
	defer engine.Dispose()

	if engine.Changes() == nil {
		return errors.New("file watching could not be started")
	}
	summary.DisplayStats(a.log, engine.Stats())
	a.log.Info("Watching %s for changes (Ctrl+C to stop).", cfg.RootDir)

	err = engine.ReloadOnChange(ctx, func(ev watch.Event, err error) {
		if err != nil {
			a.log.Error("Reload after %s %s failed: %v", ev.Op, ev.Name, err)
			return
		}
		summary.DisplayStats(a.log, engine.Stats())
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
