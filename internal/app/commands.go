package app

import (
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bethropolis/ainativeignore/internal/config"
)

type globalFlags struct {
	configPath string
	dir        string
	mode       string
	logLevel   string
	noColor    bool
}

// NewRootCommand builds the ainativeignore command tree. Results go to out,
// logs and errors to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	flags := &globalFlags{}
	var a *App

	cmd := &cobra.Command{
		Use:           "ainativeignore",
		Short:         "Decide which project files an AI agent may read, write or see",
		Version:       config.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, flags, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			a = New(cfg, out, errOut)
			return nil
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Path to a YAML config file (default .ainativeignore.yaml if present)")
	pf.StringVar(&flags.dir, "dir", ".", "The project root directory")
	pf.StringVar(&flags.mode, "mode", "dev", "Runtime mode: dev, prod, test or all")
	pf.StringVar(&flags.logLevel, "log-level", "INFO", "Set the logging level (DEBUG, INFO, WARN, ERROR, NONE)")
	pf.BoolVar(&flags.noColor, "no-color", false, "Disable color output")

	current := func() *App { return a }
	cmd.AddCommand(
		newCheckCommand(current),
		newScanCommand(current),
		newRulesCommand(current),
		newValidateCommand(current),
		newExportCommand(current),
		newImportCommand(current),
		newWatchCommand(current),
	)
	return cmd
}

// applyFlags lets explicitly set flags override file and environment settings.
func applyFlags(cmd *cobra.Command, flags *globalFlags, cfg *config.Config) {
	pf := cmd.Flags()
	if pf.Changed("dir") {
		cfg.RootDir = flags.dir
	}
	if pf.Changed("mode") {
		cfg.Mode = flags.mode
	}
	if pf.Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if pf.Changed("no-color") {
		cfg.NoColor = flags.noColor
	}
}

func newCheckCommand(current func() *App) *cobra.Command {
	var jsonOutput, showAudit bool
	cmd := &cobra.Command{
		Use:   "check <path>...",
		Short: "Show the access decision for each path",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return current().Check(args, jsonOutput, showAudit)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	cmd.Flags().BoolVar(&showAudit, "audit", false, "Also print the audit entries recorded by the checks")
	return cmd
}

func newScanCommand(current func() *App) *cobra.Command {
	var jsonOutput, showSkipped bool
	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "List security-sensitive files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return current().Scan(cmd.Context(), dir, jsonOutput, showSkipped)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	cmd.Flags().BoolVar(&showSkipped, "show-skipped", false, "Show a list of skipped directories and reasons at the end")
	return cmd
}

func newRulesCommand(current func() *App) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the active rules in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return current().Rules(jsonOutput)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	return cmd
}

func newValidateCommand(current func() *App) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "validate <pattern>...",
		Short: "Check that glob patterns compile",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return current().Validate(args, jsonOutput)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	return cmd
}

func newExportCommand(current func() *App) *cobra.Command {
	var includeBuiltIn bool
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write the active rules to an ignore file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return current().Export(args[0], includeBuiltIn)
		},
	}
	cmd.Flags().BoolVar(&includeBuiltIn, "include-builtin", false, "Also write built-in and security rules")
	return cmd
}

func newImportCommand(current func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import [gitignore]",
		Short: "Append the rules of a .gitignore to .ainativeignore",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return current().Import(path)
		},
	}
}

func newWatchCommand(current func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Reload rules whenever a project ignore file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return current().Watch(ctx)
		},
	}
}
