package cli

import (
	"context"
	"io"

	"atsopt/internal/config"
	"atsopt/internal/errors"
	"atsopt/internal/keywords"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "atsopt",
		Short: "Match resumes against job descriptions and rebuild them for ATS screening",
		Long: `atsopt compares a resume with a job description using a curated skill
catalog, scores the match, and produces an ATS-friendly version of the resume
that surfaces the missing skills. It runs as a one-shot command or as an HTTP API.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newOptimizeCmd())
	rootCmd.AddCommand(newKeywordsCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the command line with the process arguments
func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	return execute(ctx, cfg, logger, nil, nil)
}

// execute runs the command tree. Nil args uses os.Args, nil out uses stdout.
func execute(ctx context.Context, cfg *config.Config, logger *errors.Logger, args []string, out io.Writer) error {
	// Attach the config and logger to the context, making them available to all subcommands
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)

	rootCmd := newRootCmd()
	if args != nil {
		rootCmd.SetArgs(args)
	}
	if out != nil {
		rootCmd.SetOut(out)
	}
	return rootCmd.ExecuteContext(ctx)
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context") // Should not happen if properly initialized
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context") // Should not happen if properly initialized
}

// openCatalog pulls secrets from Vault when enabled and opens the configured catalog.
func openCatalog(cfg *config.Config, logger *errors.Logger) (*keywords.Store, error) {
	if err := config.ApplyVaultSecrets(cfg, logger); err != nil {
		return nil, err
	}
	store, err := keywords.OpenConfig(cfg.Keywords)
	if err != nil {
		return nil, err
	}

	km := store.Snapshot()
	logger.Debug("Keyword catalog loaded",
		"source", store.Source(),
		"version", km.Version,
		"skills", km.Size())
	return store, nil
}

// completeFormats offers the configured output formats for --format
func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg := getConfigFromContext(cmd.Context())
	return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
}
