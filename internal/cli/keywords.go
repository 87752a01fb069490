package cli

import (
	"atsopt/internal/common"

	"github.com/spf13/cobra"
)

func newKeywordsCmd() *cobra.Command {
	cmdCfg := &common.CommandConfig{}

	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "Print the active skill catalog",
		Long: `Print the skill catalog used for matching: its normalization rules and
every skill with its accepted spellings. The catalog comes from Vault, the
configured keywords.file, or the built-in default, in that order.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfigFromContext(cmd.Context())
			if cmdCfg.OutputFormat == "" {
				cmdCfg.OutputFormat = cfg.App.DefaultFormat
			}
			return common.ValidateOutputFormat(cmdCfg.OutputFormat, cfg.App.SupportedFormats)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfigFromContext(cmd.Context())
			logger := getLoggerFromContext(cmd.Context())

			store, err := openCatalog(cfg, logger)
			if err != nil {
				return err
			}

			return common.NewOutputHandler(logger).
				WithWriter(cmd.OutOrStdout()).
				HandleOutput(store.Describe(), *cmdCfg)
		},
	}

	cmd.Flags().StringVarP(&cmdCfg.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&cmdCfg.OutputFormat, "format", "", "Output format: json, text, or markdown")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}
