package cli

import (
	"context"
	"fmt"

	"atsopt/internal/common"
	"atsopt/internal/render"
	"atsopt/internal/types"

	"github.com/spf13/cobra"
)

type optimizeOptions struct {
	common.CommandConfig

	ResumeFile string
	JobFile    string
	PDFOutput  string
	Name       string
}

func newOptimizeCmd() *cobra.Command {
	opts := &optimizeOptions{}

	cmd := &cobra.Command{
		Use:   "optimize --resume <file> --job <file>",
		Short: "Score a resume against a job description and rebuild it",
		Long: `Match a resume against a job description, report found and missing
skills with a score and recommendation, and print an ATS-optimized resume.

The resume may be a PDF, a DOCX or a plain text file. The job description is
read as text. Use --pdf to also write the optimized resume as a PDF.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfigFromContext(cmd.Context())
			// Apply default format if not specified
			if opts.OutputFormat == "" {
				opts.OutputFormat = cfg.App.DefaultFormat
			}
			opts.MaxFileSize = cfg.App.MaxFileSize
			return common.ValidateOutputFormat(opts.OutputFormat, cfg.App.SupportedFormats)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimize(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ResumeFile, "resume", "r", "", "Resume file (.pdf, .docx or text)")
	cmd.Flags().StringVarP(&opts.JobFile, "job", "j", "", "Job description file")
	cmd.Flags().StringVarP(&opts.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&opts.OutputFormat, "format", "", "Output format: json, text, or markdown")
	cmd.Flags().StringVar(&opts.PDFOutput, "pdf", "", "Also write the optimized resume as a PDF to this path")
	cmd.Flags().StringVar(&opts.Name, "name", "", "Candidate name used as the document title")
	_ = cmd.MarkFlagRequired("resume")
	_ = cmd.MarkFlagRequired("job")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

func runOptimize(cmd *cobra.Command, opts *optimizeOptions) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	store, err := openCatalog(cfg, logger)
	if err != nil {
		return err
	}

	optimizer := common.NewOptimizer(common.OptimizerDeps{
		Store:    store,
		Renderer: render.New(cfg.PDF, logger),
		Options:  cfg.Synthesis.ToOptions(),
		Logger:   logger,
	})
	if opts.PDFOutput != "" && !optimizer.PDFSupported() {
		logger.Warn("PDF generation is disabled in configuration, --pdf is ignored")
	}

	createInput := func(contents []string) (types.OptimizeRequest, error) {
		if len(contents) != 2 {
			return types.OptimizeRequest{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		return types.OptimizeRequest{
			Resume:         contents[0],
			JobDescription: contents[1],
			GeneratePDF:    opts.PDFOutput != "",
			Name:           opts.Name,
		}, nil
	}

	logDetails := func(req types.OptimizeRequest, cmdCfg common.CommandConfig) {
		logger.Info("Starting resume optimization",
			"resume_chars", len(req.Resume),
			"job_chars", len(req.JobDescription),
			"output_format", cmdCfg.OutputFormat,
			"pdf", req.GeneratePDF)
	}

	fileProcessor := common.NewFileProcessor(0, logger)
	operation := func(ctx context.Context, req types.OptimizeRequest) (types.OptimizeResponse, error) {
		outcome, err := optimizer.Run(ctx, req)
		if err != nil {
			return types.OptimizeResponse{}, err
		}

		resp := outcome.Response
		if opts.PDFOutput != "" && outcome.PDF != nil {
			if err := fileProcessor.WriteFile(opts.PDFOutput, outcome.PDF); err != nil {
				return types.OptimizeResponse{}, err
			}
			logger.Info("PDF written", "file", opts.PDFOutput, "bytes", len(outcome.PDF))
			// the file holds the PDF, keep the printed result readable
			resp.OptimizedPDF = nil
		}
		return resp, nil
	}

	err = common.RunFileCommand(
		cmd.Context(),
		logger,
		opts.CommandConfig,
		cmd.OutOrStdout(),
		[]string{opts.ResumeFile, opts.JobFile},
		createInput,
		operation,
		logDetails,
	)
	if err != nil {
		return fmt.Errorf("failed to optimize resume: %w", err)
	}

	logger.Info("Resume optimization completed successfully")
	return nil
}
