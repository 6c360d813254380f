package cli

import (
	"context"
	"fmt"

	"resumebeaver/internal/common"
	"resumebeaver/internal/engine"
	"resumebeaver/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a resume or job description",
	Long: `Analyze a plain-text resume or job description.

For resumes the analysis includes extracted contact information, recognized
skills by category, years of experience, education level, and an ATS
compatibility report. For job descriptions (--type job) it reports the
required skills and experience.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		// Apply default format if not specified
		if analyzeConfig.OutputFormat == "" {
			analyzeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(analyzeConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runAnalyze,
}

var analyzeConfig common.CommandConfig
var analyzeType string

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	analyzeCmd.Flags().StringVarP(&analyzeType, "type", "t", "resume", "Document type: resume or job")

	// Add completion for format flag
	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return []string{}, cobra.ShellCompDirectiveError
		}
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
	_ = analyzeCmd.RegisterFlagCompletionFunc("type", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"resume", "job"}, cobra.ShellCompDirectiveNoFileComp
	})
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	if analyzeType != "resume" && analyzeType != "job" {
		return fmt.Errorf("invalid document type '%s' (must be 'resume' or 'job')", analyzeType)
	}

	eng, err := engine.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer func() {
		if err := eng.Close(); err != nil {
			logger.Warn("Failed to close engine", "error", err)
		}
	}()

	analyzeConfig.MaxFileSize = cfg.App.MaxFileSize

	createInput := func(contents []string) (string, error) {
		if len(contents) != 1 {
			return "", fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		return contents[0], nil
	}

	logDetails := func(input string, cfg common.CommandConfig) {
		logger.Info("Starting document analysis",
			"type", analyzeType,
			"content_chars", len(input),
			"output_format", cfg.OutputFormat)
	}

	if analyzeType == "job" {
		err = common.RunEngineCommand(
			cmd.Context(),
			logger,
			analyzeConfig,
			args,
			createInput,
			func(ctx context.Context, input string) (types.JobAnalysis, error) {
				return eng.AnalyzeJob(ctx, input)
			},
			logDetails,
		)
	} else {
		err = common.RunEngineCommand(
			cmd.Context(),
			logger,
			analyzeConfig,
			args,
			createInput,
			func(ctx context.Context, input string) (types.ResumeAnalysis, error) {
				return eng.AnalyzeResume(ctx, input)
			},
			logDetails,
		)
	}

	if err != nil {
		return fmt.Errorf("failed to analyze document: %w", err)
	}
	logger.Info("Document analysis completed successfully")
	return nil
}
