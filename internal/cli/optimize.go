package cli

import (
	"context"
	"fmt"

	"resumebeaver/internal/common"
	"resumebeaver/internal/engine"
	"resumebeaver/internal/generate"
	"resumebeaver/internal/types"

	"github.com/spf13/cobra"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize [resume-file] [job-description-file]",
	Short: "Optimize a resume for a specific job description",
	Long: `Optimize a resume for a specific job description.

The result combines the match scores with prioritized improvement
suggestions, missing skills and keywords to add, and a regenerated resume
body in the requested resume format. With a configured provider API key the
suggestions are augmented with AI-generated ones.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if optimizeConfig.OutputFormat == "" {
			optimizeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		if optimizeResumeFormat == "" {
			optimizeResumeFormat = cfg.App.ResumeFormat
		}
		if err := common.ValidateOutputFormat(optimizeConfig.OutputFormat, cfg.App.SupportedFormats); err != nil {
			return err
		}
		return generate.ValidateFormat(optimizeResumeFormat)
	},
	RunE: runOptimize,
}

var (
	optimizeConfig       common.CommandConfig
	optimizeResumeFormat string
)

type optimizeInput struct {
	resume string
	job    string
}

func init() {
	optimizeCmd.Flags().StringVarP(&optimizeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	optimizeCmd.Flags().StringVar(&optimizeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	optimizeCmd.Flags().StringVar(&optimizeResumeFormat, "resume-format", "", "Generated resume format: ats-plain-text or docx-structured")

	_ = optimizeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return []string{}, cobra.ShellCompDirectiveError
		}
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
	_ = optimizeCmd.RegisterFlagCompletionFunc("resume-format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return generate.Formats(), cobra.ShellCompDirectiveNoFileComp
	})
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
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

	optimizeConfig.MaxFileSize = cfg.App.MaxFileSize

	createInput := func(contents []string) (optimizeInput, error) {
		if len(contents) != 2 {
			return optimizeInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		return optimizeInput{resume: contents[0], job: contents[1]}, nil
	}

	logDetails := func(input optimizeInput, cfg common.CommandConfig) {
		logger.Info("Starting resume optimization",
			"resume_chars", len(input.resume),
			"job_chars", len(input.job),
			"resume_format", optimizeResumeFormat,
			"output_format", cfg.OutputFormat)
	}

	err = common.RunEngineCommand(
		cmd.Context(),
		logger,
		optimizeConfig,
		args,
		createInput,
		func(ctx context.Context, input optimizeInput) (types.OptimizationResult, error) {
			return eng.Optimize(ctx, input.resume, input.job, optimizeResumeFormat)
		},
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to optimize resume: %w", err)
	}
	logger.Info("Resume optimization completed successfully")
	return nil
}
