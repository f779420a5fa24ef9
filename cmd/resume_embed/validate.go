package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-embed/internal/config"
	"github.com/jonathan/resume-embed/internal/observability"
	"github.com/jonathan/resume-embed/internal/rules"
	"github.com/jonathan/resume-embed/internal/schemas"
	"github.com/jonathan/resume-embed/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a resume record against its schema and business rules",
	Long:  "Resolves the record's declared version to a schema, runs structural validation, then runs the applicable business rules in priority order.",
	RunE:  runValidate,
}

var (
	validateRecordFile string
	validateMode       string
	validateSkip       []string
)

func init() {
	validateCmd.Flags().StringVarP(&validateRecordFile, "record", "r", "", "Path to record JSON file (required)")
	validateCmd.Flags().StringVar(&validateMode, "mode", "", "Validation mode: strict, compat, or permissive")
	validateCmd.Flags().StringSliceVar(&validateSkip, "skip", nil, "Rule IDs to skip")

	if err := validateCmd.MarkFlagRequired("record"); err != nil {
		panic(fmt.Sprintf("failed to mark record flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	rec, err := loadRecord(validateRecordFile)
	if err != nil {
		return err
	}

	mode := validateMode
	if mode == "" {
		mode = cfg.Mode
	}

	pipeline := validation.NewPipeline(schemas.NewResolver(nil), rules.Default())
	result, err := pipeline.Validate(cmd.Context(), rec, validation.Options{
		Mode:         mode,
		Skip:         validateSkip,
		MaxIssues:    cfg.MaxIssues,
		AllowRemote:  cfg.RemoteSchemas,
		FetchTimeout: cfg.FetchTimeout,
	})
	if err != nil {
		return fmt.Errorf("validation failed to run: %w", err)
	}

	observability.NewPrinter(os.Stdout).PrintValidationResult(result)
	if !result.OK {
		return fmt.Errorf("record has %d issue(s)", len(result.Issues))
	}
	return nil
}
