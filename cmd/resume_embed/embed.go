package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-embed/internal/embedding"
	"github.com/jonathan/resume-embed/internal/observability"
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Embed a resume record into a container",
	Long:  "Validates a resume record (unless disabled), serializes it, and stores it inside the container with its technical descriptor and discovery tag. Any previous artifact is replaced.",
	RunE:  runEmbed,
}

var (
	embedRecordFile    string
	embedContainerFile string
	embedNoValidate    bool
	embedCompress      string
	embedSkipTag       bool
)

func init() {
	embedCmd.Flags().StringVarP(&embedRecordFile, "record", "r", "", "Path to record JSON file (required)")
	embedCmd.Flags().StringVarP(&embedContainerFile, "container", "c", "", "Path to container file (required; created if missing)")
	embedCmd.Flags().BoolVar(&embedNoValidate, "no-validate", false, "Skip validation before embedding")
	embedCmd.Flags().StringVar(&embedCompress, "compress", "", "Compression policy: auto, on, or off")
	embedCmd.Flags().BoolVar(&embedSkipTag, "skip-tag", false, "Do not write the discovery tag")

	if err := embedCmd.MarkFlagRequired("record"); err != nil {
		panic(fmt.Sprintf("failed to mark record flag as required: %v", err))
	}
	if err := embedCmd.MarkFlagRequired("container"); err != nil {
		panic(fmt.Sprintf("failed to mark container flag as required: %v", err))
	}

	rootCmd.AddCommand(embedCmd)
}

func runEmbed(cmd *cobra.Command, _ []string) error {
	embedder, cfg, err := newEmbedder()
	if err != nil {
		return err
	}

	rec, err := loadRecord(embedRecordFile)
	if err != nil {
		return err
	}

	c, err := loadContainer(embedContainerFile, cfg, true)
	if err != nil {
		return err
	}

	result, err := embedder.Embed(cmd.Context(), c, rec, embedding.EmbedOptions{
		Validate:         !embedNoValidate,
		Compress:         embedCompress,
		SkipDiscoveryTag: embedSkipTag,
	})
	if err != nil {
		return fmt.Errorf("failed to embed record: %w", err)
	}

	if err := saveContainer(embedContainerFile, c); err != nil {
		return err
	}

	if verbose {
		observability.NewPrinter(os.Stdout).PrintEmbedResult(result)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Embedded record version %s into %s\n", result.Version, embedContainerFile)
	return nil
}
