package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vector store statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if vectorStore == nil {
		return errors.New("vector store not configured")
	}

	stats, err := vectorStore.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}

	cmd.Println("Vector Store")
	cmd.Println("============")
	cmd.Printf("  Articles: %d\n", stats.DocumentCount)
	cmd.Printf("  Chunks:   %d\n", stats.TotalChunks)
	if !stats.LastUpdated.IsZero() {
		cmd.Printf("  Updated:  %s\n", stats.LastUpdated.Format("2006-01-02 15:04:05"))
	}

	if embeddingService != nil {
		cmd.Println()
		cmd.Println("Embedding")
		cmd.Println("=========")
		cmd.Printf("  Model:      %s\n", embeddingService.ModelName())
		cmd.Printf("  Dimensions: %d\n", embeddingService.Dimensions())
		if err := embeddingService.Ping(cmd.Context()); err != nil {
			cmd.Printf("  Status:     unreachable (%v)\n", err)
		} else {
			cmd.Printf("  Status:     ok\n")
		}
	}
	return nil
}
