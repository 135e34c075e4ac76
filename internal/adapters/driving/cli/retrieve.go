package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/scribe-labs/scribe-cli/internal/core/domain"
)

var (
	retrieveLimit     int
	retrieveThreshold float64
	retrieveDiversity float64
	retrieveJSON      bool
	retrieveContext   bool
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4"))
	sourceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
	contentStyle = lipgloss.NewStyle().PaddingLeft(4)
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Retrieve the most relevant chunks for a query",
	Long: `Runs the query-time retrieval path: the query is preprocessed,
embedded and matched against the indexed corpus by cosine similarity,
optionally re-ranked for source diversity. Prints the matched chunks
and the deduplicated article citations.`,
	Args: cobra.ExactArgs(1),
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().IntVarP(&retrieveLimit, "limit", "n", domain.DefaultMaxResults, "maximum number of results")
	retrieveCmd.Flags().Float64Var(&retrieveThreshold, "threshold", domain.DefaultSimilarityThreshold, "minimum cosine similarity")
	retrieveCmd.Flags().Float64Var(&retrieveDiversity, "diversity", 0, "per-repeat similarity penalty for same-article results")
	retrieveCmd.Flags().BoolVar(&retrieveJSON, "json", false, "output results as JSON")
	retrieveCmd.Flags().BoolVar(&retrieveContext, "context", false, "print the assembled system-prompt context block")
	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	query := args[0]
	rag := retrievalService.Retrieve(cmd.Context(), query, nil, domain.RetrieveOptions{
		MaxResults:          retrieveLimit,
		SimilarityThreshold: retrieveThreshold,
		DiversityBoost:      retrieveDiversity,
	})

	if retrieveJSON {
		return outputRetrieveJSON(cmd, rag)
	}
	if retrieveContext {
		cmd.Println(retrievalService.FormatContext(rag.Results))
		return nil
	}
	return outputRetrieveStyled(cmd, rag)
}

func outputRetrieveJSON(cmd *cobra.Command, rag *domain.RAGContext) error {
	payload := struct {
		Query   string                `json:"query"`
		Results []domain.SearchResult `json:"results"`
		Sources []domain.BlogSource   `json:"sources"`
	}{
		Query:   rag.Query,
		Results: rag.Results,
		Sources: retrievalService.BuildSources(rag.Results),
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputRetrieveStyled(cmd *cobra.Command, rag *domain.RAGContext) error {
	if len(rag.Results) == 0 {
		cmd.Println(mutedStyle.Render("No relevant content found."))
		return nil
	}

	cmd.Println(titleStyle.Render("Results"))
	cmd.Println()
	for i, result := range rag.Results {
		heading := result.Chunk.Metadata.Title
		if heading == "" {
			heading = result.Chunk.Slug
		}
		if section := result.Chunk.Metadata.Section; section != "" {
			heading += " > " + section
		}

		cmd.Printf("  [%d] %s %s\n", i+1, heading,
			scoreStyle.Render(fmt.Sprintf("(%.0f%%)", result.Similarity*100)))

		snippet := result.Chunk.Content
		if len(snippet) > 200 {
			snippet = snippet[:200] + "..."
		}
		cmd.Println(contentStyle.Render(snippet))
		cmd.Println()
	}

	sources := retrievalService.BuildSources(rag.Results)
	if len(sources) > 0 {
		cmd.Println(titleStyle.Render("Sources"))
		for _, source := range sources {
			cmd.Printf("  %s %s\n", sourceStyle.Render(source.Title), mutedStyle.Render(source.URL))
		}
	}
	return nil
}
