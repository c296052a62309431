package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/minereg/internal/core/domain"
)

var (
	queryLimit     int
	queryThreshold float64
	queryJSON      bool
)

// snippetLen bounds the chunk text printed per result.
const snippetLen = 200

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Find the passages most similar to a question",
	Long: `Embeds the question and ranks stored chunks by cosine similarity.
Only chunks scoring at least the threshold are returned.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 0, "maximum number of results (default from settings)")
	queryCmd.Flags().Float64VarP(&queryThreshold, "threshold", "t", 0, "minimum similarity in [0,1] (default from settings)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	userID, err := setup(cmd)
	if err != nil {
		return err
	}

	req := domain.QueryRequest{Text: args[0], Limit: queryLimit}
	if cmd.Flags().Changed("threshold") {
		req.Threshold = &queryThreshold
	}

	res, err := retrievalService.Query(cmd.Context(), userID, req)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputQueryJSON(cmd, res)
	}
	return outputQueryTable(cmd, res)
}

func outputQueryJSON(cmd *cobra.Command, res *domain.QueryResult) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputQueryTable(cmd *cobra.Command, res *domain.QueryResult) error {
	if len(res.Results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, hit := range res.Results {
		title := hit.Document.Title
		if title == "" {
			title = hit.DocumentID
		}

		cmd.Printf("  [%d] %s #%d (%.3f)\n", i+1, title, hit.ChunkIndex, hit.Similarity)
		cmd.Printf("      %s, %s, %s\n", hit.Document.Type, hit.Document.Jurisdiction, hit.Document.Language)
		cmd.Printf("      %s\n", snippet(hit.Content, snippetLen))
		cmd.Println()
	}
	return nil
}

// snippet collapses whitespace and truncates to n runes.
func snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
