package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/minereg/internal/core/domain"
)

var (
	embedDocument string
	embedModel    string
)

var embedCmd = &cobra.Command{
	Use:   "embed [text...]",
	Short: "Print embedding vectors for raw text",
	Long: `Embeds each argument without chunking and prints the vectors as JSON.
With a single text and --document, the vector is also stored as chunk 0
of that document.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEmbed,
}

func init() {
	embedCmd.Flags().StringVar(&embedDocument, "document", "", "store a single text as chunk 0 of this document")
	embedCmd.Flags().StringVar(&embedModel, "model", "", "embedding model (default from settings)")
	rootCmd.AddCommand(embedCmd)
}

func runEmbed(cmd *cobra.Command, args []string) error {
	userID, err := setup(cmd)
	if err != nil {
		return err
	}

	req := domain.EmbedRequest{DocumentID: embedDocument, Model: embedModel}
	if len(args) == 1 {
		req.Text = args[0]
	} else {
		req.Texts = args
	}

	res, err := retrievalService.EmbedText(cmd.Context(), userID, req)
	if err != nil {
		return fmt.Errorf("embed failed: %w", err)
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal embeddings: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
