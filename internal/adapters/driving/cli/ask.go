package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/minereg/internal/core/domain"
)

var (
	askJurisdiction string
	askLanguage     string
	askLimit        int
	askThreshold    float64
	askJSON         bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Draft an answer from your documents",
	Long: `Ranks your stored passages against the question, then has the
configured LLM answer from the top passages only, citing them as [n].

Requires an LLM provider: run 'minereg settings llm' first.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askJurisdiction, "jurisdiction", "j", domain.DefaultJurisdiction,
		"jurisdiction the answer applies to")
	askCmd.Flags().StringVarP(&askLanguage, "language", "l", string(domain.DefaultLanguage), "answer language (en or fr)")
	askCmd.Flags().IntVarP(&askLimit, "limit", "n", 0, "maximum number of passages (default 5)")
	askCmd.Flags().Float64VarP(&askThreshold, "threshold", "t", 0, "minimum similarity in [0,1] (default from settings)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	userID, err := setup(cmd)
	if err != nil {
		return err
	}

	req := domain.AnswerRequest{
		Question:     args[0],
		Jurisdiction: askJurisdiction,
		Language:     domain.Language(askLanguage),
		Limit:        askLimit,
	}
	if cmd.Flags().Changed("threshold") {
		req.Threshold = &askThreshold
	}

	res, err := answerService.Answer(cmd.Context(), userID, req)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(res.Answer)
	if len(res.Sources) == 0 {
		return nil
	}
	cmd.Println()
	cmd.Println("Sources:")
	for i, src := range res.Sources {
		title := src.Document.Title
		if title == "" {
			title = src.DocumentID
		}
		cmd.Printf("  [%d] %s #%d (%.3f)\n", i+1, title, src.ChunkIndex, src.Similarity)
	}
	return nil
}
