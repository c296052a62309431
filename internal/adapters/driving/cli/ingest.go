package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/minereg/internal/core/domain"
)

var (
	ingestChunkSize int
	ingestOverlap   int
	ingestModel     string
	ingestMIMEType  string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [doc-id] [file]",
	Short: "Chunk, embed and store a document's text",
	Long: `Splits the text into overlapping chunks, embeds every chunk and replaces
the document's stored embeddings. Reads stdin when file is "-" or omitted.

Files are converted to text first. Plain text, Markdown, HTML and DOCX are
supported; the format is taken from the extension unless --mime-type is set.

Nothing is written unless every chunk was embedded.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().IntVar(&ingestChunkSize, "chunk-size", 0, "characters per chunk (default from settings)")
	ingestCmd.Flags().IntVar(&ingestOverlap, "overlap", 0, "characters shared by consecutive chunks (default from settings)")
	ingestCmd.Flags().StringVar(&ingestModel, "model", "", "embedding model (default from settings)")
	ingestCmd.Flags().StringVar(&ingestMIMEType, "mime-type", "", "file format, e.g. text/html (default from extension)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	userID, err := setup(cmd)
	if err != nil {
		return err
	}

	var overlap *int
	if cmd.Flags().Changed("overlap") {
		overlap = &ingestOverlap
	}

	var res *domain.IngestResult
	if len(args) == 2 && args[1] != "-" {
		res, err = ingestFile(cmd, userID, args[0], args[1], overlap)
	} else {
		res, err = ingestStdin(cmd, userID, args[0], overlap)
	}
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	format := ""
	if res.Format != "" {
		format = " from " + res.Format
	}
	cmd.Printf("Ingested %s%s: %d chunks, %d embeddings\n",
		res.DocumentID, format, res.ChunksProcessed, res.EmbeddingsGenerated)
	return nil
}

func ingestStdin(cmd *cobra.Command, userID, documentID string, overlap *int) (*domain.IngestResult, error) {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return retrievalService.Ingest(cmd.Context(), userID, domain.IngestRequest{
		DocumentID: documentID,
		Content:    string(data),
		ChunkSize:  ingestChunkSize,
		Overlap:    overlap,
		Model:      ingestModel,
	})
}

func ingestFile(cmd *cobra.Command, userID, documentID, path string, overlap *int) (*domain.IngestResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return fileService.IngestFile(cmd.Context(), userID, domain.IngestFileRequest{
		DocumentID: documentID,
		Filename:   path,
		MIMEType:   ingestMIMEType,
		Data:       data,
		ChunkSize:  ingestChunkSize,
		Overlap:    overlap,
		Model:      ingestModel,
	})
}
