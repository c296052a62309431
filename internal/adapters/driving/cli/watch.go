package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/minereg/internal/adapters/driving/watch"
	"github.com/custodia-labs/minereg/internal/core/domain"
)

var (
	watchChunkSize int
	watchOverlap   int
)

var watchCmd = &cobra.Command{
	Use:   "watch [doc-id] [file]",
	Short: "Re-ingest a file every time it is saved",
	Args:  cobra.ExactArgs(2),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchChunkSize, "chunk-size", 0, "characters per chunk (default from settings)")
	watchCmd.Flags().IntVar(&watchOverlap, "overlap", 0, "characters shared by consecutive chunks (default from settings)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	userID, err := setup(cmd)
	if err != nil {
		return err
	}

	cfg := watch.Config{
		Path:       args[1],
		DocumentID: args[0],
		UserID:     userID,
		ChunkSize:  watchChunkSize,
		OnIngest: func(res *domain.IngestResult, err error) {
			if err != nil {
				cmd.PrintErrf("ingest failed: %v\n", err)
				return
			}
			cmd.Printf("Ingested %s: %d chunks\n", res.DocumentID, res.ChunksProcessed)
		},
	}
	if cmd.Flags().Changed("overlap") {
		cfg.Overlap = &watchOverlap
	}

	w, err := watch.New(fileService, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", args[1])
	return w.Run(ctx)
}
