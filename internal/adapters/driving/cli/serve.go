package cli

import (
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/minereg/internal/adapters/driving/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the retrieval API over HTTP. Every /api/v1 request must carry the
authenticated user in the X-User-ID header, normally set by an auth proxy.

Endpoints:
  POST   /api/v1/embeddings            embed text
  PUT    /api/v1/embeddings            ingest a document
  GET    /api/v1/embeddings?query=...  similarity query
  POST   /api/v1/documents             register a document
  GET    /api/v1/documents[/:id[/chunks]]
  DELETE /api/v1/documents/:id
  GET    /api/health`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from settings, :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}
	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	server, err := httpapi.NewServer(&httpapi.Ports{
		Retrieval: retrievalService,
		Files:     fileService,
		Document:  documentService,
		Health:    healthService,
		Answers:   answerService,
	})
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" && appSettings != nil {
		addr = appSettings.Server.Addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("minereg API listening on %s\n", addr)
	return server.Run(ctx, addr)
}
