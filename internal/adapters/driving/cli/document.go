package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/minereg/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage registered documents",
	Long:  `Register, list, view and delete the regulatory documents you own.`,
}

var documentAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Register a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentAdd,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentShowCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentShow,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document and its embeddings",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var documentChunksCmd = &cobra.Command{
	Use:   "chunks [doc-id]",
	Short: "Print the ingested chunks of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentChunks,
}

var (
	docID           string
	docType         string
	docJurisdiction string
	docLanguage     string
	docDescription  string
	documentJSON    bool
)

func init() {
	documentAddCmd.Flags().StringVar(&docID, "id", "", "document id (generated when empty)")
	documentAddCmd.Flags().StringVarP(&docType, "type", "t", "",
		"regulation, permit, eia_report, guidance, legal_opinion or other")
	documentAddCmd.Flags().StringVarP(&docJurisdiction, "jurisdiction", "j", "", "jurisdiction (default federal)")
	documentAddCmd.Flags().StringVarP(&docLanguage, "language", "l", "", "en or fr (default en)")
	documentAddCmd.Flags().StringVarP(&docDescription, "description", "d", "", "short description")
	documentListCmd.Flags().BoolVar(&documentJSON, "json", false, "output as JSON")

	documentCmd.AddCommand(documentAddCmd)
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentShowCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	documentCmd.AddCommand(documentChunksCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentAdd(cmd *cobra.Command, args []string) error {
	userID, err := setup(cmd)
	if err != nil {
		return err
	}

	doc := &domain.Document{
		ID:           docID,
		Title:        args[0],
		Type:         domain.DocumentType(docType),
		Jurisdiction: docJurisdiction,
		Language:     domain.Language(docLanguage),
		Description:  docDescription,
	}
	if err := documentService.Register(cmd.Context(), userID, doc); err != nil {
		return fmt.Errorf("failed to register document: %w", err)
	}

	cmd.Printf("Registered document %s\n", doc.ID)
	return nil
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	userID, err := setup(cmd)
	if err != nil {
		return err
	}

	docs, err := documentService.List(cmd.Context(), userID)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if documentJSON {
		summaries := make([]domain.DocumentSummary, len(docs))
		for i := range docs {
			summaries[i] = docs[i].Summary()
		}
		data, err := json.MarshalIndent(summaries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal documents: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(docs) == 0 {
		cmd.Println("No documents registered.")
		return nil
	}

	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Title: %s\n", docs[i].Title)
		cmd.Printf("    Type: %s  Jurisdiction: %s  Language: %s\n",
			docs[i].Type, docs[i].Jurisdiction, docs[i].Language)
		cmd.Println()
	}
	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentShow(cmd *cobra.Command, args []string) error {
	userID, err := setup(cmd)
	if err != nil {
		return err
	}

	doc, err := documentService.Get(cmd.Context(), userID, args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("ID:           %s\n", doc.ID)
	cmd.Printf("Title:        %s\n", doc.Title)
	cmd.Printf("Type:         %s\n", doc.Type)
	cmd.Printf("Jurisdiction: %s\n", doc.Jurisdiction)
	cmd.Printf("Language:     %s\n", doc.Language)
	if doc.Description != "" {
		cmd.Printf("Description:  %s\n", doc.Description)
	}
	cmd.Printf("Created:      %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("Updated:      %s\n", doc.UpdatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	userID, err := setup(cmd)
	if err != nil {
		return err
	}

	if err := documentService.Delete(cmd.Context(), userID, args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Deleted document %s\n", args[0])
	return nil
}

func runDocumentChunks(cmd *cobra.Command, args []string) error {
	userID, err := setup(cmd)
	if err != nil {
		return err
	}

	records, err := documentService.Chunks(cmd.Context(), userID, args[0])
	if err != nil {
		return fmt.Errorf("failed to get chunks: %w", err)
	}

	if len(records) == 0 {
		cmd.Println("No chunks ingested.")
		return nil
	}

	for _, r := range records {
		cmd.Printf("--- chunk %d (%d dims, %s) ---\n", r.ChunkIndex, len(r.Vector), r.Metadata.Model)
		cmd.Println(r.Content)
	}
	return nil
}
