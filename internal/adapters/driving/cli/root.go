// Package cli implements the minereg command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/minereg/internal/adapters/driven/ai"
	"github.com/custodia-labs/minereg/internal/adapters/driven/config/file"
	"github.com/custodia-labs/minereg/internal/app"
	"github.com/custodia-labs/minereg/internal/core/domain"
	"github.com/custodia-labs/minereg/internal/core/ports/driving"
	"github.com/custodia-labs/minereg/internal/core/services"
	"github.com/custodia-labs/minereg/internal/logger"
)

// version is set at build time with -ldflags.
var version = "dev"

var (
	verbose  bool
	userFlag string
)

// Services used by the commands. Wired on first use, or injected by tests.
var (
	retrievalService driving.RetrievalService
	fileService      driving.FileIngestService
	answerService    driving.AnswerService
	documentService  driving.DocumentService
	healthService    driving.HealthService
	settingsService  driving.SettingsService
	appSettings      *domain.AppSettings
	application      *app.App
)

// ErrNoPrincipal is returned when no user is given for a command that needs one.
var ErrNoPrincipal = errors.New("no user: pass --user, set server.user_id or MINEREG_USER_ID")

var rootCmd = &cobra.Command{
	Use:   "minereg",
	Short: "Semantic retrieval for mining-regulation documents",
	Long: `minereg chunks regulatory documents, embeds them through an inference
provider and answers similarity queries over the stored chunks.

Get started:
  minereg settings wizard
  minereg document add "Metal and Diamond Mining Effluent Regulations" --type regulation
  minereg ingest <document-id> mdmer.txt
  minereg query "effluent limits for arsenic"`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline steps to stderr")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "user id the command acts as")
}

// Execute runs the root command.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// ensureSettings loads settings from ~/.minereg/config.toml and the environment.
func ensureSettings() error {
	if settingsService != nil && appSettings != nil {
		return nil
	}
	if settingsService == nil {
		dir, err := file.DefaultConfigDir()
		if err != nil {
			return err
		}
		store, err := file.NewConfigStore(dir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		settingsService = services.NewSettingsService(store, ai.NewConfigValidator())
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}
	appSettings = settings
	return nil
}

// ensureServices wires the store and embedding provider on first use.
func ensureServices(ctx context.Context) error {
	if retrievalService != nil {
		return nil
	}
	if err := ensureSettings(); err != nil {
		return err
	}

	a, err := app.New(ctx, appSettings)
	if err != nil {
		return err
	}
	application = a
	retrievalService = a.Retrieval
	fileService = a.Files
	answerService = a.Answers
	documentService = a.Document
	healthService = a.Health
	return nil
}

func closeServices() {
	if application == nil {
		return
	}
	if err := application.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "closing: %v\n", err)
	}
	application = nil
}

// principal resolves the user the command acts as.
func principal() (string, error) {
	if userFlag != "" {
		return userFlag, nil
	}
	if appSettings != nil && appSettings.Server.UserID != "" {
		return appSettings.Server.UserID, nil
	}
	return "", ErrNoPrincipal
}

// setup wires services and resolves the principal.
func setup(cmd *cobra.Command) (string, error) {
	if err := ensureServices(cmd.Context()); err != nil {
		return "", err
	}
	return principal()
}
