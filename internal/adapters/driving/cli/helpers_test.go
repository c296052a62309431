package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/minereg/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/minereg/internal/app"
	"github.com/custodia-labs/minereg/internal/core/domain"
	"github.com/custodia-labs/minereg/internal/core/ports/driven"
	"github.com/custodia-labs/minereg/internal/core/services"
)

// vowelEmbedder embeds text as its vowel counts, so identical texts score 1.
type vowelEmbedder struct {
	err error
}

func (e *vowelEmbedder) Embed(ctx context.Context, text, model string) ([]float64, error) {
	out, err := e.EmbedBatch(ctx, []string{text}, model)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (e *vowelEmbedder) EmbedBatch(_ context.Context, texts []string, _ string) ([][]float64, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float64, len(texts))
	for i, t := range texts {
		v := make([]float64, 5)
		for _, r := range strings.ToLower(t) {
			if idx := strings.IndexRune("aeiou", r); idx >= 0 {
				v[idx]++
			}
		}
		out[i] = v
	}
	return out, nil
}

func (e *vowelEmbedder) DefaultModel() string { return "vowels" }

// cannedLLM answers every question with reply and keeps the last prompt.
type cannedLLM struct {
	reply    string
	messages []driven.ChatMessage
}

func (l *cannedLLM) Generate(context.Context, string, driven.GenerateOptions) (string, error) {
	return l.reply, nil
}

func (l *cannedLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	l.messages = messages
	return l.reply, nil
}

func (l *cannedLLM) ModelName() string          { return "canned" }
func (l *cannedLLM) Ping(context.Context) error { return nil }
func (l *cannedLLM) Close() error               { return nil }

type cliFixture struct {
	store *memory.Store
	embed *vowelEmbedder
	llm   *cannedLLM
}

// newCLIFixture injects in-memory services into the package and restores
// the previous wiring when the test ends.
func newCLIFixture(t *testing.T, config map[string]any) *cliFixture {
	t.Helper()
	t.Setenv(services.EnvUserID, "")
	t.Setenv(services.EnvHuggingFaceAPIKey, "")

	prevRetrieval, prevDocument, prevHealth := retrievalService, documentService, healthService
	prevFiles, prevAnswers := fileService, answerService
	prevSettingsSvc, prevSettings, prevUser := settingsService, appSettings, userFlag

	settingsSvc := services.NewSettingsService(memory.NewConfigStore(config), nil)
	settings, err := settingsSvc.Get()
	require.NoError(t, err)

	store := memory.NewStore()
	embed := &vowelEmbedder{}
	settingsService = settingsSvc
	appSettings = settings
	retrieval := services.NewRetrievalService(embed, store, store, settings.Retrieval)
	retrievalService = retrieval
	fileService = services.NewFileIngestService(retrieval, app.NewNormaliserRegistry())
	llm := &cannedLLM{reply: "Rehabilitation must be described [1]."}
	answerService = services.NewAnswerService(retrieval, llm)
	documentService = services.NewDocumentService(store, store)
	healthService = services.NewHealthService(store, nil, settings.Embedding)

	t.Cleanup(func() {
		retrievalService, documentService, healthService = prevRetrieval, prevDocument, prevHealth
		fileService, answerService = prevFiles, prevAnswers
		settingsService, appSettings, userFlag = prevSettingsSvc, prevSettings, prevUser
	})
	return &cliFixture{store: store, embed: embed, llm: llm}
}

// run executes the root command with args and returns its combined output.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// resetFlags restores every flag to its default so commands do not leak
// state between tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// registerDoc adds a document owned by user through the CLI and returns its id.
func registerDoc(t *testing.T, user, id string) string {
	t.Helper()
	_, err := run(t, "", "document", "add", "Mining Act", "--id", id, "--type", string(domain.DocumentTypeRegulation),
		"--jurisdiction", "ontario", "--user", user)
	require.NoError(t, err)
	return id
}
