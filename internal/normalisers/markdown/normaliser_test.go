package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/minereg/internal/core/domain"
)

func TestNormaliser_Metadata(t *testing.T) {
	n := New()
	assert.Equal(t, []string{"text/markdown", "text/x-markdown"}, n.SupportedMIMETypes())
	assert.Equal(t, 50, n.Priority())
}

func TestNormalise_GuidanceNote(t *testing.T) {
	src := "# Closure Plan Guidance\n\n" +
		"## Financial assurance\n\n" +
		"> Read with **section 145** of the [Mining Act](https://example.org/act).\n\n" +
		"1. File the plan.\n" +
		"2. Post *security*.\n\n" +
		"- tailings\n" +
		"- waste rock\n\n" +
		"---\n\n" +
		"| Class | Amount |\n" +
		"|-------|--------|\n" +
		"| A | 100 |\n\n" +
		"![map](map.png)\n" +
		"Use `form 5`.\n"

	res, err := New().Normalise(context.Background(), &domain.RawDocument{
		URI:     "guidance.md",
		Content: []byte(src),
	})
	require.NoError(t, err)

	assert.Equal(t, "markdown", res.Format)
	assert.Equal(t, "Closure Plan Guidance", res.Title)
	assert.Equal(t,
		"Closure Plan Guidance\n"+
			"Financial assurance\n"+
			"Read with section 145 of the Mining Act.\n"+
			"1. File the plan.\n"+
			"2. Post security.\n"+
			"tailings\n"+
			"waste rock\n"+
			"Class Amount\n"+
			"A 100\n"+
			"Use form 5.",
		res.Content)
}

func TestNormalise_KeepsIdentifierUnderscores(t *testing.T) {
	res, err := New().Normalise(context.Background(), &domain.RawDocument{
		URI:     "notes_2024.md",
		Content: []byte("see permit_id field"),
	})
	require.NoError(t, err)
	assert.Equal(t, "see permit_id field", res.Content)
	assert.Equal(t, "notes 2024", res.Title)
}

func TestNormalise_Nil(t *testing.T) {
	_, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
