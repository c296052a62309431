package html

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/minereg/internal/core/domain"
)

const regulationPage = `<!DOCTYPE html>
<html>
<head><title>Mining Act, R.S.O. 1990, c. M.14</title>
<style>body { font: serif; }</style></head>
<body>
<nav><a href="/">Home</a></nav>
<h1>Part VII &mdash; Rehabilitation</h1>
<!-- generated -->
<p>139. (1) A proponent shall file a <b>closure plan</b>&nbsp;before production.</p>
<table><tr><td>Class</td><td>Security</td></tr></table>
<script>track();</script>
<p>Le promoteur doit d&eacute;poser une garantie.</p>
</body>
</html>`

func TestNormaliser_Metadata(t *testing.T) {
	n := New()
	assert.Equal(t, []string{"text/html", "application/xhtml+xml"}, n.SupportedMIMETypes())
	assert.Equal(t, 50, n.Priority())
}

func TestNormalise_RegulationPage(t *testing.T) {
	res, err := New().Normalise(context.Background(), &domain.RawDocument{
		URI:     "mining-act.html",
		Content: []byte(regulationPage),
	})
	require.NoError(t, err)

	assert.Equal(t, "html", res.Format)
	assert.Equal(t, "Mining Act, R.S.O. 1990, c. M.14", res.Title)
	assert.Equal(t,
		"Part VII — Rehabilitation\n"+
			"139. (1) A proponent shall file a closure plan before production.\n"+
			"Class Security\n"+
			"Le promoteur doit déposer une garantie.",
		res.Content)
	assert.NotContains(t, res.Content, "track()")
	assert.NotContains(t, res.Content, "Home")
}

func TestNormalise_TitleFallsBackToFilename(t *testing.T) {
	res, err := New().Normalise(context.Background(), &domain.RawDocument{
		URI:     "/tmp/effluent_regulations.html",
		Content: []byte("<p>text</p>"),
	})
	require.NoError(t, err)
	assert.Equal(t, "effluent regulations", res.Title)
	assert.Equal(t, "text", res.Content)
}

func TestNormalise_Nil(t *testing.T) {
	_, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
