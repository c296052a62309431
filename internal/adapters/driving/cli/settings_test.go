package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", "****"},
		{"short token", "hf_abc", "****"},
		{"exactly 8 chars", "hf_12345", "****"},
		{"hugging face token", "hf_AbCdEfGhIjKlMnOp", "hf_A...MnOp"},
		{"openai project key", "sk-proj-1234567890abcdefghijklmnop", "sk-p...mnop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskAPIKey(tt.input))
		})
	}
}

func TestMaskDSN(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"url with password", "postgres://minereg:s3cret@db:5432/minereg", "postgres://minereg:****@db:5432/minereg"},
		{"url without password", "postgres://minereg@db/minereg", "postgres://minereg@db/minereg"},
		{"url without credentials", "postgres://db/minereg?sslmode=disable", "postgres://db/minereg?sslmode=disable"},
		{"empty password", "postgres://minereg:@db/minereg", "postgres://minereg:****@db/minereg"},
		{"at sign in password", "postgres://minereg:p@ss@db/minereg", "postgres://minereg:****@db/minereg"},
		{"at sign in query", "postgres://minereg:pw@db/minereg?application_name=ops@site", "postgres://minereg:****@db/minereg?application_name=ops@site"},
		{"at sign only in query", "postgres://db/minereg?application_name=ops@site", "postgres://db/minereg?application_name=ops@site"},
		{"key value form", "host=db user=minereg password=s3cret", "host=db user=minereg password=s3cret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskDSN(tt.input))
		})
	}
}

func TestParseChoice(t *testing.T) {
	// The wizard offers storage drivers and embedding providers as numbered menus.
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{"empty keeps current driver", "", 3, 2, 2},
		{"pick postgres", "3", 3, 1, 3},
		{"first entry", "1", 3, 3, 1},
		{"zero", "0", 3, 1, 1},
		{"beyond menu", "4", 3, 1, 1},
		{"negative", "-1", 4, 1, 1},
		{"provider name instead of number", "ollama", 4, 2, 2},
		{"whitespace", "   ", 4, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseChoice(tt.input, tt.maxVal, tt.defaultVal))
		})
	}
}
