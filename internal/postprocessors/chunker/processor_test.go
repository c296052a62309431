package chunker

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/custodia-labs/minereg/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p := New()
		if p.ChunkSize() != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, p.ChunkSize())
		}
		if p.Overlap() != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, p.Overlap())
		}
	})

	t.Run("custom values", func(t *testing.T) {
		p := New(WithChunkSize(500), WithOverlap(100))
		if p.ChunkSize() != 500 || p.Overlap() != 100 {
			t.Errorf("expected 500/100, got %d/%d", p.ChunkSize(), p.Overlap())
		}
	})

	t.Run("zero chunk size keeps default", func(t *testing.T) {
		p := New(WithChunkSize(0))
		if p.ChunkSize() != DefaultChunkSize {
			t.Errorf("expected default chunkSize, got %d", p.ChunkSize())
		}
	})
}

func TestSplit_EdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		size     int
		overlap  int
		expected []string
	}{
		{"empty text", "", 100, 20, []string{}},
		{"shorter than chunk", "abc", 100, 20, []string{"abc"}},
		{"exact chunk", "abcd", 4, 1, []string{"abcd"}},
		{"overlapping windows", "abcdefghij", 4, 1, []string{"abcd", "defg", "ghij"}},
		{"no overlap", "abcdefghij", 5, 0, []string{"abcde", "fghij"}},
		{"short tail", "abcdefg", 4, 2, []string{"abcd", "cdef", "efg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.text, tt.size, tt.overlap)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestSplit_InvalidParameters(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
	}{
		{"zero size", 0, 0},
		{"negative size", -5, 0},
		{"negative overlap", 10, -1},
		{"overlap equals size", 10, 10},
		{"overlap exceeds size", 10, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Split("some text", tt.size, tt.overlap)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestSplit_Deterministic(t *testing.T) {
	text := strings.Repeat("Mining Act, R.S.O. 1990, c. M.14. ", 100)
	a, err := Split(text, 97, 13)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := Split(text, 97, 13)
	if !reflect.DeepEqual(a, b) {
		t.Error("identical arguments produced different chunks")
	}
}

func TestSplit_Coverage(t *testing.T) {
	text := strings.Repeat("0123456789abcdefghijklmnopqrstuvwxyz", 37)

	for _, params := range [][2]int{{1000, 200}, {100, 20}, {7, 3}, {10, 0}, {2, 1}} {
		size, overlap := params[0], params[1]
		chunks, err := Split(text, size, overlap)
		if err != nil {
			t.Fatalf("size=%d overlap=%d: %v", size, overlap, err)
		}

		var sb strings.Builder
		sb.WriteString(chunks[0])
		for _, c := range chunks[1:] {
			sb.WriteString(c[overlap:])
		}
		if sb.String() != text {
			t.Errorf("size=%d overlap=%d: reconstruction mismatch", size, overlap)
		}
		for i, c := range chunks[:len(chunks)-1] {
			if len(c) != size {
				t.Errorf("size=%d overlap=%d: chunk %d has length %d", size, overlap, i, len(c))
			}
		}
	}
}

func TestSplit_TwentyFiveHundredCharacters(t *testing.T) {
	text := strings.Repeat("x", 2500)
	chunks, err := Split(text, 1000, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks ([0,1000) [800,1800) [1600,2500)), got %d", len(chunks))
	}
	if len(chunks[2]) != 900 {
		t.Errorf("expected final chunk of 900 characters, got %d", len(chunks[2]))
	}
}

func TestSplit_MultibyteCharacters(t *testing.T) {
	text := strings.Repeat("Règlement sur les effluents des mines de métaux — ", 20)
	chunks, err := Split(text, 50, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, c := range chunks {
		if !utf8.ValidString(c) {
			t.Errorf("chunk %d is not valid UTF-8", i)
		}
		if i < len(chunks)-1 && utf8.RuneCountInString(c) != 50 {
			t.Errorf("chunk %d has %d runes", i, utf8.RuneCountInString(c))
		}
	}
}

func TestProcessor_Process(t *testing.T) {
	p := New(WithChunkSize(4), WithOverlap(1))
	chunks, err := p.Process("doc-1", "abcdefghij")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.DocumentID != "doc-1" {
			t.Errorf("chunk %d: expected document doc-1, got %s", i, c.DocumentID)
		}
		if c.Index != i {
			t.Errorf("chunk %d: expected index %d, got %d", i, i, c.Index)
		}
	}
}

func TestProcessor_Process_Invalid(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(150))
	if _, err := p.Process("doc-1", "text"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
