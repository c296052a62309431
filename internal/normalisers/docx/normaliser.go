// Package docx extracts paragraph text from Word documents, the usual
// form of permits and legal opinions.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/minereg/internal/core/domain"
	"github.com/custodia-labs/minereg/internal/core/ports/driven"
	"github.com/custodia-labs/minereg/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

const (
	documentPart = "word/document.xml"
	corePart     = "docProps/core.xml"
)

// Normaliser handles DOCX documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise reads the main document part, one line per paragraph.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: file is required", domain.ErrInvalidInput)
	}

	reader, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a docx archive: %v", domain.ErrInvalidInput, err)
	}

	body, err := readPart(reader, documentPart)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, fmt.Errorf("%w: docx has no %s", domain.ErrInvalidInput, documentPart)
	}
	content, err := parseDocumentXML(body)
	if err != nil {
		return nil, err
	}

	return &driven.NormaliseResult{
		Title:   title(reader, raw.URI),
		Content: content,
		Format:  "docx",
	}, nil
}

// maxPartBytes bounds the decompressed size of a single archive member.
const maxPartBytes = 64 << 20

// readPart returns the named archive member, or nil when absent.
func readPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %v", domain.ErrInvalidInput, name, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(io.LimitReader(rc, maxPartBytes+1))
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", domain.ErrInvalidInput, name, err)
		}
		if len(data) > maxPartBytes {
			return nil, fmt.Errorf("%w: %s exceeds %d bytes uncompressed", domain.ErrInvalidInput, name, maxPartBytes)
		}
		return data, nil
	}
	return nil, nil
}

// parseDocumentXML walks the token stream so paragraphs nested in tables,
// text boxes and content controls are kept. Each w:p ends a line.
func parseDocumentXML(content []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(content))

	var b strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: parse %s: %v", domain.ErrInvalidInput, documentPart, err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte(' ')
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(el)
			}
		}
	}
	return normalisers.CollapseBlankLines(b.String()), nil
}

// title reads dc:title from the core properties, else derives one from uri.
func title(reader *zip.Reader, uri string) string {
	data, err := readPart(reader, corePart)
	if err == nil && data != nil {
		var core struct {
			Title string `xml:"title"`
		}
		if xml.Unmarshal(data, &core) == nil {
			if t := strings.TrimSpace(core.Title); t != "" {
				return t
			}
		}
	}
	return normalisers.TitleFromURI(uri)
}
