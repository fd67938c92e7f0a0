// Package export renders documents into downloadable formats.
package export

import (
	"errors"
	"fmt"

	"inkwell/api/internal/store"
)

// Format is the export output format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
)

// Result contains the export output.
type Result struct {
	Data     []byte
	Filename string
	MimeType string
}

var (
	// ErrUnsupportedFormat indicates the requested format is not one of the
	// supported export formats.
	ErrUnsupportedFormat = errors.New("export format unsupported")
	// ErrPDFDependencyMissing indicates PDF export runtime dependencies are unavailable.
	ErrPDFDependencyMissing = errors.New("export pdf dependency missing")
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Export renders a document in the requested format. Access checks are the
// caller's responsibility; this layer only formats.
func (s *Service) Export(doc store.Document, format Format) (*Result, error) {
	switch format {
	case FormatMarkdown:
		return exportMarkdown(doc), nil
	case FormatHTML:
		html, err := renderHTML(doc)
		if err != nil {
			return nil, fmt.Errorf("render html: %w", err)
		}
		return &Result{
			Data:     []byte(html),
			Filename: sanitizeFilename(doc.Title) + ".html",
			MimeType: "text/html; charset=utf-8",
		}, nil
	case FormatPDF:
		html, err := renderHTML(doc)
		if err != nil {
			return nil, fmt.Errorf("render html: %w", err)
		}
		return exportPDF(html, doc.Title)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func exportMarkdown(doc store.Document) *Result {
	body := fmt.Sprintf("# %s\n\n%s\n", doc.Title, doc.Content)
	return &Result{
		Data:     []byte(body),
		Filename: sanitizeFilename(doc.Title) + ".md",
		MimeType: "text/markdown; charset=utf-8",
	}
}

// sanitizeFilename creates a safe download filename from a title.
func sanitizeFilename(title string) string {
	result := ""
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			result += string(r)
		case r == ' ':
			result += "-"
		case r == '-', r == '_':
			result += string(r)
		}
	}

	if len(result) > 50 {
		result = result[:50]
	}
	if result == "" {
		result = "document"
	}
	return result
}
