package export

import (
	"strings"
	"testing"
	"time"

	"inkwell/api/internal/store"
)

func sampleDocument() store.Document {
	return store.Document{
		ID:              "doc_1",
		Title:           "Quarterly Notes",
		Content:         "First paragraph.\n\nSecond paragraph\nwith a continuation line.",
		Version:         3,
		AuthorFirstName: "Ada",
		AuthorLastName:  "Lovelace",
		UpdatedAt:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestExportMarkdown(t *testing.T) {
	svc := NewService()
	result, err := svc.Export(sampleDocument(), FormatMarkdown)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	body := string(result.Data)
	if !strings.HasPrefix(body, "# Quarterly Notes\n") {
		t.Errorf("markdown should start with title heading, got %q", body)
	}
	if !strings.Contains(body, "Second paragraph") {
		t.Error("markdown missing content")
	}
	if result.Filename != "Quarterly-Notes.md" {
		t.Errorf("unexpected filename %q", result.Filename)
	}
	if result.MimeType != "text/markdown; charset=utf-8" {
		t.Errorf("unexpected mime type %q", result.MimeType)
	}
}

func TestExportHTML(t *testing.T) {
	svc := NewService()
	result, err := svc.Export(sampleDocument(), FormatHTML)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	html := string(result.Data)
	if !strings.Contains(html, "Quarterly Notes") {
		t.Error("HTML missing title")
	}
	if !strings.Contains(html, "Ada Lovelace") {
		t.Error("HTML missing author")
	}
	if !strings.Contains(html, "version 3") {
		t.Error("HTML missing version")
	}
	if !strings.Contains(html, "<p>First paragraph.</p>") {
		t.Error("HTML should contain paragraph markup, not escaped text")
	}
	if !strings.Contains(html, "with a continuation line") {
		t.Error("HTML missing second paragraph")
	}
	if result.Filename != "Quarterly-Notes.html" {
		t.Errorf("unexpected filename %q", result.Filename)
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	svc := NewService()
	if _, err := svc.Export(sampleDocument(), Format("docx")); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestContentToHTMLEscapesMarkup(t *testing.T) {
	html := string(contentToHTML("before <script>alert(1)</script> after"))
	if strings.Contains(html, "<script>") {
		t.Error("content markup must be escaped")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Errorf("expected escaped markup, got %q", html)
	}
}

func TestContentToHTMLLineBreaks(t *testing.T) {
	html := string(contentToHTML("line one\nline two\n\nnext para"))
	if !strings.Contains(html, "line one<br>line two") {
		t.Errorf("single newline should become <br>, got %q", html)
	}
	if strings.Count(html, "<p>") != 2 {
		t.Errorf("expected 2 paragraphs, got %q", html)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World", "Hello-World"},
		{"My Document v1.2", "My-Document-v12"},
		{"Special!@#$%Chars", "SpecialChars"},
		{"", "document"},
		{"Very Long Title That Exceeds Fifty Characters Limit", "Very-Long-Title-That-Exceeds-Fifty-Characters-Limi"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := sanitizeFilename(tt.input)
			if result != tt.expected {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestPercentEncodeForDataURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello world", "hello%20world"},
		{"test+sign", "test%2Bsign"},
		{"special<>", "special%3C%3E"},
		{"normal-text.txt", "normal-text.txt"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := percentEncodeForDataURL(tt.input)
			if result != tt.expected {
				t.Errorf("percentEncodeForDataURL(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
