package export

import (
	"bytes"
	"html/template"
	"strings"

	"inkwell/api/internal/store"
)

var documentTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <style>
        body { font-family: Georgia, 'Times New Roman', serif; line-height: 1.7; color: #1c1c1c; max-width: 720px; margin: 0 auto; padding: 40px 20px; }
        h1 { border-bottom: 2px solid #1f3a5f; padding-bottom: 8px; }
        .meta { color: #666; font-size: 14px; margin-bottom: 32px; }
        p { margin: 0 0 1em; }
        @page { margin: 2cm; }
    </style>
</head>
<body>
    <h1>{{.Title}}</h1>
    <div class="meta">
        {{if .Author}}<span>{{.Author}}</span> &middot; {{end}}version {{.Version}} &middot; updated {{.UpdatedAt}}
    </div>
    {{.ContentHTML}}
</body>
</html>`))

type templateData struct {
	Title       string
	Author      string
	Version     int
	UpdatedAt   string
	ContentHTML template.HTML
}

func renderHTML(doc store.Document) (string, error) {
	data := templateData{
		Title:       doc.Title,
		Author:      strings.TrimSpace(doc.AuthorFirstName + " " + doc.AuthorLastName),
		Version:     doc.Version,
		UpdatedAt:   doc.UpdatedAt.Format("January 2, 2006"),
		ContentHTML: contentToHTML(doc.Content),
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// contentToHTML renders plain text as paragraphs. Blank lines split
// paragraphs; single newlines become line breaks.
func contentToHTML(content string) template.HTML {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	var b strings.Builder
	for _, para := range strings.Split(normalized, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		b.WriteString("<p>")
		for i, line := range strings.Split(para, "\n") {
			if i > 0 {
				b.WriteString("<br>")
			}
			b.WriteString(template.HTMLEscapeString(line))
		}
		b.WriteString("</p>\n")
	}
	return template.HTML(b.String())
}
