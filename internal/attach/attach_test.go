package attach

import (
	"testing"
)

func TestObjectKeyGroupsByDocument(t *testing.T) {
	key := ObjectKey("doc_abc", "att_123", "Report Final.pdf")
	if key != "documents/doc_abc/att_123-Report_Final.pdf" {
		t.Fatalf("unexpected key: %s", key)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"notes.txt", "notes.txt"},
		{"../../etc/passwd", "passwd"},
		{"weird name (1).png", "weird_name__1_.png"},
		{"", "file"},
		{"///", "file"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
