package validators

import (
	"testing"
)

func TestValidatePDFUpload(t *testing.T) {
	const maxSize = 1 << 20
	goodHeader := []byte("%PDF-1.7 rest of file")

	tests := []struct {
		name     string
		filename string
		size     int64
		header   []byte
		wantErr  string
	}{
		{"valid", "paper.pdf", 1024, goodHeader, ""},
		{"no filename", "", 1024, goodHeader, "No file selected"},
		{"wrong extension", "paper.docx", 1024, goodHeader, "Only PDF files are allowed"},
		{"empty file", "paper.pdf", 0, goodHeader, "File is empty"},
		{"too large", "paper.pdf", maxSize + 1, goodHeader, "File size exceeds 1MB limit"},
		{"bad magic", "paper.pdf", 1024, []byte("GIF89a"), "File is not a valid PDF"},
		{"truncated header", "paper.pdf", 3, []byte("%P"), "File is not a valid PDF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidatePDFUpload(tt.filename, tt.size, tt.header, maxSize)
			if got != tt.wantErr {
				t.Errorf("got %q, want %q", got, tt.wantErr)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"../../etc/passwd", "passwd"},
		{"..\\..\\windows\\system32.pdf", "system32.pdf"},
		{"my report (final).pdf", "my_report__final_.pdf"},
		{"", "document"},
		{"...", "document"},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
