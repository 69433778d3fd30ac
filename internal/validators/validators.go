// Package validators holds the server-side checks for uploaded files:
// extension allow-list, size bounds, PDF magic bytes, and filename
// sanitization against path traversal.
package validators

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
)

var pdfMagic = []byte("%PDF-")

var allowedExtensions = map[string]bool{
	".pdf": true,
}

// ValidatePDFUpload checks the declared filename, the size reported
// by the multipart header, and the leading bytes of the file itself.
// Returns an empty string when the file passes.
func ValidatePDFUpload(filename string, size int64, header []byte, maxSize int64) string {
	if filename == "" {
		return "No file selected"
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(filename))] {
		return "Only PDF files are allowed"
	}
	if size == 0 {
		return "File is empty"
	}
	if size > maxSize {
		return fmt.Sprintf("File size exceeds %dMB limit", maxSize/(1<<20))
	}
	if len(header) < len(pdfMagic) || !bytes.HasPrefix(header, pdfMagic) {
		return "File is not a valid PDF"
	}
	return ""
}

// SanitizeFilename strips directory components and anything outside a
// conservative character set, so the stored name is safe to join into
// a filesystem path.
func SanitizeFilename(filename string) string {
	// Windows-style separators count as path components too.
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	cleaned := strings.Trim(b.String(), "._")
	if cleaned == "" {
		return "document"
	}
	return cleaned
}
