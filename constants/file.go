package constants

import (
	"path/filepath"
	"strings"
)

// Document families accepted for upload.
const (
	PDF  = "PDF"
	DOCX = "DOCX"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// AllowedExtensions holds the allowed file extensions for resume uploads.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"docx": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// DetectFormat maps a filename and declared content type to PDF, DOCX or "".
func DetectFormat(filename, contentType string) string {
	ext := NormalizeExt(filepath.Ext(filename))
	ct := strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case ext == "pdf" || strings.HasPrefix(ct, MimePDF):
		return PDF
	case ext == "docx" || strings.Contains(ct, "officedocument.wordprocessingml.document"):
		return DOCX
	}
	return ""
}

// MimeForFormat returns the canonical content type for a document family.
func MimeForFormat(format string) string {
	switch format {
	case PDF:
		return MimePDF
	case DOCX:
		return MimeDOCX
	}
	return "application/octet-stream"
}
