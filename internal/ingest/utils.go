package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/resume-parser/constants"
)

// AllowedExt checks if a file extension is one of the accepted résumé formats.
func AllowedExt(ext string) bool {
	_, ok := constants.AllowedExtensions[constants.NormalizeExt(ext)]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return base != "." && base != ".." && strings.HasPrefix(base, ".")
}
