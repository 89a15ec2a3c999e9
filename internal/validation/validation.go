// Package validation checks command-line inputs before they reach the engine.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// IsValidOutputFormat checks if the given format is supported.
func IsValidOutputFormat(format string) error {
	switch format {
	case FormatText, FormatJSON, FormatCSV:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s. Supported formats are 'text', 'json', 'csv'", format)
	}
}

// IsValidInputFile checks that path is an existing regular file with the
// given extension. An empty extension accepts any file.
func IsValidInputFile(path, ext string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is not a regular file", path)
	}
	if ext != "" && !strings.EqualFold(filepath.Ext(path), ext) {
		return fmt.Errorf("file %s must have extension %s", path, ext)
	}
	return nil
}

// IsValidFilePermissions checks that others have no access to a sensitive file.
func IsValidFilePermissions(mode os.FileMode) error {
	if mode&0007 != 0 {
		return fmt.Errorf("file permissions are too permissive: %s. Recommended 0600 or 0644", mode.String())
	}
	return nil
}

// IsValidID rejects empty identifiers and identifiers with whitespace.
func IsValidID(kind, id string) error {
	if id == "" {
		return fmt.Errorf("%s id is required", kind)
	}
	if strings.ContainsAny(id, " \t\r\n") {
		return fmt.Errorf("%s id %q must not contain whitespace", kind, id)
	}
	return nil
}
