package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// fileExists reports whether a regular file exists at path.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// writeFile writes data unless the file exists and overwrite is false.
// It reports whether the file was written.
func writeFile(path string, data []byte, overwrite bool) (bool, error) {
	if fileExists(path) && !overwrite {
		slog.Debug("File exists, skipping", "path", path)
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

// writeJSON writes v as indented JSON with the same overwrite rule as writeFile.
func writeJSON(path string, v any, overwrite bool) (bool, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return false, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return writeFile(path, append(data, '\n'), overwrite)
}

// sanitizeFilename replaces characters that are unsafe in file names.
func sanitizeFilename(name string) string {
	r := strings.NewReplacer(":", " -", "/", "-", "\\", "-", "*", "", "?", "", "\"", "", "<", "", ">", "", "|", "")
	return strings.TrimSpace(r.Replace(name))
}
