// Package fileutil finds files produced under an output root.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ChartExtensions are the artifact types renderers are expected to write.
var ChartExtensions = []string{".png", ".svg", ".pdf", ".html"}

// ScanResult holds matched files and non-fatal read errors.
type ScanResult struct {
	Files  []string // absolute paths, sorted
	Errors []error
}

// ScanDirectory lists the files directly inside dir whose extension
// is one of extensions (case-insensitive, leading dot optional). No
// extensions means every file. Subdirectories are not entered.
func ScanDirectory(dir string, extensions []string) (*ScanResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	extMap := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extMap[strings.ToLower(ext)] = true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	result := &ScanResult{Files: make([]string, 0)}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if len(extMap) > 0 && !extMap[strings.ToLower(filepath.Ext(name))] {
			continue
		}

		absPath, err := filepath.Abs(filepath.Join(dir, name))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("failed to resolve path %s: %w", name, err))
			continue
		}
		result.Files = append(result.Files, absPath)
	}

	sort.Strings(result.Files)
	return result, nil
}

// FindArtifacts returns the chart files directly inside a section directory.
// A missing directory yields no artifacts and no error.
func FindArtifacts(sectionDir string) ([]string, error) {
	if _, err := os.Stat(sectionDir); os.IsNotExist(err) {
		return nil, nil
	}
	result, err := ScanDirectory(sectionDir, ChartExtensions)
	if err != nil {
		return nil, err
	}
	return result.Files, nil
}
