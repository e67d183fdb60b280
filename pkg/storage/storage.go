// Package storage writes the artifacts of the current run (report files,
// generated images) under a per-run directory. Output only: nothing here is
// read back across runs and no result cache exists.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Storage struct {
	baseDir string
}

// New ensures the base output directory exists.
func New(baseDir string) (*Storage, error) {
	if baseDir == "" {
		baseDir = "preflight-results"
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Storage{baseDir: baseDir}, nil
}

// RunPath builds a timestamped output path for an artifact of this run.
// Example: preflight-results/flyer-2026-08-27T14-05-report.json
func (s *Storage) RunPath(source, artifact string) string {
	stem := sanitize(source)
	if stem == "" {
		stem = "run"
	}
	ts := time.Now().Format("2006-01-02T15-04")
	return filepath.Join(s.baseDir, fmt.Sprintf("%s-%s-%s", stem, ts, artifact))
}

// SaveFile writes one artifact.
func (s *Storage) SaveFile(path string, content []byte) error {
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	return nil
}

// ExtForMIME picks a file extension for generated image bytes.
func ExtForMIME(mime string) string {
	switch mime {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	}
	return ".bin"
}

func sanitize(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	var sb strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return strings.Trim(sb.String(), "_")
}
