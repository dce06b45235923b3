// Package report renders the aggregated statistics as an HTML document, a
// JSON dump and a terminal summary.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/naka-gawa/repo-report/internal/domain"
)

// Meta is the run metadata embedded in every rendered artifact.
type Meta struct {
	Username    string
	GeneratedAt time.Time
	Filter      domain.FilterRange
	SampleSize  int
}

// timestamp renders the generation time for file names.
func (m Meta) timestamp() string {
	return m.GeneratedAt.In(domain.JST).Format("20060102_150405")
}

// HTMLFileName names the HTML artifact.
func (m Meta) HTMLFileName() string {
	return fmt.Sprintf("github_report_%s_%s.html", m.Username, m.timestamp())
}

// JSONFileName names the JSON artifact.
func (m Meta) JSONFileName() string {
	return fmt.Sprintf("github_data_%s_%s.json", m.Username, m.timestamp())
}

// Write renders both artifacts into dir and returns their paths. Each file is
// rendered fully in memory and written atomically (temp file + rename), so a
// failed run never leaves a partial report behind.
func Write(dir string, m Meta, st *domain.Stats, repos []domain.Repository) (htmlPath, jsonPath string, err error) {
	htmlDoc := RenderHTML(st, m)
	jsonDoc, err := RenderJSON(st, repos, m)
	if err != nil {
		return "", "", fmt.Errorf("failed to render JSON dump: %w", err)
	}

	htmlPath = filepath.Join(dir, m.HTMLFileName())
	if err := writeFileAtomic(htmlPath, htmlDoc); err != nil {
		return "", "", fmt.Errorf("failed to write HTML report: %w", err)
	}

	jsonPath = filepath.Join(dir, m.JSONFileName())
	if err := writeFileAtomic(jsonPath, jsonDoc); err != nil {
		return "", "", fmt.Errorf("failed to write JSON dump: %w", err)
	}

	return htmlPath, jsonPath, nil
}

// writeFileAtomic writes data to path via a temp file in the same directory.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
