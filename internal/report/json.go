package report

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/naka-gawa/repo-report/internal/domain"
)

// dump is the envelope of the JSON artifact.
type dump struct {
	GeneratedAt  string              `json:"generated_at"`
	Username     string              `json:"username"`
	Filter       *domain.FilterRange `json:"filter,omitempty"`
	SampleSize   int                 `json:"sample_size"`
	Stats        *domain.Stats       `json:"stats"`
	Repositories []domain.Repository `json:"repositories"`
}

// RenderJSON renders the machine-readable dump with stable two-space
// indentation.
func RenderJSON(st *domain.Stats, repos []domain.Repository, m Meta) ([]byte, error) {
	d := dump{
		GeneratedAt:  m.GeneratedAt.In(domain.JST).Format(time.RFC3339),
		Username:     m.Username,
		SampleSize:   m.SampleSize,
		Stats:        st,
		Repositories: repos,
	}
	if !m.Filter.IsZero() {
		f := m.Filter
		d.Filter = &f
	}
	if d.Repositories == nil {
		d.Repositories = []domain.Repository{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
