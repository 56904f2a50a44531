package catalog

import (
	"context"
	"time"

	"pcbuild/decision/parts"
	"pcbuild/decision/scoring"
)

// IngestionResult tracks the result of a catalog import
type IngestionResult struct {
	Counts       map[parts.Category]int `json:"counts"`
	Total        int                    `json:"total"`
	Duration     time.Duration          `json:"duration"`
	Success      bool                   `json:"success"`
	ErrorMessage string                 `json:"error_message,omitempty"`
}

// Ingest migrates the schema and upserts every part of c in a single
// transaction. A failed import leaves the table unchanged.
func (s *Store) Ingest(ctx context.Context, c scoring.Catalog) (*IngestionResult, error) {
	start := time.Now()
	result := &IngestionResult{Counts: make(map[parts.Category]int)}

	if err := s.Migrate(ctx); err != nil {
		result.ErrorMessage = err.Error()
		return result, err
	}

	all := Flatten(c)
	if err := s.Upsert(ctx, all); err != nil {
		result.ErrorMessage = err.Error()
		result.Duration = time.Since(start)
		return result, err
	}

	for _, p := range all {
		result.Counts[p.Category]++
	}
	result.Total = len(all)
	result.Duration = time.Since(start)
	result.Success = true
	return result, nil
}
