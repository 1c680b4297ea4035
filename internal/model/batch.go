package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// FetchBatch is a set of identifiers submitted together to ensure their
// icons are cached
type FetchBatch struct {
	ID          string
	IDs         []string
	SubmittedAt time.Time
}

// NewFetchBatch creates a batch with a fresh ID. Blank identifiers are
// dropped and duplicates collapse to their first occurrence.
func NewFetchBatch(ids []string) FetchBatch {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	return FetchBatch{
		ID:          "batch-" + uuid.NewString(),
		IDs:         unique,
		SubmittedAt: time.Now(),
	}
}

// Len returns the number of identifiers in the batch
func (b FetchBatch) Len() int {
	return len(b.IDs)
}
