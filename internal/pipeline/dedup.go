package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/fpang/portfolio-uploader/internal/store"
)

// FilterNew drops candidates whose content hash already exists in the
// metadata store. Known hashes are logged as skips, not failures, and the
// order of surviving candidates is preserved.
//
// A store query error here aborts the batch: without a working dedup check
// the run could double-ingest everything. The check itself is advisory: a
// concurrent ingest finishing between this query and persistence can still
// slip a duplicate through (accepted for a single-operator tool).
func FilterNew(ctx context.Context, st store.MetadataStore, candidates []HashedCandidate) ([]HashedCandidate, error) {
	survivors := make([]HashedCandidate, 0, len(candidates))

	for _, c := range candidates {
		exists, err := st.HashExists(ctx, c.ContentHash)
		if err != nil {
			return nil, fmt.Errorf("dedup check for %s: %w", c.FilePath, err)
		}
		if exists {
			log.Info().
				Str("path", c.FilePath).
				Str("contentHash", c.ContentHash).
				Msg("Already uploaded, skipping")
			continue
		}
		survivors = append(survivors, c)
	}

	log.Debug().
		Int("candidates", len(candidates)).
		Int("new", len(survivors)).
		Msg("Dedup filter complete")

	return survivors, nil
}
