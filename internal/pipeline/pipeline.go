package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fpang/portfolio-uploader/internal/media"
	"github.com/fpang/portfolio-uploader/internal/store"
)

// Batch wires the pipeline stages together for one run: discovery → hashing
// → dedup → sequencing → windowed upload → aggregation.
type Batch struct {
	Store   store.MetadataStore
	Assets  AssetStore
	Extract Extractor

	// Hash computes a file's content digest. Defaults to media.HashFile.
	Hash func(path string) (string, error)

	Prefix       string
	PadWidth     int
	Concurrency  int
	MaxDimension int

	// Sink receives progress events. Nil disables rendering.
	Sink Sink
}

// Run executes the batch over the given folders. The returned Summary always
// reflects every unit that produced an outcome; the error is non-nil either
// for a setup failure (store unreachable during dedup or sequencing) or, via
// BatchError, when any unit failed.
func (b *Batch) Run(ctx context.Context, folders []string) (Summary, error) {
	runID := uuid.NewString()[:8]
	start := time.Now()
	logger := log.With().Str("runId", runID).Logger()

	hash := b.Hash
	if hash == nil {
		hash = media.HashFile
	}

	paths := media.DiscoverFolders(folders)

	// Hash every candidate up front. Read failures are per-candidate: the
	// file is reported in the failure set (keyed by path, since no identifier
	// is ever assigned) and the batch continues.
	var hashed []HashedCandidate
	var hashFailed []string
	for _, path := range paths {
		digest, err := hash(path)
		if err != nil {
			logger.Error().Err(err).Str("path", path).Msg("Hashing failed")
			hashFailed = append(hashFailed, path)
			continue
		}
		hashed = append(hashed, HashedCandidate{FilePath: path, ContentHash: digest})
	}

	survivors, err := FilterNew(ctx, b.Store, hashed)
	if err != nil {
		return Summary{}, err
	}

	maxID, err := b.Store.MaxAssignedID(ctx, b.Prefix)
	if err != nil {
		return Summary{}, fmt.Errorf("derive identifier seed: %w", err)
	}
	seed := SeedFromMaxID(maxID, b.Prefix)

	pending := Assign(survivors, b.Prefix, seed, b.PadWidth)

	logger.Info().
		Int("discovered", len(paths)).
		Int("deduplicated", len(hashed)-len(survivors)).
		Int("pending", len(pending)).
		Int("seed", seed).
		Msg("Batch assigned")

	agg := NewAggregator(len(pending), b.Sink)

	pool := &Pool{
		Store:       b.Store,
		Assets:      b.Assets,
		Extract:     b.Extract,
		Constraints: UploadConstraints{MaxDimension: b.MaxDimension},
		Concurrency: b.Concurrency,
	}
	pool.Run(ctx, pending, agg)

	summary := agg.Summary()
	summary.FailedIDs = append(hashFailed, summary.FailedIDs...)

	logger.Info().
		Int("completed", summary.Completed).
		Int("skipped", summary.Skipped).
		Int("failed", len(summary.FailedIDs)).
		Dur("elapsed", time.Since(start)).
		Msg("Batch complete")

	return summary, summary.Err()
}
