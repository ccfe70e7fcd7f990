package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/fpang/portfolio-uploader/internal/media"
	"github.com/fpang/portfolio-uploader/internal/store"
)

// Pool processes pending uploads in fixed-size windows of at most Concurrency
// concurrently-executing units. Windows run strictly sequentially: window i+1
// does not start until window i fully completes, bounding peak concurrency
// against remote API rate limits.
type Pool struct {
	Store       store.MetadataStore
	Assets      AssetStore
	Extract     Extractor
	Constraints UploadConstraints
	Concurrency int
}

// hashGuard is the per-run duplicate guard: the first unit to claim a content
// hash proceeds, later claimants are skipped. This catches two same-content
// files landing in the same batch, which the store-level dedup check cannot
// see until one of them is persisted.
type hashGuard struct {
	mu      sync.Mutex
	claimed map[string]string // content hash -> claiming identifier
}

func newHashGuard() *hashGuard {
	return &hashGuard{claimed: make(map[string]string)}
}

// claim registers id as the owner of hash. Returns the prior owner and false
// when the hash was already claimed by another unit.
func (g *hashGuard) claim(hash, id string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if prior, ok := g.claimed[hash]; ok {
		return prior, false
	}
	g.claimed[hash] = id
	return "", true
}

// Run processes all pending uploads and records each outcome with the
// aggregator as it lands. A unit failure never aborts sibling units or later
// windows; the batch always runs to completion.
func (p *Pool) Run(ctx context.Context, pending []PendingUpload, agg *Aggregator) []Outcome {
	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	outcomes := make([]Outcome, len(pending))
	guard := newHashGuard()

	for start := 0; start < len(pending); start += concurrency {
		end := min(start+concurrency, len(pending))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int, item PendingUpload) {
				defer wg.Done()
				outcomes[i] = p.processOne(ctx, item, guard)
				agg.Record(outcomes[i])
			}(i, pending[i])
		}
		wg.Wait()
	}

	return outcomes
}

// processOne runs the unit of work for a single pending upload: duplicate
// guard, optional capture info extraction, remote upload, record persistence.
func (p *Pool) processOne(ctx context.Context, item PendingUpload, guard *hashGuard) Outcome {
	if prior, ok := guard.claim(item.ContentHash, item.AssignedID); !ok {
		log.Warn().
			Str("id", item.AssignedID).
			Str("path", item.FilePath).
			Str("duplicateOf", prior).
			Msg("Duplicate content within batch, skipping")
		return Skipped(item.AssignedID, fmt.Sprintf("duplicate of %s", prior))
	}

	var capture *media.CaptureInfo
	if p.Extract != nil {
		info, err := p.Extract(item.FilePath)
		if err != nil {
			log.Warn().Err(err).
				Str("id", item.AssignedID).
				Str("path", item.FilePath).
				Msg("Capture info extraction failed, continuing without it")
		} else {
			capture = info
		}
	}

	asset, err := p.Assets.Upload(ctx, item.FilePath, item.AssignedID, p.Constraints)
	if err != nil {
		log.Error().Err(err).Str("id", item.AssignedID).Str("path", item.FilePath).Msg("Upload failed")
		return Failure(item.AssignedID, fmt.Sprintf("upload: %v", err))
	}

	rec := &store.PhotoRecord{
		ID:          item.AssignedID,
		ImageURL:    asset.URL,
		Width:       asset.Width,
		Height:      asset.Height,
		ContentHash: item.ContentHash,
		Featured:    false,
	}
	if capture != nil {
		rec.Camera = capture.Camera
		rec.Aperture = capture.Aperture
		rec.ShutterSpeed = capture.ShutterSpeed
		rec.ISO = capture.ISO
		rec.ShotDate = store.FormatShotDate(capture.ShotDate)
	}

	if err := p.Store.PutPhoto(ctx, rec); err != nil {
		log.Error().Err(err).Str("id", item.AssignedID).Msg("Record persistence failed")
		return Failure(item.AssignedID, fmt.Sprintf("persist: %v", err))
	}

	log.Debug().
		Str("id", item.AssignedID).
		Str("url", asset.URL).
		Msg("Upload unit complete")
	return Success(item.AssignedID)
}
