// Package pipeline implements the batch upload core: deduplication against
// the metadata store, sequential identifier assignment, windowed concurrent
// upload processing, and progress/failure aggregation.
//
// The pipeline talks to its collaborators through narrow interfaces
// (store.MetadataStore, AssetStore, Extractor) so the concurrency and
// partial-failure semantics can be tested with in-memory fakes.
package pipeline

import (
	"context"

	"github.com/fpang/portfolio-uploader/internal/media"
)

// HashedCandidate is a discovered file plus its content digest. The digest is
// a function of file bytes only, never of path or name.
type HashedCandidate struct {
	FilePath    string
	ContentHash string
}

// PendingUpload is a deduplicated candidate with its assigned identifier.
// Assigned identifiers are unique within a run and strictly increasing in
// processing order.
type PendingUpload struct {
	FilePath    string
	ContentHash string
	AssignedID  string
}

// OutcomeStatus classifies the result of one upload unit.
type OutcomeStatus int

const (
	StatusSuccess OutcomeStatus = iota
	StatusFailure
	StatusSkipped
)

// Outcome is the per-unit result fed to the aggregator. Skipped covers the
// in-run duplicate guard: duplicate content is a skip, never a failure.
type Outcome struct {
	ID     string
	Status OutcomeStatus
	Reason string
}

// Success builds a successful outcome for the given identifier.
func Success(id string) Outcome {
	return Outcome{ID: id, Status: StatusSuccess}
}

// Failure builds a failed outcome with the reason recorded for the summary.
func Failure(id, reason string) Outcome {
	return Outcome{ID: id, Status: StatusFailure, Reason: reason}
}

// Skipped builds a skipped outcome (duplicate content within the batch).
func Skipped(id, reason string) Outcome {
	return Outcome{ID: id, Status: StatusSkipped, Reason: reason}
}

// AssetInfo describes a stored remote asset: its public URL and the final
// dimensions after the size-limiting transformation.
type AssetInfo struct {
	URL    string
	Width  int
	Height int
}

// UploadConstraints carries the transformation rules for one upload.
type UploadConstraints struct {
	// MaxDimension bounds the longer side of the stored image. Larger images
	// are downscaled preserving aspect ratio; images within the bound are
	// stored as-is (never upscaled).
	MaxDimension int
}

// AssetStore accepts a local file plus a desired identifier and returns the
// public URL and final dimensions. Uploads must fail if an asset with the
// same identifier already exists (overwrite disabled).
type AssetStore interface {
	Upload(ctx context.Context, filePath, id string, c UploadConstraints) (*AssetInfo, error)
}

// Extractor returns optional capture attributes for a file. Errors are soft:
// the caller continues with all-absent fields.
type Extractor func(filePath string) (*media.CaptureInfo, error)
