// Package store provides persistent photo record storage. It uses a
// single-table DynamoDB design where every photo shares the fixed partition
// key PHOTO and the sort key is the assigned identifier (e.g. IMG-0042), so
// a descending Query yields the maximal identifier directly. A global
// secondary index on contentHash serves deduplication lookups.
package store

import (
	"context"
	"time"
)

// MetadataStore defines the persistence interface for photo records.
// Each method is safe for concurrent use. Implementations must handle
// context cancellation and propagate errors with sufficient detail for
// debugging.
type MetadataStore interface {
	// HashExists reports whether any persisted record carries the given
	// content hash.
	HashExists(ctx context.Context, contentHash string) (bool, error)

	// MaxAssignedID returns the lexicographically-maximal identifier matching
	// <prefix>-<digits>, or "" when the store holds none. Rows under other
	// prefixes never influence the result.
	MaxAssignedID(ctx context.Context, prefix string) (string, error)

	// PutPhoto creates or replaces a photo record keyed by its ID.
	PutPhoto(ctx context.Context, rec *PhotoRecord) error

	// SetFeatured updates the featured flag of a single record.
	SetFeatured(ctx context.Context, id string, featured bool) error

	// ClearFeatured unsets the featured flag on every record carrying it and
	// returns how many records were updated.
	ClearFeatured(ctx context.Context) (int, error)

	// DeleteAll removes every photo record and returns how many were deleted.
	DeleteAll(ctx context.Context) (int, error)
}

// PhotoRecord is the persisted document for one uploaded photo. The ID field
// doubles as the external-facing title (format PREFIX-DDDD) and is derived
// from the sort key on read.
type PhotoRecord struct {
	ID           string `json:"id" dynamodbav:"-"`
	ImageURL     string `json:"imageUrl" dynamodbav:"imageUrl"`
	Width        int    `json:"width" dynamodbav:"width"`
	Height       int    `json:"height" dynamodbav:"height"`
	Camera       string `json:"camera,omitempty" dynamodbav:"camera,omitempty"`
	Aperture     string `json:"aperture,omitempty" dynamodbav:"aperture,omitempty"`
	ShutterSpeed string `json:"shutterSpeed,omitempty" dynamodbav:"shutterSpeed,omitempty"`
	ISO          int    `json:"iso,omitempty" dynamodbav:"iso,omitempty"`
	ShotDate     string `json:"shotDate,omitempty" dynamodbav:"shotDate,omitempty"`
	ContentHash  string `json:"contentHash" dynamodbav:"contentHash"`
	Featured     bool   `json:"featured" dynamodbav:"featured"`
}

// FormatShotDate renders a capture timestamp for persistence. The zero value
// yields "" (field absent).
func FormatShotDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
