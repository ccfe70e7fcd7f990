package pipeline

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// SeedFromMaxID derives the next free numeric suffix from the store's
// maximal existing identifier. An empty maxID, or one that does not match
// the PREFIX-<digits> pattern, seeds the namespace at 0.
func SeedFromMaxID(maxID, prefix string) int {
	if maxID == "" {
		return 0
	}

	pattern := regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + `-(\d+)$`)
	m := pattern.FindStringSubmatch(maxID)
	if m == nil {
		return 0
	}

	suffix, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return suffix + 1
}

// FormatID renders the identifier for numeric suffix n. The pad width is a
// minimum: suffixes wider than padWidth are never truncated.
func FormatID(prefix string, n, padWidth int) string {
	return fmt.Sprintf("%s-%0*d", prefix, padWidth, n)
}

// Assign sorts the deduplicated candidates by discovery path (lexicographic,
// case-sensitive) and assigns contiguous identifiers starting at seed. The
// order is fixed here, before any concurrent work begins, so assignments are
// deterministic regardless of which upload finishes first.
func Assign(candidates []HashedCandidate, prefix string, seed, padWidth int) []PendingUpload {
	sorted := make([]HashedCandidate, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].FilePath < sorted[j].FilePath
	})

	pending := make([]PendingUpload, len(sorted))
	for k, c := range sorted {
		pending[k] = PendingUpload{
			FilePath:    c.FilePath,
			ContentHash: c.ContentHash,
			AssignedID:  FormatID(prefix, seed+k, padWidth),
		}
	}
	return pending
}
