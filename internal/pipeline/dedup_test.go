package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/fpang/portfolio-uploader/internal/store"
)

func TestFilterNewDropsKnownHashes(t *testing.T) {
	st := newFakeStore()
	st.records["IMG-0001"] = &store.PhotoRecord{ID: "IMG-0001", ContentHash: "known"}

	candidates := []HashedCandidate{
		{FilePath: "a.jpg", ContentHash: "fresh1"},
		{FilePath: "b.jpg", ContentHash: "known"},
		{FilePath: "c.jpg", ContentHash: "fresh2"},
	}

	survivors, err := FilterNew(context.Background(), st, candidates)
	if err != nil {
		t.Fatalf("FilterNew returned error: %v", err)
	}

	if len(survivors) != 2 {
		t.Fatalf("got %d survivors, want 2", len(survivors))
	}
	if survivors[0].FilePath != "a.jpg" || survivors[1].FilePath != "c.jpg" {
		t.Errorf("survivor order not preserved: %+v", survivors)
	}
}

func TestFilterNewKeepsAllWhenStoreEmpty(t *testing.T) {
	st := newFakeStore()
	candidates := []HashedCandidate{
		{FilePath: "a.jpg", ContentHash: "h1"},
		{FilePath: "b.jpg", ContentHash: "h2"},
	}

	survivors, err := FilterNew(context.Background(), st, candidates)
	if err != nil {
		t.Fatalf("FilterNew returned error: %v", err)
	}
	if len(survivors) != len(candidates) {
		t.Errorf("got %d survivors, want %d", len(survivors), len(candidates))
	}
}

func TestFilterNewAbortsOnQueryError(t *testing.T) {
	st := newFakeStore()
	st.hashErr = errors.New("table unreachable")

	candidates := []HashedCandidate{{FilePath: "a.jpg", ContentHash: "h1"}}

	survivors, err := FilterNew(context.Background(), st, candidates)
	if err == nil {
		t.Fatal("FilterNew did not propagate the store error")
	}
	if survivors != nil {
		t.Errorf("got survivors %+v alongside an error, want nil", survivors)
	}
	if !errors.Is(err, st.hashErr) {
		t.Errorf("error %v does not wrap the store error", err)
	}
}
