package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/fpang/portfolio-uploader/internal/media"
	"github.com/fpang/portfolio-uploader/internal/store"
)

// fakeStore is an in-memory MetadataStore with injectable failures.
type fakeStore struct {
	mu      sync.Mutex
	records map[string]*store.PhotoRecord
	maxID   string

	hashErr error
	maxErr  error
	putErr  map[string]error // per-identifier
}

var _ store.MetadataStore = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		records: make(map[string]*store.PhotoRecord),
		putErr:  make(map[string]error),
	}
}

func (f *fakeStore) HashExists(ctx context.Context, contentHash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hashErr != nil {
		return false, f.hashErr
	}
	for _, rec := range f.records {
		if rec.ContentHash == contentHash {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) MaxAssignedID(ctx context.Context, prefix string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.maxErr != nil {
		return "", f.maxErr
	}
	pattern := regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + `-\d+$`)
	var max string
	if pattern.MatchString(f.maxID) {
		max = f.maxID
	}
	for id := range f.records {
		if pattern.MatchString(id) && id > max {
			max = id
		}
	}
	return max, nil
}

func (f *fakeStore) PutPhoto(ctx context.Context, rec *store.PhotoRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.putErr[rec.ID]; err != nil {
		return err
	}
	cp := *rec
	f.records[rec.ID] = &cp
	return nil
}

func (f *fakeStore) SetFeatured(ctx context.Context, id string, featured bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok {
		return fmt.Errorf("photo %s not found", id)
	}
	rec.Featured = featured
	return nil
}

func (f *fakeStore) ClearFeatured(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cleared := 0
	for _, rec := range f.records {
		if rec.Featured {
			rec.Featured = false
			cleared++
		}
	}
	return cleared, nil
}

func (f *fakeStore) DeleteAll(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.records)
	f.records = make(map[string]*store.PhotoRecord)
	return n, nil
}

func (f *fakeStore) record(id string) *store.PhotoRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[id]
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

// fakeAssets is an in-memory AssetStore that records uploads and tracks call
// timing for concurrency assertions.
type fakeAssets struct {
	mu      sync.Mutex
	uploads map[string]string // identifier -> file path
	starts  map[string]time.Time
	ends    map[string]time.Time
	failIDs map[string]bool
	delay   time.Duration
}

var _ AssetStore = (*fakeAssets)(nil)

func newFakeAssets() *fakeAssets {
	return &fakeAssets{
		uploads: make(map[string]string),
		starts:  make(map[string]time.Time),
		ends:    make(map[string]time.Time),
		failIDs: make(map[string]bool),
	}
}

func (f *fakeAssets) Upload(ctx context.Context, filePath, id string, c UploadConstraints) (*AssetInfo, error) {
	f.mu.Lock()
	f.starts[id] = time.Now()
	fail := f.failIDs[id]
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.ends[id] = time.Now()

	if fail {
		return nil, fmt.Errorf("simulated upload error for %s", id)
	}

	f.uploads[id] = filePath
	return &AssetInfo{
		URL:    "https://cdn.example.test/" + id,
		Width:  1200,
		Height: 800,
	}, nil
}

func (f *fakeAssets) uploaded(id string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path, ok := f.uploads[id]
	return path, ok
}

// staticExtractor returns the same capture info for every path.
func staticExtractor(info *media.CaptureInfo) Extractor {
	return func(string) (*media.CaptureInfo, error) {
		return info, nil
	}
}

// failingExtractor always errors.
func failingExtractor() Extractor {
	return func(path string) (*media.CaptureInfo, error) {
		return nil, fmt.Errorf("no EXIF in %s", path)
	}
}
