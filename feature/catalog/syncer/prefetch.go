package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"sync"

	"catalog-mirror/core/reconcile"
	"catalog-mirror/core/remote"
	"catalog-mirror/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const artistsSnapshot = "artists.json"

func offersSnapshot(artistID int64) string {
	return fmt.Sprintf("offers-%d.json", artistID)
}

// SnapshotKeys returns the object keys a prefetching run reads for the given artists.
func SnapshotKeys(prefix string, artistIDs []int64) []string {
	keys := []string{path.Join(prefix, artistsSnapshot)}
	for _, id := range artistIDs {
		keys = append(keys, path.Join(prefix, offersSnapshot(id)))
	}
	return keys
}

// SnapshotSource is a remote.Client that serves artist and offer pages from JSON snapshots in
// object storage. A missing snapshot falls back to the wrapped client. Orders, SKUs and the
// auth probe always go to the wrapped client.
type SnapshotSource struct {
	remote.Client

	store    storage.Client
	bucket   string
	prefix   string
	prefetch bool
	snapshot bool
	logger   *zap.Logger

	mu       sync.Mutex
	loaded   map[string][]json.RawMessage
	recorded map[string][]json.RawMessage
}

// NewSnapshotSource wraps client with the snapshot behaviour selected by cfg.
func NewSnapshotSource(client remote.Client, store storage.Client, bucket string, cfg reconcile.Config, logger *zap.Logger) *SnapshotSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotSource{
		Client:   client,
		store:    store,
		bucket:   bucket,
		prefix:   cfg.SnapshotPrefix,
		prefetch: cfg.Prefetch,
		snapshot: cfg.Snapshot,
		logger:   logger,
		loaded:   make(map[string][]json.RawMessage),
		recorded: make(map[string][]json.RawMessage),
	}
}

func (s *SnapshotSource) ListArtists(ctx context.Context, page int) (*remote.ArtistPage, error) {
	out := &remote.ArtistPage{}
	ok, err := s.fromSnapshot(ctx, artistsSnapshot, page, out)
	if err != nil {
		return nil, err
	}
	if ok {
		return out, nil
	}
	p, err := s.Client.ListArtists(ctx, page)
	if err != nil {
		return nil, err
	}
	s.record(artistsSnapshot, page, p)
	return p, nil
}

func (s *SnapshotSource) ListOffers(ctx context.Context, artistID int64, page int) (*remote.OfferPage, error) {
	key := offersSnapshot(artistID)
	out := &remote.OfferPage{}
	ok, err := s.fromSnapshot(ctx, key, page, out)
	if err != nil {
		return nil, err
	}
	if ok {
		return out, nil
	}
	p, err := s.Client.ListOffers(ctx, artistID, page)
	if err != nil {
		return nil, err
	}
	s.record(key, page, p)
	return p, nil
}

// fromSnapshot decodes page of the named snapshot into out. It reports false when prefetching
// is off or no snapshot exists, in which case the caller asks the remote API.
func (s *SnapshotSource) fromSnapshot(ctx context.Context, name string, page int, out any) (bool, error) {
	if !s.prefetch {
		return false, nil
	}
	pages, err := s.load(ctx, name)
	if err != nil {
		return false, err
	}
	if pages == nil {
		return false, nil
	}
	if page < 1 || page > len(pages) {
		return false, fmt.Errorf("snapshot %s has no page %d", name, page)
	}
	if err := json.Unmarshal(pages[page-1], out); err != nil {
		return false, fmt.Errorf("failed to decode snapshot %s page %d: %w", name, page, err)
	}
	return true, nil
}

func (s *SnapshotSource) load(ctx context.Context, name string) ([]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pages, ok := s.loaded[name]; ok {
		return pages, nil
	}

	key := path.Join(s.prefix, name)
	obj, err := s.store.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err == nil {
		defer obj.Close()
		var data []byte
		data, err = io.ReadAll(obj)
		if err == nil {
			var pages []json.RawMessage
			if err := json.Unmarshal(data, &pages); err != nil {
				return nil, fmt.Errorf("failed to decode snapshot %s: %w", key, err)
			}
			s.loaded[name] = pages
			s.logger.Debug("Snapshot loaded", zap.String("key", key), zap.Int("pages", len(pages)))
			return pages, nil
		}
	}
	if storage.IsNotFound(err) {
		s.logger.Info("No snapshot stored, using remote API", zap.String("key", key))
		s.loaded[name] = nil
		return nil, nil
	}
	return nil, fmt.Errorf("failed to read snapshot %s: %w", key, err)
}

func (s *SnapshotSource) record(name string, page int, v any) {
	if !s.snapshot {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("Failed to encode page for snapshot", zap.String("snapshot", name), zap.Error(err))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	pages := s.recorded[name]
	for len(pages) < page {
		pages = append(pages, nil)
	}
	pages[page-1] = data
	s.recorded[name] = pages
}

// Discard drops pages recorded by an unfinished run and forgets loaded snapshots.
func (s *SnapshotSource) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorded = make(map[string][]json.RawMessage)
	s.loaded = make(map[string][]json.RawMessage)
}

// Flush writes every fully recorded snapshot to storage.
func (s *SnapshotSource) Flush(ctx context.Context) error {
	s.mu.Lock()
	recorded := s.recorded
	s.recorded = make(map[string][]json.RawMessage)
	s.mu.Unlock()

	for name, pages := range recorded {
		if !complete(pages) {
			s.logger.Warn("Skipping incomplete snapshot", zap.String("snapshot", name))
			continue
		}
		data, err := json.Marshal(pages)
		if err != nil {
			return fmt.Errorf("failed to encode snapshot %s: %w", name, err)
		}
		key := path.Join(s.prefix, name)
		_, err = s.store.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
			minio.PutObjectOptions{ContentType: "application/json"})
		if err != nil {
			return fmt.Errorf("failed to write snapshot %s: %w", key, err)
		}
		s.logger.Info("Snapshot written", zap.String("key", key), zap.Int("pages", len(pages)))
	}
	return nil
}

func complete(pages []json.RawMessage) bool {
	for _, p := range pages {
		if p == nil {
			return false
		}
	}
	return len(pages) > 0
}
