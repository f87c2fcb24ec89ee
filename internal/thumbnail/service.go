package thumbnail

import (
	"context"
	"log/slog"
	"path/filepath"
	"strconv"

	"golang.org/x/sync/semaphore"

	"github.com/constellation/core/internal/settings"
)

const defaultMaxCacheMB = 500

// concurrentGenerations bounds how many thumbnail requests may be
// in flight at once, independent of the single-threaded COM worker's
// own request queue (§5).
const concurrentGenerations = 4

// CacheStats describes the current state of the thumbnail disk cache.
type CacheStats struct {
	TotalSizeBytes uint64
	FileCount      uint64
	MaxSizeBytes   uint64
}

// Service orchestrates thumbnail generation: cache lookup, worker
// dispatch, and best-effort cache population. Grounded on
// thumbnail_service.rs.
type Service struct {
	cache    *Cache
	worker   Worker
	sem      *semaphore.Weighted
	settings *settings.Service
	log      *slog.Logger
}

// New returns a Service storing thumbnails under {appDataDir}/thumbnails.
func New(appDataDir string, settingsSvc *settings.Service, log *slog.Logger) *Service {
	return &Service{
		cache:    NewCache(filepath.Join(appDataDir, "thumbnails")),
		worker:   NewWorker(),
		sem:      semaphore.NewWeighted(concurrentGenerations),
		settings: settingsSvc,
		log:      log,
	}
}

// Close releases the COM worker thread.
func (s *Service) Close() { s.worker.Close() }

// GetThumbnail returns WebP-encoded thumbnail bytes for path, generating
// and caching it if not already cached. mtime/fileSize/thumbSize feed the
// cache key so a changed file or a different requested size misses.
func (s *Service) GetThumbnail(ctx context.Context, path string, mtime int64, fileSize uint64, thumbSize uint32) ([]byte, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)

	forceShell := s.forceShellCache(ctx)

	var hash string
	if !forceShell {
		hash = CacheKey(path, mtime, fileSize, thumbSize)
		if data, ok, err := s.cache.Get(hash); err != nil {
			return nil, err
		} else if ok {
			return data, nil
		}
	}

	img, err := s.worker.Generate(ctx, path, thumbSize)
	if err != nil {
		return nil, err
	}
	webp, err := encodeWebP(img)
	if err != nil {
		return nil, err
	}

	if !forceShell {
		if err := s.cache.Put(hash, webp); err != nil && s.log != nil {
			s.log.Warn("thumbnail: cache write failed", "path", path, "error", err)
		}
	}

	return webp, nil
}

// ClearCache deletes every cached thumbnail.
func (s *Service) ClearCache(ctx context.Context) (CacheStats, error) {
	if _, err := s.cache.Clear(); err != nil {
		return CacheStats{}, err
	}
	return CacheStats{MaxSizeBytes: s.cacheMaxBytes(ctx)}, nil
}

// CacheStatsNow reports the current size and entry count of the cache.
func (s *Service) CacheStatsNow(ctx context.Context) (CacheStats, error) {
	total, err := s.cache.TotalSize()
	if err != nil {
		return CacheStats{}, err
	}
	count, err := s.cache.FileCount()
	if err != nil {
		return CacheStats{}, err
	}
	return CacheStats{TotalSizeBytes: total, FileCount: count, MaxSizeBytes: s.cacheMaxBytes(ctx)}, nil
}

// EvictCache deletes the oldest cache entries until the cache is under
// its configured size limit, returning the bytes freed.
func (s *Service) EvictCache(ctx context.Context) (uint64, error) {
	return s.cache.EvictToLimit(s.cacheMaxBytes(ctx))
}

func (s *Service) forceShellCache(ctx context.Context) bool {
	val, ok, err := s.settings.Get(ctx, "thumbnail_force_shell_cache")
	if err != nil || !ok {
		return false
	}
	return val == "true"
}

func (s *Service) cacheMaxBytes(ctx context.Context) uint64 {
	val, ok, err := s.settings.Get(ctx, "thumbnail_cache_max_mb")
	if err != nil || !ok {
		return defaultMaxCacheMB * 1024 * 1024
	}
	mb, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return defaultMaxCacheMB * 1024 * 1024
	}
	return mb * 1024 * 1024
}
