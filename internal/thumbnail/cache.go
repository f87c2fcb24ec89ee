// Package thumbnail generates and caches file thumbnails via the Windows
// Shell thumbnail handlers, encoded to WebP.
package thumbnail

import (
	"encoding/binary"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"time"

	"lukechampine.com/blake3"
)

// Cache is a disk-backed LRU thumbnail cache keyed by blake3 hash,
// grounded on cache.rs. Entries live at {baseDir}/<hh>/<hash>.webp so no
// single directory holds more than ~1/256th of the cache.
type Cache struct {
	baseDir string
}

// NewCache returns a Cache rooted at baseDir.
func NewCache(baseDir string) *Cache {
	return &Cache{baseDir: baseDir}
}

// CacheKey derives a cache key from the source file's identity (path,
// mtime, size) and the requested thumbnail size, so a changed file
// automatically invalidates its old entry.
func CacheKey(path string, mtime int64, fileSize uint64, thumbSize uint32) string {
	h := blake3.New(32, nil)
	h.Write([]byte(path))
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(mtime))
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], fileSize)
	h.Write(buf[:])
	var sizeBuf [4]byte
	binary.LittleEndian.PutUint32(sizeBuf[:], thumbSize)
	h.Write(sizeBuf[:])
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) path(hash string) string {
	return filepath.Join(c.baseDir, hash[:2], hash+".webp")
}

// Get returns the cached WebP bytes for hash, or ok=false on a miss. A
// hit touches the file's mtime for LRU tracking.
func (c *Cache) Get(hash string) (data []byte, ok bool, err error) {
	p := c.path(hash)
	data, err = os.ReadFile(p)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	now := time.Now()
	_ = os.Chtimes(p, now, now)
	return data, true, nil
}

// Put stores webpData under hash, creating its shard directory as
// needed.
func (c *Cache) Put(hash string, webpData []byte) error {
	p := c.path(hash)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, webpData, 0o644)
}

// Clear deletes every cached thumbnail and returns the bytes freed.
func (c *Cache) Clear() (freed uint64, err error) {
	freed, err = c.TotalSize()
	if err != nil {
		return 0, err
	}
	if _, statErr := os.Stat(c.baseDir); statErr == nil {
		if err := os.RemoveAll(c.baseDir); err != nil {
			return 0, err
		}
	}
	return freed, nil
}

// TotalSize returns the total size in bytes of every cached file.
func (c *Cache) TotalSize() (uint64, error) {
	var total uint64
	err := c.visitFiles(func(path string, info os.FileInfo) {
		total += uint64(info.Size())
	})
	return total, err
}

// FileCount returns the number of cached files.
func (c *Cache) FileCount() (uint64, error) {
	var count uint64
	err := c.visitFiles(func(path string, info os.FileInfo) {
		count++
	})
	return count, err
}

// EvictToLimit deletes the oldest cache entries (by mtime) until the
// total cache size is at or below maxBytes, returning the bytes freed.
func (c *Cache) EvictToLimit(maxBytes uint64) (uint64, error) {
	if maxBytes == 0 {
		return 0, nil
	}
	if _, err := os.Stat(c.baseDir); os.IsNotExist(err) {
		return 0, nil
	}

	current, err := c.TotalSize()
	if err != nil {
		return 0, err
	}
	if current <= maxBytes {
		return 0, nil
	}

	type entry struct {
		path  string
		size  uint64
		mtime time.Time
	}
	var entries []entry
	err = c.visitFiles(func(path string, info os.FileInfo) {
		entries = append(entries, entry{path: path, size: uint64(info.Size()), mtime: info.ModTime()})
	})
	if err != nil {
		return 0, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].mtime.Before(entries[j].mtime) })

	target := current - maxBytes
	var freed uint64
	for _, e := range entries {
		if freed >= target {
			break
		}
		if err := os.Remove(e.path); err == nil {
			freed += e.size
		}
	}

	c.cleanupEmptyDirs(c.baseDir)
	return freed, nil
}

func (c *Cache) visitFiles(f func(path string, info os.FileInfo)) error {
	if _, err := os.Stat(c.baseDir); os.IsNotExist(err) {
		return nil
	}
	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		return err
	}
	return walkDir(c.baseDir, entries, f)
}

func walkDir(dir string, entries []os.DirEntry, f func(path string, info os.FileInfo)) error {
	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		if e.IsDir() {
			sub, err := os.ReadDir(p)
			if err != nil {
				return err
			}
			if err := walkDir(p, sub, f); err != nil {
				return err
			}
			continue
		}
		info, err := e.Info()
		if err != nil {
			return err
		}
		f(p, info)
	}
	return nil
}

func (c *Cache) cleanupEmptyDirs(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		p := filepath.Join(dir, e.Name())
		c.cleanupEmptyDirs(p)
		_ = os.Remove(p)
	}
}
