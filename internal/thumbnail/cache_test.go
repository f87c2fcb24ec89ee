package thumbnail

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKey_Deterministic(t *testing.T) {
	a := CacheKey(`C:\foo.jpg`, 100, 2048, 256)
	b := CacheKey(`C:\foo.jpg`, 100, 2048, 256)
	assert.Equal(t, a, b)
}

func TestCacheKey_ChangesWithInputs(t *testing.T) {
	base := CacheKey(`C:\foo.jpg`, 100, 2048, 256)
	assert.NotEqual(t, base, CacheKey(`C:\foo.jpg`, 101, 2048, 256))
	assert.NotEqual(t, base, CacheKey(`C:\foo.jpg`, 100, 4096, 256))
	assert.NotEqual(t, base, CacheKey(`C:\foo.jpg`, 100, 2048, 64))
	assert.NotEqual(t, base, CacheKey(`C:\bar.jpg`, 100, 2048, 256))
}

func TestCache_PutGetRoundTrip(t *testing.T) {
	c := NewCache(t.TempDir())
	hash := CacheKey(`C:\foo.jpg`, 100, 2048, 256)

	_, ok, err := c.Get(hash)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(hash, []byte("webp-bytes")))

	data, ok, err := c.Get(hash)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("webp-bytes"), data)
}

func TestCache_TotalSizeAndFileCount(t *testing.T) {
	c := NewCache(t.TempDir())
	require.NoError(t, c.Put("aa1111", []byte("12345")))
	require.NoError(t, c.Put("bb2222", []byte("1234567890")))

	total, err := c.TotalSize()
	require.NoError(t, err)
	assert.Equal(t, uint64(15), total)

	count, err := c.FileCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)
}

func TestCache_Clear(t *testing.T) {
	c := NewCache(t.TempDir())
	require.NoError(t, c.Put("aa1111", []byte("12345")))

	freed, err := c.Clear()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), freed)

	count, err := c.FileCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestCache_EvictToLimit_RemovesOldestFirst(t *testing.T) {
	c := NewCache(t.TempDir())
	require.NoError(t, c.Put("aa1111", []byte("12345"))) // 5 bytes, older
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, c.Put("bb2222", []byte("1234567890"))) // 10 bytes, newer

	freed, err := c.EvictToLimit(10)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), freed)

	_, ok, err := c.Get("aa1111")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = c.Get("bb2222")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCache_EvictToLimit_NoopUnderLimit(t *testing.T) {
	c := NewCache(t.TempDir())
	require.NoError(t, c.Put("aa1111", []byte("12345")))

	freed, err := c.EvictToLimit(1024)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), freed)
}
