package thumbnail

import "context"

// rawImage is the BGRA→RGBA-converted pixel buffer for one generated
// thumbnail, before WebP encoding.
type rawImage struct {
	rgba   []byte
	width  uint32
	height uint32
}

// Worker generates raw thumbnail pixels for a file, typically on a
// dedicated COM apartment thread.
type Worker interface {
	Generate(ctx context.Context, path string, size uint32) (rawImage, error)
	Close()
}
