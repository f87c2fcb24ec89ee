package thumbnail

import (
	"bytes"
	"image"

	"github.com/HugoSmits86/nativewebp"

	"github.com/constellation/core/internal/domain"
)

// encodeWebP encodes a raw RGBA buffer as a lossless WebP image.
func encodeWebP(img rawImage) ([]byte, error) {
	nrgba := &image.NRGBA{
		Pix:    img.rgba,
		Stride: int(img.width) * 4,
		Rect:   image.Rect(0, 0, int(img.width), int(img.height)),
	}

	var buf bytes.Buffer
	if err := nativewebp.Encode(&buf, nrgba, nil); err != nil {
		return nil, domain.New(domain.ThumbnailError, "encode webp: %v", err)
	}
	return buf.Bytes(), nil
}
