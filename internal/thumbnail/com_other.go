//go:build !windows

package thumbnail

import (
	"context"

	"github.com/constellation/core/internal/domain"
)

type stubWorker struct{}

// NewWorker returns a Worker that reports every request as unsupported.
// Shell thumbnail extraction is a Windows-only facility.
func NewWorker() Worker { return stubWorker{} }

func (stubWorker) Generate(ctx context.Context, path string, size uint32) (rawImage, error) {
	return rawImage{}, domain.New(domain.ThumbnailError, "thumbnail generation is only supported on Windows")
}

func (stubWorker) Close() {}
