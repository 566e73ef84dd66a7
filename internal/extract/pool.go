package extract

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Pool bounds concurrent extractions. OCR and PDF parsing are CPU-bound
// blocking work, so the bound defaults to the number of CPU cores to keep
// a burst of uploads from stalling the request handlers.
type Pool struct {
	sem     *semaphore.Weighted
	workers int
	logger  *zap.Logger
}

func NewPool(workers int, logger *zap.Logger) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{
		sem:     semaphore.NewWeighted(int64(workers)),
		workers: workers,
		logger:  logger,
	}
}

// Extract runs Extract under the pool's concurrency limit. The context
// covers only the wait for a worker slot; extraction itself has no
// network calls to cancel.
func (p *Pool) Extract(ctx context.Context, content []byte, extension string) (string, error) {
	// Cheap rejection before queueing for a slot
	if !Recognized(extension) {
		return "", newError(KindUnsupportedFormat, "unrecognized extension %q", extension)
	}

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer p.sem.Release(1)

	text, err := Extract(content, extension)
	if err != nil {
		p.logger.Warn("Extraction failed",
			zap.String("extension", extension),
			zap.Error(err),
		)
		return "", err
	}

	p.logger.Info("Extraction completed",
		zap.String("extension", extension),
		zap.Int("text_length", len(text)),
	)
	return text, nil
}
