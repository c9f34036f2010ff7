package usecase

import (
	"context"
	"time"

	cryptoDomain "github.com/allisson/modelguard/internal/crypto/domain"
	"github.com/allisson/modelguard/internal/metrics"
)

// contentKeyUseCaseWithMetrics decorates ContentKeyUseCase with metrics instrumentation.
type contentKeyUseCaseWithMetrics struct {
	next    ContentKeyUseCase
	metrics metrics.BusinessMetrics
}

// NewContentKeyUseCaseWithMetrics wraps a ContentKeyUseCase with metrics recording.
func NewContentKeyUseCaseWithMetrics(useCase ContentKeyUseCase, m metrics.BusinessMetrics) ContentKeyUseCase {
	return &contentKeyUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// StoreContentKey records metrics for content key storage.
func (c *contentKeyUseCaseWithMetrics) StoreContentKey(ctx context.Context, raw []byte) error {
	start := time.Now()
	err := c.next.StoreContentKey(ctx, raw)
	c.record(ctx, "content_key_store", start, err)
	return err
}

// StoreEncodedContentKey records metrics for encoded content key storage.
func (c *contentKeyUseCaseWithMetrics) StoreEncodedContentKey(ctx context.Context, text []byte) error {
	start := time.Now()
	err := c.next.StoreEncodedContentKey(ctx, text)
	c.record(ctx, "content_key_store_encoded", start, err)
	return err
}

// LoadContentKey records metrics for content key loading.
func (c *contentKeyUseCaseWithMetrics) LoadContentKey(ctx context.Context) (*cryptoDomain.ContentKey, error) {
	start := time.Now()
	key, err := c.next.LoadContentKey(ctx)
	c.record(ctx, "content_key_load", start, err)
	return key, err
}

func (c *contentKeyUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusOf(err)
	c.metrics.RecordOperation(ctx, "envelope", operation, status)
	c.metrics.RecordDuration(ctx, "envelope", operation, time.Since(start), status)
}
