package usecase

import (
	"context"
	"os"
	"time"

	cryptoDomain "github.com/allisson/modelguard/internal/crypto/domain"
	"github.com/allisson/modelguard/internal/metrics"
)

// engineWithMetrics decorates Engine with metrics instrumentation.
// Engine calls carry no context, so measurements are recorded under context.Background.
type engineWithMetrics struct {
	next    Engine
	metrics metrics.BusinessMetrics
}

// NewEngineWithMetrics wraps an Engine with metrics recording.
func NewEngineWithMetrics(engine Engine, m metrics.BusinessMetrics) Engine {
	return &engineWithMetrics{
		next:    engine,
		metrics: m,
	}
}

// Decrypt records metrics for artifact decryption.
func (e *engineWithMetrics) Decrypt(key *cryptoDomain.ContentKey, artifactPath string) (string, error) {
	start := time.Now()
	path, err := e.next.Decrypt(key, artifactPath)
	e.record("artifact_decrypt", artifactPath, start, err)
	return path, err
}

// DecryptTo records metrics for artifact decryption to a chosen path.
func (e *engineWithMetrics) DecryptTo(key *cryptoDomain.ContentKey, artifactPath, destinationPath string) error {
	start := time.Now()
	err := e.next.DecryptTo(key, artifactPath, destinationPath)
	e.record("artifact_decrypt", artifactPath, start, err)
	return err
}

// Encrypt records metrics for artifact encryption.
func (e *engineWithMetrics) Encrypt(key *cryptoDomain.ContentKey, plaintextPath, destinationPath string) error {
	start := time.Now()
	err := e.next.Encrypt(key, plaintextPath, destinationPath)
	e.record("artifact_encrypt", plaintextPath, start, err)
	return err
}

// record reports the operation and, on success, the size of the file it read.
func (e *engineWithMetrics) record(operation, inputPath string, start time.Time, err error) {
	ctx := context.Background()
	status := metrics.StatusOf(err)

	e.metrics.RecordOperation(ctx, "artifact", operation, status)
	e.metrics.RecordDuration(ctx, "artifact", operation, time.Since(start), status)

	if err != nil {
		return
	}
	if info, statErr := os.Stat(inputPath); statErr == nil {
		e.metrics.RecordBytes(ctx, "artifact", operation, info.Size())
	}
}
