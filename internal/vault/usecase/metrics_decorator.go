package usecase

import (
	"context"
	"time"

	"github.com/allisson/modelguard/internal/metrics"
	vaultDomain "github.com/allisson/modelguard/internal/vault/domain"
)

// vaultWithMetrics decorates Vault with metrics instrumentation.
type vaultWithMetrics struct {
	next    Vault
	metrics metrics.BusinessMetrics
}

// NewVaultWithMetrics wraps a Vault with metrics recording.
func NewVaultWithMetrics(vault Vault, m metrics.BusinessMetrics) Vault {
	return &vaultWithMetrics{
		next:    vault,
		metrics: m,
	}
}

// EnsureKey records metrics for master key provisioning.
func (v *vaultWithMetrics) EnsureKey(ctx context.Context, alias string) (vaultDomain.KeyHandle, error) {
	start := time.Now()
	handle, err := v.next.EnsureKey(ctx, alias)
	v.record(ctx, "vault_ensure_key", start, err)
	return handle, err
}

// Key records metrics for master key lookups.
func (v *vaultWithMetrics) Key(ctx context.Context, alias string) (vaultDomain.KeyHandle, error) {
	start := time.Now()
	handle, err := v.next.Key(ctx, alias)
	v.record(ctx, "vault_key", start, err)
	return handle, err
}

// Wrap records metrics for wrap operations.
func (v *vaultWithMetrics) Wrap(
	ctx context.Context,
	handle vaultDomain.KeyHandle,
	plaintext []byte,
) (iv, ciphertext, tag []byte, err error) {
	start := time.Now()
	iv, ciphertext, tag, err = v.next.Wrap(ctx, handle, plaintext)
	v.record(ctx, "vault_wrap", start, err)
	return iv, ciphertext, tag, err
}

// Unwrap records metrics for unwrap operations.
func (v *vaultWithMetrics) Unwrap(
	ctx context.Context,
	handle vaultDomain.KeyHandle,
	iv, ciphertext, tag []byte,
) ([]byte, error) {
	start := time.Now()
	plaintext, err := v.next.Unwrap(ctx, handle, iv, ciphertext, tag)
	v.record(ctx, "vault_unwrap", start, err)
	return plaintext, err
}

// Close delegates without recording.
func (v *vaultWithMetrics) Close() error {
	return v.next.Close()
}

func (v *vaultWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusOf(err)
	v.metrics.RecordOperation(ctx, "vault", operation, status)
	v.metrics.RecordDuration(ctx, "vault", operation, time.Since(start), status)
}
