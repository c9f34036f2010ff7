// Package usecase implements the envelope key manager.
//
// The content key that decrypts an artifact is only persisted wrapped under a vault
// master key. Loading never creates a master key: a missing master key on the load path
// means the record can no longer be opened, which surfaces as ErrCryptoFailure.
package usecase

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	cryptoDomain "github.com/allisson/modelguard/internal/crypto/domain"
	envelopeDomain "github.com/allisson/modelguard/internal/envelope/domain"
	apperrors "github.com/allisson/modelguard/internal/errors"
	vaultDomain "github.com/allisson/modelguard/internal/vault/domain"
	vaultUseCase "github.com/allisson/modelguard/internal/vault/usecase"
)

type contentKeyUseCase struct {
	vault  vaultUseCase.Vault
	repo   RecordRepository
	alias  string
	logger *slog.Logger
}

// NewContentKeyUseCase creates a ContentKeyUseCase that wraps keys under the master key named alias.
func NewContentKeyUseCase(
	vault vaultUseCase.Vault,
	repo RecordRepository,
	alias string,
	logger *slog.Logger,
) ContentKeyUseCase {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &contentKeyUseCase{
		vault:  vault,
		repo:   repo,
		alias:  alias,
		logger: logger,
	}
}

// StoreContentKey wraps raw and writes IV || ciphertext || tag over the previous record.
func (c *contentKeyUseCase) StoreContentKey(ctx context.Context, raw []byte) error {
	if !cryptoDomain.ValidContentKeySize(len(raw)) {
		return fmt.Errorf("%w: got %d bytes, want 16, 24 or 32", envelopeDomain.ErrInvalidContentKey, len(raw))
	}

	handle, err := c.vault.EnsureKey(ctx, c.alias)
	if err != nil {
		return apperrors.Join(envelopeDomain.ErrCryptoFailure, err)
	}

	iv, ciphertext, tag, err := c.vault.Wrap(ctx, handle, raw)
	if err != nil {
		return apperrors.Join(envelopeDomain.ErrCryptoFailure, err)
	}

	record := &envelopeDomain.WrappedKeyRecord{IV: iv, Ciphertext: ciphertext, Tag: tag}
	if err := c.repo.Write(ctx, record.Bytes()); err != nil {
		return err
	}

	c.logger.Info("content key stored",
		slog.String("alias", c.alias),
		slog.String("master_key_id", handle.ID.String()),
		slog.Int("key_bytes", len(raw)),
	)
	return nil
}

// StoreEncodedContentKey decodes standard base64 text and stores the key.
func (c *contentKeyUseCase) StoreEncodedContentKey(ctx context.Context, text []byte) error {
	trimmed := bytes.TrimSpace(text)

	raw := make([]byte, base64.StdEncoding.DecodedLen(len(trimmed)))
	defer cryptoDomain.Zero(raw)

	n, err := base64.StdEncoding.Decode(raw, trimmed)
	if err != nil {
		return fmt.Errorf("%w: malformed base64: %v", envelopeDomain.ErrInvalidContentKey, err)
	}

	return c.StoreContentKey(ctx, raw[:n])
}

// LoadContentKey reads and unwraps the record.
func (c *contentKeyUseCase) LoadContentKey(ctx context.Context) (*cryptoDomain.ContentKey, error) {
	data, err := c.repo.Read(ctx)
	if err != nil {
		return nil, err
	}

	record, err := envelopeDomain.ParseWrappedKeyRecord(data)
	if err != nil {
		return nil, err
	}

	handle, err := c.vault.Key(ctx, c.alias)
	if err != nil {
		return nil, apperrors.Join(envelopeDomain.ErrCryptoFailure, err)
	}

	raw, err := c.vault.Unwrap(ctx, handle, record.IV, record.Ciphertext, record.Tag)
	if err != nil {
		if apperrors.Is(err, vaultDomain.ErrAuthenticationFailed) {
			return nil, apperrors.Join(envelopeDomain.ErrIntegrityViolation, err)
		}
		return nil, apperrors.Join(envelopeDomain.ErrCryptoFailure, err)
	}
	defer cryptoDomain.Zero(raw)

	key, err := cryptoDomain.NewContentKey(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: unwrapped key has %d bytes", envelopeDomain.ErrRecordCorrupt, len(raw))
	}
	return key, nil
}
