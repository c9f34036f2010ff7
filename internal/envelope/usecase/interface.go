package usecase

import (
	"context"

	cryptoDomain "github.com/allisson/modelguard/internal/crypto/domain"
)

// RecordRepository persists the single wrapped key record.
type RecordRepository interface {
	// Read returns the record bytes or ErrRecordMissing.
	Read(ctx context.Context) ([]byte, error)

	// Write atomically replaces the record.
	Write(ctx context.Context, data []byte) error
}

// ContentKeyUseCase keeps the artifact content key at rest wrapped under the vault's master key.
type ContentKeyUseCase interface {
	// StoreContentKey wraps raw under the master key and replaces the record.
	StoreContentKey(ctx context.Context, raw []byte) error

	// StoreEncodedContentKey decodes base64 text (surrounding whitespace ignored) and
	// stores the resulting key. The decoded bytes are zeroed before returning.
	StoreEncodedContentKey(ctx context.Context, text []byte) error

	// LoadContentKey unwraps the stored record. The caller must Zero the returned key.
	LoadContentKey(ctx context.Context) (*cryptoDomain.ContentKey, error)
}
