package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/modelguard/internal/crypto/domain"
)

// MaxAliasLength bounds alias names. Aliases double as file names in the file key store.
const MaxAliasLength = 255

var aliasPattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.\-]*$`)

// MasterKeyEntry is the persisted form of a master key. The key material is only
// present sealed by the KMS keeper; it never reaches the store in plaintext.
type MasterKeyEntry struct {
	ID        uuid.UUID              `json:"id"`
	Alias     string                 `json:"alias"`
	Algorithm cryptoDomain.Algorithm `json:"algorithm"`
	SealedKey []byte                 `json:"sealed_key"`
	CreatedAt time.Time              `json:"created_at"`
}

// Handle returns the public reference to the entry.
func (e *MasterKeyEntry) Handle() KeyHandle {
	return KeyHandle{
		ID:        e.ID,
		Alias:     e.Alias,
		Algorithm: e.Algorithm,
	}
}

// KeyHandle is an opaque reference to a master key held by the vault.
// It carries no key material and is safe to log.
type KeyHandle struct {
	ID        uuid.UUID
	Alias     string
	Algorithm cryptoDomain.Algorithm
}

// ValidateAlias checks that alias is usable as a key store name.
func ValidateAlias(alias string) error {
	if alias == "" || len(alias) > MaxAliasLength || !aliasPattern.MatchString(alias) {
		return ErrInvalidAlias
	}
	return nil
}
