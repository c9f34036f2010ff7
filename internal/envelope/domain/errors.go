// Package domain defines the envelope key manager models and errors.
package domain

import (
	"github.com/allisson/modelguard/internal/errors"
)

// Envelope key manager error definitions.
var (
	// ErrRecordMissing indicates no wrapped key record has been stored yet.
	ErrRecordMissing = errors.Wrap(errors.ErrNotFound, "wrapped key record missing")

	// ErrRecordCorrupt indicates the record is too short to hold an IV and a tag,
	// or decrypts to something that is not a content key.
	ErrRecordCorrupt = errors.Wrap(errors.ErrStorage, "wrapped key record corrupt")

	// ErrIntegrityViolation indicates the record failed authentication. The record was
	// tampered with or wrapped under a different master key.
	ErrIntegrityViolation = errors.Wrap(errors.ErrIntegrity, "wrapped key record integrity violation")

	// ErrIOFailure indicates the record could not be read or written.
	ErrIOFailure = errors.Wrap(errors.ErrStorage, "wrapped key record i/o failure")

	// ErrCryptoFailure indicates the vault could not provide or use the master key.
	ErrCryptoFailure = errors.New("content key crypto failure")

	// ErrInvalidContentKey indicates the supplied key is not 16, 24 or 32 bytes, or its
	// text form is not valid base64.
	ErrInvalidContentKey = errors.Wrap(errors.ErrInvalidInput, "invalid content key")
)
