// Package domain defines the streaming artifact engine errors.
package domain

import (
	"github.com/allisson/modelguard/internal/errors"
)

// Artifact engine error definitions.
var (
	// ErrArtifactTooSmall indicates the file cannot hold an IV and a tag.
	ErrArtifactTooSmall = errors.Wrap(errors.ErrInvalidInput, "encrypted artifact too small")

	// ErrArtifactTooLarge indicates the payload exceeds what GCM can protect under one nonce.
	ErrArtifactTooLarge = errors.Wrap(errors.ErrInvalidInput, "artifact exceeds gcm length limit")

	// ErrAuthenticationFailed indicates the artifact tag did not verify. No output is kept.
	ErrAuthenticationFailed = errors.Wrap(errors.ErrIntegrity, "artifact authentication failed")

	// ErrIOFailure indicates reading the source or writing the output failed.
	ErrIOFailure = errors.Wrap(errors.ErrStorage, "artifact i/o failure")

	// ErrInvalidKey indicates the content key is missing or has an unusable length.
	ErrInvalidKey = errors.Wrap(errors.ErrInvalidInput, "invalid artifact content key")
)
