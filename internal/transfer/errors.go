package transfer

import (
	"github.com/allisson/modelguard/internal/errors"
)

// Transfer error definitions.
var (
	// ErrObjectNotFound indicates the source object does not exist. Not retried.
	ErrObjectNotFound = errors.Wrap(errors.ErrNotFound, "transfer source not found")

	// ErrUnsupportedURI indicates the URI has no usable scheme, bucket or key. Not retried.
	ErrUnsupportedURI = errors.Wrap(errors.ErrInvalidInput, "unsupported transfer uri")

	// ErrRequestRejected indicates the server refused the request (4xx). Not retried.
	ErrRequestRejected = errors.Wrap(errors.ErrInvalidInput, "transfer request rejected")

	// ErrKeyTextTooLarge indicates the key text exceeds MaxKeyTextBytes.
	ErrKeyTextTooLarge = errors.Wrap(errors.ErrInvalidInput, "key text too large")

	// ErrTransferFailed indicates the transfer still failed after all retries.
	ErrTransferFailed = errors.Wrap(errors.ErrStorage, "transfer failed")
)
