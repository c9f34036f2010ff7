// Package domain defines the cryptographic primitives shared by the vault, the envelope
// key manager and the streaming artifact engine: algorithms, framing constants, content
// keys and the KMS keeper boundary.
package domain

// Algorithm represents the AEAD algorithm used to wrap keys.
//
// Both algorithms use a 12-byte nonce and a 16-byte tag, so records produced by either
// share the same IV || ciphertext || tag framing.
type Algorithm string

const (
	// AESGCM represents AES-GCM. Master keys are always 256-bit; content keys may be
	// 128, 192 or 256-bit.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents ChaCha20-Poly1305 with a 256-bit key.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// Framing constants for wrapped key records and encrypted artifacts.
const (
	// IVSize is the 96-bit nonce length prefixed to every record and artifact.
	IVSize = 12

	// TagSize is the 128-bit authentication tag length appended to every record and artifact.
	TagSize = 16

	// MinFrameSize is the length of a frame carrying an empty plaintext.
	MinFrameSize = IVSize + TagSize

	// MasterKeySize is the length of generated master keys.
	MasterKeySize = 32

	// DefaultChunkSize is the default streaming buffer size. It has no effect on output.
	DefaultChunkSize = 8 * 1024
)

// ParseAlgorithm converts an algorithm name to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(name) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
