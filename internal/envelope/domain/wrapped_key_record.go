package domain

import (
	"fmt"

	cryptoDomain "github.com/allisson/modelguard/internal/crypto/domain"
)

// WrappedKeyRecord is a content key encrypted under the master key.
//
// Its persisted form is IV(12) || ciphertext || tag(16) with no header or version byte,
// so a record for an N-byte key is N+28 bytes long.
type WrappedKeyRecord struct {
	IV         []byte
	Ciphertext []byte
	Tag        []byte
}

// ParseWrappedKeyRecord splits the persisted form into its parts.
// The returned slices alias data.
func ParseWrappedKeyRecord(data []byte) (*WrappedKeyRecord, error) {
	if len(data) < cryptoDomain.MinFrameSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d",
			ErrRecordCorrupt, len(data), cryptoDomain.MinFrameSize)
	}

	tagStart := len(data) - cryptoDomain.TagSize
	return &WrappedKeyRecord{
		IV:         data[:cryptoDomain.IVSize],
		Ciphertext: data[cryptoDomain.IVSize:tagStart],
		Tag:        data[tagStart:],
	}, nil
}

// Bytes returns the persisted form.
func (r *WrappedKeyRecord) Bytes() []byte {
	out := make([]byte, 0, len(r.IV)+len(r.Ciphertext)+len(r.Tag))
	out = append(out, r.IV...)
	out = append(out, r.Ciphertext...)
	return append(out, r.Tag...)
}
