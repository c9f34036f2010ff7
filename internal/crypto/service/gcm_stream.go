package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"errors"
	"fmt"

	cryptoDomain "github.com/allisson/modelguard/internal/crypto/domain"
)

// MaxGCMStreamLength is the largest message GCM can protect under one 96-bit nonce.
const MaxGCMStreamLength = ((1 << 32) - 2) * gcmBlockSize

var (
	errStreamFinished = errors.New("gcm stream already finalized")
	errShortBuffer    = errors.New("gcm stream: output smaller than input")
)

// GCMStream is an AES-GCM transform that processes a message in arbitrary chunks.
//
// It produces exactly the bytes cipher.NewGCM would for the same key and 12-byte nonce
// with no additional data, without holding the message in memory: the payload runs
// through an AES-CTR keystream starting at counter 2 while GHASH absorbs the
// ciphertext. The tag is only known, or checked, once Sum or Verify is called, so a
// decrypting caller must treat every byte it produced as untrusted until Verify
// returns nil.
//
// A GCMStream is not safe for concurrent use.
type GCMStream struct {
	ctr      cipher.Stream
	hash     *ghash
	tagMask  [gcmBlockSize]byte
	length   uint64
	decrypt  bool
	finished bool
}

// NewGCMEncrypter returns a stream that encrypts with key (16, 24 or 32 bytes) and a 12-byte nonce.
func NewGCMEncrypter(key, nonce []byte) (*GCMStream, error) {
	return newGCMStream(key, nonce, false)
}

// NewGCMDecrypter returns a stream that decrypts with key (16, 24 or 32 bytes) and a 12-byte nonce.
func NewGCMDecrypter(key, nonce []byte) (*GCMStream, error) {
	return newGCMStream(key, nonce, true)
}

func newGCMStream(key, nonce []byte, decrypt bool) (*GCMStream, error) {
	if !cryptoDomain.ValidContentKeySize(len(key)) {
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	if len(nonce) != cryptoDomain.IVSize {
		return nil, cryptoDomain.ErrInvalidNonceSize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	var h [gcmBlockSize]byte
	block.Encrypt(h[:], h[:])

	// J0 = nonce || 0^31 || 1 masks the tag; the payload keystream starts at J0+1.
	var counter [gcmBlockSize]byte
	copy(counter[:], nonce)
	counter[gcmBlockSize-1] = 1

	s := &GCMStream{
		hash:    newGHASH(h[:]),
		decrypt: decrypt,
	}
	block.Encrypt(s.tagMask[:], counter[:])

	counter[gcmBlockSize-1] = 2
	s.ctr = cipher.NewCTR(block, counter[:])

	return s, nil
}

// Update transforms src into dst. dst must be at least len(src) bytes and may alias src exactly.
func (s *GCMStream) Update(dst, src []byte) error {
	if s.finished {
		return errStreamFinished
	}
	if len(dst) < len(src) {
		return errShortBuffer
	}
	if uint64(len(src)) > MaxGCMStreamLength-s.length {
		return cryptoDomain.ErrMessageTooLarge
	}
	s.length += uint64(len(src))

	if s.decrypt {
		s.hash.write(src)
		s.ctr.XORKeyStream(dst[:len(src)], src)
		return nil
	}

	s.ctr.XORKeyStream(dst[:len(src)], src)
	s.hash.write(dst[:len(src)])
	return nil
}

// Length returns the number of bytes processed so far.
func (s *GCMStream) Length() uint64 {
	return s.length
}

// Sum finalizes the stream and returns the 16-byte authentication tag.
func (s *GCMStream) Sum() ([]byte, error) {
	if s.finished {
		return nil, errStreamFinished
	}
	s.finished = true

	tag := s.hash.finish(0, s.length)
	subtle.XORBytes(tag[:], tag[:], s.tagMask[:])
	return tag[:], nil
}

// Verify finalizes the stream and compares the computed tag with tag in constant time.
// It returns ErrDecryptionFailed on mismatch.
func (s *GCMStream) Verify(tag []byte) error {
	expected, err := s.Sum()
	if err != nil {
		return err
	}
	if len(tag) != cryptoDomain.TagSize || subtle.ConstantTimeCompare(expected, tag) != 1 {
		return cryptoDomain.ErrDecryptionFailed
	}
	return nil
}
