package service

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/modelguard/internal/crypto/domain"
)

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return b
}

func stdlibSeal(t *testing.T, key, nonce, plaintext []byte) []byte {
	t.Helper()
	block, err := aes.NewCipher(key)
	require.NoError(t, err)
	aead, err := cipher.NewGCM(block)
	require.NoError(t, err)
	return aead.Seal(nil, nonce, plaintext, nil)
}

// streamSeal feeds plaintext through an encrypter in chunkSize pieces.
func streamSeal(t *testing.T, key, nonce, plaintext []byte, chunkSize int) []byte {
	t.Helper()
	s, err := NewGCMEncrypter(key, nonce)
	require.NoError(t, err)

	out := make([]byte, 0, len(plaintext)+cryptoDomain.TagSize)
	buf := make([]byte, chunkSize)
	for off := 0; off < len(plaintext); off += chunkSize {
		end := min(off+chunkSize, len(plaintext))
		n := end - off
		require.NoError(t, s.Update(buf[:n], plaintext[off:end]))
		out = append(out, buf[:n]...)
	}

	tag, err := s.Sum()
	require.NoError(t, err)
	return append(out, tag...)
}

func TestGCMStream_MatchesStdlib(t *testing.T) {
	sizes := []int{0, 1, 15, 16, 17, 27, 28, 8191, 8192, 8193, 100_003}
	chunkSizes := []int{1, 7, 16, 8192}

	for _, keySize := range []int{16, 24, 32} {
		key := randomBytes(t, keySize)
		for _, size := range sizes {
			plaintext := randomBytes(t, size)
			nonce := randomBytes(t, cryptoDomain.IVSize)
			expected := stdlibSeal(t, key, nonce, plaintext)

			for _, chunkSize := range chunkSizes {
				if chunkSize == 1 && size > 10_000 {
					continue
				}
				got := streamSeal(t, key, nonce, plaintext, chunkSize)
				assert.True(t, bytes.Equal(expected, got),
					"key=%d size=%d chunk=%d", keySize, size, chunkSize)
			}
		}
	}
}

func TestGCMStream_LargeMessage(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large message in short mode")
	}

	key := randomBytes(t, 16)
	nonce := randomBytes(t, cryptoDomain.IVSize)
	plaintext := randomBytes(t, 10_000_000)

	expected := stdlibSeal(t, key, nonce, plaintext)
	got := streamSeal(t, key, nonce, plaintext, cryptoDomain.DefaultChunkSize)
	assert.True(t, bytes.Equal(expected, got))
}

func TestGCMStream_Decrypt(t *testing.T) {
	key := randomBytes(t, 32)
	nonce := randomBytes(t, cryptoDomain.IVSize)
	plaintext := randomBytes(t, 20_000)
	sealed := stdlibSeal(t, key, nonce, plaintext)
	ciphertext, tag := sealed[:len(plaintext)], sealed[len(plaintext):]

	t.Run("in place with uneven chunks", func(t *testing.T) {
		s, err := NewGCMDecrypter(key, nonce)
		require.NoError(t, err)

		buf := append([]byte(nil), ciphertext...)
		for off := 0; off < len(buf); off += 333 {
			end := min(off+333, len(buf))
			require.NoError(t, s.Update(buf[off:end], buf[off:end]))
		}

		require.NoError(t, s.Verify(tag))
		assert.Equal(t, plaintext, buf)
		assert.Equal(t, uint64(len(plaintext)), s.Length())
	})

	t.Run("flipped ciphertext bit fails verification", func(t *testing.T) {
		s, err := NewGCMDecrypter(key, nonce)
		require.NoError(t, err)

		tampered := append([]byte(nil), ciphertext...)
		tampered[len(tampered)/2] ^= 0x80
		out := make([]byte, len(tampered))
		require.NoError(t, s.Update(out, tampered))

		assert.ErrorIs(t, s.Verify(tag), cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("flipped tag bit fails verification", func(t *testing.T) {
		s, err := NewGCMDecrypter(key, nonce)
		require.NoError(t, err)

		out := make([]byte, len(ciphertext))
		require.NoError(t, s.Update(out, ciphertext))

		badTag := append([]byte(nil), tag...)
		badTag[0] ^= 0x01
		assert.ErrorIs(t, s.Verify(badTag), cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("short tag fails verification", func(t *testing.T) {
		s, err := NewGCMDecrypter(key, nonce)
		require.NoError(t, err)

		out := make([]byte, len(ciphertext))
		require.NoError(t, s.Update(out, ciphertext))
		assert.ErrorIs(t, s.Verify(tag[:8]), cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("wrong key fails verification", func(t *testing.T) {
		s, err := NewGCMDecrypter(randomBytes(t, 32), nonce)
		require.NoError(t, err)

		out := make([]byte, len(ciphertext))
		require.NoError(t, s.Update(out, ciphertext))
		assert.ErrorIs(t, s.Verify(tag), cryptoDomain.ErrDecryptionFailed)
	})
}

func TestGCMStream_EmptyMessageTag(t *testing.T) {
	key := randomBytes(t, 16)
	nonce := randomBytes(t, cryptoDomain.IVSize)

	s, err := NewGCMEncrypter(key, nonce)
	require.NoError(t, err)
	tag, err := s.Sum()
	require.NoError(t, err)
	assert.Len(t, tag, cryptoDomain.TagSize)

	d, err := NewGCMDecrypter(key, nonce)
	require.NoError(t, err)
	assert.NoError(t, d.Verify(tag))
}

func TestGCMStream_Validation(t *testing.T) {
	t.Run("invalid key size", func(t *testing.T) {
		_, err := NewGCMEncrypter(make([]byte, 20), make([]byte, cryptoDomain.IVSize))
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
	})

	t.Run("invalid nonce size", func(t *testing.T) {
		_, err := NewGCMDecrypter(make([]byte, 16), make([]byte, 16))
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidNonceSize)
	})

	t.Run("short output buffer", func(t *testing.T) {
		s, err := NewGCMEncrypter(make([]byte, 16), make([]byte, cryptoDomain.IVSize))
		require.NoError(t, err)
		assert.Error(t, s.Update(make([]byte, 2), make([]byte, 4)))
	})

	t.Run("update after sum", func(t *testing.T) {
		s, err := NewGCMEncrypter(make([]byte, 16), make([]byte, cryptoDomain.IVSize))
		require.NoError(t, err)
		_, err = s.Sum()
		require.NoError(t, err)

		assert.Error(t, s.Update(make([]byte, 1), make([]byte, 1)))
		_, err = s.Sum()
		assert.Error(t, err)
	})

	t.Run("length limit", func(t *testing.T) {
		s, err := NewGCMEncrypter(make([]byte, 16), make([]byte, cryptoDomain.IVSize))
		require.NoError(t, err)
		s.length = MaxGCMStreamLength - 1

		assert.NoError(t, s.Update(make([]byte, 1), make([]byte, 1)))
		assert.ErrorIs(t, s.Update(make([]byte, 1), make([]byte, 1)), cryptoDomain.ErrMessageTooLarge)
	})
}
