package domain

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWrappedKeyRecord(t *testing.T) {
	t.Run("SplitsFrame", func(t *testing.T) {
		iv := bytes.Repeat([]byte{0x01}, 12)
		ct := bytes.Repeat([]byte{0x02}, 16)
		tag := bytes.Repeat([]byte{0x03}, 16)
		data := append(append(append([]byte(nil), iv...), ct...), tag...)
		require.Len(t, data, 44)

		record, err := ParseWrappedKeyRecord(data)
		require.NoError(t, err)
		assert.Equal(t, iv, record.IV)
		assert.Equal(t, ct, record.Ciphertext)
		assert.Equal(t, tag, record.Tag)
		assert.Equal(t, data, record.Bytes())
	})

	t.Run("MinimumSize", func(t *testing.T) {
		record, err := ParseWrappedKeyRecord(make([]byte, 28))
		require.NoError(t, err)
		assert.Empty(t, record.Ciphertext)
	})

	t.Run("Error_TooShort", func(t *testing.T) {
		for _, size := range []int{0, 1, 27} {
			_, err := ParseWrappedKeyRecord(make([]byte, size))
			assert.ErrorIs(t, err, ErrRecordCorrupt)
		}
	})
}
