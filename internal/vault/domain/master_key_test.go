package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	cryptoDomain "github.com/allisson/modelguard/internal/crypto/domain"
)

func TestValidateAlias(t *testing.T) {
	tests := []struct {
		name    string
		alias   string
		wantErr bool
	}{
		{name: "default alias", alias: "MODEL_AES_KEY_ALIAS"},
		{name: "dots and dashes", alias: "models.v2-prod"},
		{name: "empty", alias: "", wantErr: true},
		{name: "path separator", alias: "a/b", wantErr: true},
		{name: "parent directory", alias: "..", wantErr: true},
		{name: "leading dot", alias: ".hidden", wantErr: true},
		{name: "whitespace", alias: "my key", wantErr: true},
		{name: "too long", alias: string(make([]byte, MaxAliasLength+1)), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAlias(tt.alias)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAlias)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestMasterKeyEntry_Handle(t *testing.T) {
	entry := &MasterKeyEntry{
		ID:        uuid.Must(uuid.NewV7()),
		Alias:     "MODEL_AES_KEY_ALIAS",
		Algorithm: cryptoDomain.AESGCM,
		SealedKey: []byte("sealed"),
		CreatedAt: time.Now().UTC(),
	}

	handle := entry.Handle()

	assert.Equal(t, entry.ID, handle.ID)
	assert.Equal(t, entry.Alias, handle.Alias)
	assert.Equal(t, entry.Algorithm, handle.Algorithm)
}
