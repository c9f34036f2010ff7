// Package repository implements the protected key stores that hold sealed master keys.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	apperrors "github.com/allisson/modelguard/internal/errors"
	"github.com/allisson/modelguard/internal/fsutil"
	vaultDomain "github.com/allisson/modelguard/internal/vault/domain"
)

const (
	keyStoreDirPerm  = 0o700
	keyStoreFilePerm = 0o600
	entryFileSuffix  = ".json"
)

// FileKeyStore keeps one JSON document per alias in a directory only the owner can read.
//
// Create is an atomic create-if-absent that holds across processes: the entry is fully
// written to a temporary file and then hard-linked to its final name, which fails if the
// name is already taken. Readers therefore never observe a partially written entry.
type FileKeyStore struct {
	dir string
}

// NewFileKeyStore creates dir (0700) if needed and returns a store rooted at it.
func NewFileKeyStore(dir string) (*FileKeyStore, error) {
	if err := os.MkdirAll(dir, keyStoreDirPerm); err != nil {
		return nil, apperrors.Join(vaultDomain.ErrKeyStoreFailure, err)
	}
	return &FileKeyStore{dir: dir}, nil
}

// Get reads the entry stored under alias.
func (s *FileKeyStore) Get(ctx context.Context, alias string) (*vaultDomain.MasterKeyEntry, error) {
	if err := vaultDomain.ValidateAlias(alias); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(alias))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, vaultDomain.ErrKeyNotFound
		}
		return nil, apperrors.Join(vaultDomain.ErrKeyStoreFailure, err)
	}

	var entry vaultDomain.MasterKeyEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, apperrors.Join(vaultDomain.ErrKeyStoreFailure, err)
	}
	return &entry, nil
}

// Create persists entry unless an entry for the same alias exists, in which case it
// returns ErrKeyExists and leaves the existing entry untouched.
func (s *FileKeyStore) Create(ctx context.Context, entry *vaultDomain.MasterKeyEntry) error {
	if err := vaultDomain.ValidateAlias(entry.Alias); err != nil {
		return err
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return apperrors.Join(vaultDomain.ErrKeyStoreFailure, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+entry.Alias+".*.tmp")
	if err != nil {
		return apperrors.Join(vaultDomain.ErrKeyStoreFailure, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return apperrors.Join(vaultDomain.ErrKeyStoreFailure, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return apperrors.Join(vaultDomain.ErrKeyStoreFailure, err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.Join(vaultDomain.ErrKeyStoreFailure, err)
	}
	if err := os.Chmod(tmpPath, keyStoreFilePerm); err != nil {
		return apperrors.Join(vaultDomain.ErrKeyStoreFailure, err)
	}

	if err := os.Link(tmpPath, s.path(entry.Alias)); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return vaultDomain.ErrKeyExists
		}
		return apperrors.Join(vaultDomain.ErrKeyStoreFailure, err)
	}

	if err := fsutil.SyncDir(s.dir); err != nil {
		return apperrors.Join(vaultDomain.ErrKeyStoreFailure, err)
	}
	return nil
}

func (s *FileKeyStore) path(alias string) string {
	return filepath.Join(s.dir, alias+entryFileSuffix)
}
