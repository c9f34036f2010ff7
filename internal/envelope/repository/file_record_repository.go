// Package repository persists wrapped key records.
package repository

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	envelopeDomain "github.com/allisson/modelguard/internal/envelope/domain"
	apperrors "github.com/allisson/modelguard/internal/errors"
	"github.com/allisson/modelguard/internal/fsutil"
)

const (
	recordDirPerm  = 0o700
	recordFilePerm = 0o600
)

// FileRecordRepository stores the wrapped key record as a single file.
//
// Writes go through a temporary file in the same directory that is synced and renamed
// over the record, so a crash mid-write leaves the previous record intact.
type FileRecordRepository struct {
	path string
}

// NewFileRecordRepository creates a repository for the record at path.
func NewFileRecordRepository(path string) *FileRecordRepository {
	return &FileRecordRepository{path: path}
}

// Path returns the record location.
func (r *FileRecordRepository) Path() string {
	return r.path
}

// Read returns the record bytes, or ErrRecordMissing if none was written.
func (r *FileRecordRepository) Read(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, envelopeDomain.ErrRecordMissing
		}
		return nil, apperrors.Join(envelopeDomain.ErrIOFailure, err)
	}
	return data, nil
}

// Write atomically replaces the record with data.
func (r *FileRecordRepository) Write(ctx context.Context, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(r.path), recordDirPerm); err != nil {
		return apperrors.Join(envelopeDomain.ErrIOFailure, err)
	}

	f, err := fsutil.CreateAtomic(r.path, recordFilePerm)
	if err != nil {
		return apperrors.Join(envelopeDomain.ErrIOFailure, err)
	}
	defer f.Discard()

	if _, err := f.Write(data); err != nil {
		return apperrors.Join(envelopeDomain.ErrIOFailure, err)
	}
	if err := f.Commit(); err != nil {
		return apperrors.Join(envelopeDomain.ErrIOFailure, err)
	}
	return nil
}
