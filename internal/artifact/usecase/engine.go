// Package usecase implements the streaming artifact engine.
//
// Artifacts can be far larger than memory, so the payload is never buffered whole. The IV
// and tag are read by offset, the ciphertext flows through a streaming AES-GCM transform
// chunk by chunk into a temporary file, and the file is only renamed into place after
// the tag verifies. Plaintext that failed authentication is never visible at the
// destination path.
package usecase

import (
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	artifactDomain "github.com/allisson/modelguard/internal/artifact/domain"
	cryptoDomain "github.com/allisson/modelguard/internal/crypto/domain"
	cryptoService "github.com/allisson/modelguard/internal/crypto/service"
	apperrors "github.com/allisson/modelguard/internal/errors"
	"github.com/allisson/modelguard/internal/fsutil"
)

const (
	outputDirPerm  = 0o700
	outputFilePerm = 0o600

	// DecryptedSuffix is the extension of files produced by Decrypt.
	DecryptedSuffix = ".dec"
)

// Config holds engine settings.
type Config struct {
	// ChunkSize is the streaming buffer size in bytes. It does not affect output.
	// Zero selects cryptoDomain.DefaultChunkSize.
	ChunkSize int

	// OutputDir receives files created by Decrypt. Empty means the artifact's directory.
	OutputDir string
}

type engine struct {
	chunkSize int
	outputDir string
	logger    *slog.Logger
}

// NewEngine creates an Engine.
func NewEngine(cfg Config, logger *slog.Logger) Engine {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = cryptoDomain.DefaultChunkSize
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &engine{
		chunkSize: cfg.ChunkSize,
		outputDir: cfg.OutputDir,
		logger:    logger,
	}
}

// Decrypt writes the plaintext to <output dir>/<artifact base>-<uuidv7>.dec.
func (e *engine) Decrypt(key *cryptoDomain.ContentKey, artifactPath string) (string, error) {
	dir := e.outputDir
	if dir == "" {
		dir = filepath.Dir(artifactPath)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", apperrors.Join(artifactDomain.ErrIOFailure, err)
	}

	base := filepath.Base(artifactPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	destination := filepath.Join(dir, fmt.Sprintf("%s-%s%s", base, id, DecryptedSuffix))

	if err := e.DecryptTo(key, artifactPath, destination); err != nil {
		return "", err
	}
	return destination, nil
}

// DecryptTo verifies and decrypts artifactPath into destinationPath.
func (e *engine) DecryptTo(key *cryptoDomain.ContentKey, artifactPath, destinationPath string) error {
	if key == nil {
		return artifactDomain.ErrInvalidKey
	}
	start := time.Now()

	src, err := os.Open(artifactPath)
	if err != nil {
		return apperrors.Join(artifactDomain.ErrIOFailure, err)
	}
	defer func() {
		_ = src.Close()
	}()

	info, err := src.Stat()
	if err != nil {
		return apperrors.Join(artifactDomain.ErrIOFailure, err)
	}
	size := info.Size()
	if size < cryptoDomain.MinFrameSize {
		return fmt.Errorf("%w: %d bytes, need at least %d",
			artifactDomain.ErrArtifactTooSmall, size, cryptoDomain.MinFrameSize)
	}
	payloadLen := size - cryptoDomain.MinFrameSize
	if uint64(payloadLen) > cryptoService.MaxGCMStreamLength {
		return fmt.Errorf("%w: %d byte payload", artifactDomain.ErrArtifactTooLarge, payloadLen)
	}

	iv := make([]byte, cryptoDomain.IVSize)
	if _, err := src.ReadAt(iv, 0); err != nil {
		return apperrors.Join(artifactDomain.ErrIOFailure, err)
	}
	tag := make([]byte, cryptoDomain.TagSize)
	if _, err := src.ReadAt(tag, size-cryptoDomain.TagSize); err != nil {
		return apperrors.Join(artifactDomain.ErrIOFailure, err)
	}

	stream, err := cryptoService.NewGCMDecrypter(key.Bytes(), iv)
	if err != nil {
		return apperrors.Join(artifactDomain.ErrInvalidKey, err)
	}

	out, err := e.createOutput(destinationPath)
	if err != nil {
		return err
	}
	defer out.Discard()

	payload := io.NewSectionReader(src, cryptoDomain.IVSize, payloadLen)
	if err := e.pump(stream, out, payload); err != nil {
		return err
	}

	if err := stream.Verify(tag); err != nil {
		e.logger.Warn("artifact authentication failed",
			slog.String("artifact", artifactPath),
			slog.Int64("payload_bytes", payloadLen),
		)
		return apperrors.Join(artifactDomain.ErrAuthenticationFailed, err)
	}

	if err := out.Commit(); err != nil {
		return apperrors.Join(artifactDomain.ErrIOFailure, err)
	}

	e.logger.Debug("artifact decrypted",
		slog.String("artifact", artifactPath),
		slog.String("output", destinationPath),
		slog.Int64("payload_bytes", payloadLen),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

// Encrypt seals plaintextPath into destinationPath as IV || ciphertext || tag.
func (e *engine) Encrypt(key *cryptoDomain.ContentKey, plaintextPath, destinationPath string) error {
	if key == nil {
		return artifactDomain.ErrInvalidKey
	}

	src, err := os.Open(plaintextPath)
	if err != nil {
		return apperrors.Join(artifactDomain.ErrIOFailure, err)
	}
	defer func() {
		_ = src.Close()
	}()

	info, err := src.Stat()
	if err != nil {
		return apperrors.Join(artifactDomain.ErrIOFailure, err)
	}
	if uint64(info.Size()) > cryptoService.MaxGCMStreamLength {
		return fmt.Errorf("%w: %d byte plaintext", artifactDomain.ErrArtifactTooLarge, info.Size())
	}

	iv := make([]byte, cryptoDomain.IVSize)
	if _, err := rand.Read(iv); err != nil {
		return apperrors.Join(artifactDomain.ErrIOFailure, err)
	}

	stream, err := cryptoService.NewGCMEncrypter(key.Bytes(), iv)
	if err != nil {
		return apperrors.Join(artifactDomain.ErrInvalidKey, err)
	}

	out, err := e.createOutput(destinationPath)
	if err != nil {
		return err
	}
	defer out.Discard()

	if _, err := out.Write(iv); err != nil {
		return apperrors.Join(artifactDomain.ErrIOFailure, err)
	}
	if err := e.pump(stream, out, src); err != nil {
		return err
	}

	tag, err := stream.Sum()
	if err != nil {
		return apperrors.Join(artifactDomain.ErrIOFailure, err)
	}
	if _, err := out.Write(tag); err != nil {
		return apperrors.Join(artifactDomain.ErrIOFailure, err)
	}

	if err := out.Commit(); err != nil {
		return apperrors.Join(artifactDomain.ErrIOFailure, err)
	}

	e.logger.Debug("artifact encrypted",
		slog.String("input", plaintextPath),
		slog.String("artifact", destinationPath),
		slog.Int64("payload_bytes", int64(stream.Length())),
	)
	return nil
}

func (e *engine) createOutput(path string) (*fsutil.AtomicFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), outputDirPerm); err != nil {
		return nil, apperrors.Join(artifactDomain.ErrIOFailure, err)
	}
	out, err := fsutil.CreateAtomic(path, outputFilePerm)
	if err != nil {
		return nil, apperrors.Join(artifactDomain.ErrIOFailure, err)
	}
	return out, nil
}

// pump streams src through the transform into dst one chunk at a time, in place.
func (e *engine) pump(stream *cryptoService.GCMStream, dst io.Writer, src io.Reader) error {
	buf := make([]byte, e.chunkSize)
	defer cryptoDomain.Zero(buf)

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if err := stream.Update(buf[:n], buf[:n]); err != nil {
				if apperrors.Is(err, cryptoDomain.ErrMessageTooLarge) {
					return apperrors.Join(artifactDomain.ErrArtifactTooLarge, err)
				}
				return apperrors.Join(artifactDomain.ErrIOFailure, err)
			}
			if _, err := dst.Write(buf[:n]); err != nil {
				return apperrors.Join(artifactDomain.ErrIOFailure, err)
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return apperrors.Join(artifactDomain.ErrIOFailure, readErr)
		}
	}
}
