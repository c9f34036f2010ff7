// Package loader runs the model lifecycle on top of the envelope key manager and the
// artifact engine: provision an encrypted artifact and its key, then decrypt it for a
// single consumer and delete the plaintext afterwards.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"

	artifactUseCase "github.com/allisson/modelguard/internal/artifact/usecase"
	cryptoDomain "github.com/allisson/modelguard/internal/crypto/domain"
	envelopeUseCase "github.com/allisson/modelguard/internal/envelope/usecase"
)

const defaultArtifactName = "model.enc"

// Fetcher downloads provisioning inputs.
type Fetcher interface {
	FetchKeyText(ctx context.Context, uri string) ([]byte, error)
	FetchArtifact(ctx context.Context, uri, destinationPath string) error
}

// Consumer uses a decrypted artifact. The file is deleted as soon as Consume returns.
type Consumer interface {
	Consume(ctx context.Context, plaintextPath string) error
}

// ConsumerFunc adapts a function to Consumer.
type ConsumerFunc func(ctx context.Context, plaintextPath string) error

// Consume calls f.
func (f ConsumerFunc) Consume(ctx context.Context, plaintextPath string) error {
	return f(ctx, plaintextPath)
}

// Loader provisions and runs encrypted model artifacts.
type Loader struct {
	keys        envelopeUseCase.ContentKeyUseCase
	engine      artifactUseCase.Engine
	fetcher     Fetcher
	artifactDir string
	logger      *slog.Logger
}

// NewLoader creates a Loader that stores fetched artifacts under artifactDir.
func NewLoader(
	keys envelopeUseCase.ContentKeyUseCase,
	engine artifactUseCase.Engine,
	fetcher Fetcher,
	artifactDir string,
	logger *slog.Logger,
) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{
		keys:        keys,
		engine:      engine,
		fetcher:     fetcher,
		artifactDir: artifactDir,
		logger:      logger,
	}
}

// Provision downloads the encrypted artifact, then the key text, and stores the key
// wrapped. It returns the local artifact path.
func (l *Loader) Provision(ctx context.Context, artifactURI, keyURI string) (string, error) {
	destination := filepath.Join(l.artifactDir, artifactName(artifactURI))

	l.logger.Info("fetching artifact", slog.String("destination", destination))
	if err := l.fetcher.FetchArtifact(ctx, artifactURI, destination); err != nil {
		return "", fmt.Errorf("failed to fetch artifact: %w", err)
	}

	l.logger.Info("fetching content key")
	text, err := l.fetcher.FetchKeyText(ctx, keyURI)
	if err != nil {
		return "", fmt.Errorf("failed to fetch content key: %w", err)
	}
	defer cryptoDomain.Zero(text)

	if err := l.keys.StoreEncodedContentKey(ctx, text); err != nil {
		return "", fmt.Errorf("failed to store content key: %w", err)
	}

	l.logger.Info("artifact provisioned", slog.String("artifact", destination))
	return destination, nil
}

// Run decrypts artifactPath with the stored content key, hands the plaintext to consumer
// and deletes it afterwards, whatever the consumer returned.
func (l *Loader) Run(ctx context.Context, artifactPath string, consumer Consumer) error {
	key, err := l.keys.LoadContentKey(ctx)
	if err != nil {
		return fmt.Errorf("failed to load content key: %w", err)
	}
	defer key.Zero()

	l.logger.Info("decrypting", slog.String("artifact", artifactPath))
	plaintextPath, err := l.engine.Decrypt(key, artifactPath)
	if err != nil {
		return fmt.Errorf("failed to decrypt artifact: %w", err)
	}
	defer l.remove(plaintextPath)

	l.logger.Info("consuming", slog.String("artifact", artifactPath))
	if err := consumer.Consume(ctx, plaintextPath); err != nil {
		return fmt.Errorf("consumer failed: %w", err)
	}

	l.logger.Info("done", slog.String("artifact", artifactPath))
	return nil
}

func (l *Loader) remove(plaintextPath string) {
	if err := os.Remove(plaintextPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		l.logger.Warn("failed to delete decrypted artifact",
			slog.String("path", plaintextPath),
			slog.Any("error", err),
		)
	}
}

// artifactName derives the local file name from the last path segment of uri.
func artifactName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return defaultArtifactName
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return defaultArtifactName
	}
	return name
}
