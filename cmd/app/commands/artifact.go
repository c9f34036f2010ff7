package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	artifactUseCase "github.com/allisson/modelguard/internal/artifact/usecase"
	envelopeUseCase "github.com/allisson/modelguard/internal/envelope/usecase"
)

// ArtifactFetcher downloads an artifact to a local path.
type ArtifactFetcher interface {
	FetchArtifact(ctx context.Context, uri, destinationPath string) error
}

// RunSeal encrypts in to out under the stored content key.
func RunSeal(
	ctx context.Context,
	contentKeys envelopeUseCase.ContentKeyUseCase,
	engine artifactUseCase.Engine,
	logger *slog.Logger,
	in, out string,
) error {
	key, err := contentKeys.LoadContentKey(ctx)
	if err != nil {
		return fmt.Errorf("failed to load content key: %w", err)
	}
	defer key.Zero()

	if err := engine.Encrypt(key, in, out); err != nil {
		return fmt.Errorf("failed to seal artifact: %w", err)
	}

	logger.Info("artifact sealed", slog.String("output", out))
	return nil
}

// RunDecrypt decrypts in with the stored content key. Without out the plaintext is
// written to a fresh file whose path is printed.
func RunDecrypt(
	ctx context.Context,
	contentKeys envelopeUseCase.ContentKeyUseCase,
	engine artifactUseCase.Engine,
	writer io.Writer,
	in, out string,
) error {
	key, err := contentKeys.LoadContentKey(ctx)
	if err != nil {
		return fmt.Errorf("failed to load content key: %w", err)
	}
	defer key.Zero()

	if out != "" {
		if err := engine.DecryptTo(key, in, out); err != nil {
			return fmt.Errorf("failed to decrypt artifact: %w", err)
		}
	} else {
		out, err = engine.Decrypt(key, in)
		if err != nil {
			return fmt.Errorf("failed to decrypt artifact: %w", err)
		}
	}

	_, _ = fmt.Fprintln(writer, out)
	return nil
}

// RunFetch downloads source to dest.
func RunFetch(ctx context.Context, fetcher ArtifactFetcher, logger *slog.Logger, source, dest string) error {
	if err := fetcher.FetchArtifact(ctx, source, dest); err != nil {
		return fmt.Errorf("failed to fetch artifact: %w", err)
	}
	logger.Info("artifact fetched", slog.String("destination", dest))
	return nil
}
