package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	cryptoDomain "github.com/allisson/modelguard/internal/crypto/domain"
	envelopeUseCase "github.com/allisson/modelguard/internal/envelope/usecase"
)

// KeyTextFetcher downloads base64 key text.
type KeyTextFetcher interface {
	FetchKeyText(ctx context.Context, uri string) ([]byte, error)
}

// RunStoreKey wraps and persists the base64 content key read from source (a transfer URI)
// or from file. Exactly one of them must be set.
func RunStoreKey(
	ctx context.Context,
	contentKeys envelopeUseCase.ContentKeyUseCase,
	fetcher KeyTextFetcher,
	logger *slog.Logger,
	source, file string,
) error {
	if (source == "") == (file == "") {
		return fmt.Errorf("exactly one of --source or --file is required")
	}

	var (
		text []byte
		err  error
	)
	if source != "" {
		text, err = fetcher.FetchKeyText(ctx, source)
	} else {
		text, err = os.ReadFile(file)
	}
	if err != nil {
		return fmt.Errorf("failed to read content key: %w", err)
	}
	defer cryptoDomain.Zero(text)

	if err := contentKeys.StoreEncodedContentKey(ctx, text); err != nil {
		return fmt.Errorf("failed to store content key: %w", err)
	}

	logger.Info("content key stored")
	return nil
}

// RunVerifyKey loads the stored content key and prints its length and fingerprint.
func RunVerifyKey(
	ctx context.Context,
	contentKeys envelopeUseCase.ContentKeyUseCase,
	writer io.Writer,
) error {
	key, err := contentKeys.LoadContentKey(ctx)
	if err != nil {
		return fmt.Errorf("failed to load content key: %w", err)
	}
	defer key.Zero()

	_, _ = fmt.Fprintf(writer, "length: %d bytes\nfingerprint: %s\n", key.Len(), key.Fingerprint())
	return nil
}
