package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	vaultUseCase "github.com/allisson/modelguard/internal/vault/usecase"
)

// RunCreateMasterKey creates the master key named alias unless it already exists and
// prints its handle. The key itself never leaves the vault.
func RunCreateMasterKey(
	ctx context.Context,
	vault vaultUseCase.Vault,
	logger *slog.Logger,
	writer io.Writer,
	alias string,
) error {
	handle, err := vault.EnsureKey(ctx, alias)
	if err != nil {
		return fmt.Errorf("failed to create master key: %w", err)
	}

	logger.Info("master key ready",
		slog.String("alias", handle.Alias),
		slog.String("key_id", handle.ID.String()),
	)

	_, _ = fmt.Fprintf(writer, "alias: %s\nid: %s\nalgorithm: %s\n", handle.Alias, handle.ID, handle.Algorithm)
	return nil
}
