// Package commands contains CLI command implementations for the application.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/allisson/modelguard/internal/app"
)

// Output is where commands print their results. Tests pass their own writer to the
// Run functions instead.
var Output io.Writer = os.Stdout

// CloseContainer shuts the container down and logs any error.
func CloseContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}
