package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/allisson/modelguard/internal/loader"
)

// ModelLoader provisions and runs artifacts.
type ModelLoader interface {
	Provision(ctx context.Context, artifactURI, keyURI string) (string, error)
	Run(ctx context.Context, artifactPath string, consumer loader.Consumer) error
}

// RunProvision fetches an artifact and its content key and prints the local artifact path.
func RunProvision(ctx context.Context, l ModelLoader, writer io.Writer, artifactURI, keyURI string) error {
	artifactPath, err := l.Provision(ctx, artifactURI, keyURI)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(writer, artifactPath)
	return nil
}

// RunModel decrypts the artifact, hashes the plaintext and deletes it. It prints the
// SHA-256 and size so an operator can check the model without keeping it on disk.
func RunModel(ctx context.Context, l ModelLoader, writer io.Writer, artifactPath string) error {
	consumer := &loader.DigestConsumer{}
	if err := l.Run(ctx, artifactPath, consumer); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(writer, "sha256: %s\nsize: %d bytes\n", consumer.Digest, consumer.Size)
	return nil
}
