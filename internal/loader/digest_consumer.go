package loader

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// DigestConsumer records the SHA-256 and size of the plaintext it is given.
// It stands in for an inference runtime when checking that an artifact decrypts to the
// expected model.
type DigestConsumer struct {
	Digest string
	Size   int64
}

// Consume hashes the file at plaintextPath.
func (d *DigestConsumer) Consume(ctx context.Context, plaintextPath string) error {
	f, err := os.Open(plaintextPath)
	if err != nil {
		return fmt.Errorf("failed to open plaintext: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return fmt.Errorf("failed to hash plaintext: %w", err)
	}

	d.Digest = hex.EncodeToString(h.Sum(nil))
	d.Size = n
	return nil
}
