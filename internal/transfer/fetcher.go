// Package transfer fetches key text and encrypted artifacts from object storage or
// pre-signed HTTP URLs.
//
// Object storage goes through gocloud.dev/blob, so file://, s3:// and gs:// URLs share one
// code path. Transient failures are retried with exponential backoff; missing objects and
// rejected requests fail immediately.
package transfer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	apperrors "github.com/allisson/modelguard/internal/errors"
	"github.com/allisson/modelguard/internal/fsutil"

	// Register blob drivers
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"
)

// MaxKeyTextBytes bounds the key text download. A base64 AES-256 key is 44 bytes.
const MaxKeyTextBytes = 4096

const (
	defaultInitialInterval = 500 * time.Millisecond
	artifactFilePerm       = 0o600
	artifactDirPerm        = 0o700
)

// Config holds fetcher settings.
type Config struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries uint64

	// Timeout bounds a single attempt. Zero means no per-attempt timeout.
	Timeout time.Duration

	// InitialInterval is the first backoff delay. Zero selects 500ms.
	InitialInterval time.Duration

	// HTTPClient serves http(s) URLs. Nil selects a default client.
	HTTPClient *http.Client
}

// Fetcher downloads transfer sources with retries.
type Fetcher struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

// NewFetcher creates a Fetcher.
func NewFetcher(cfg Config, logger *slog.Logger) *Fetcher {
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = defaultInitialInterval
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Fetcher{cfg: cfg, client: client, logger: logger}
}

// FetchKeyText returns the content of uri, at most MaxKeyTextBytes.
func (f *Fetcher) FetchKeyText(ctx context.Context, uri string) ([]byte, error) {
	var text []byte
	err := f.retry(ctx, uri, func(ctx context.Context) error {
		rc, err := f.open(ctx, uri)
		if err != nil {
			return err
		}
		defer func() {
			_ = rc.Close()
		}()

		data, err := io.ReadAll(io.LimitReader(rc, MaxKeyTextBytes+1))
		if err != nil {
			return err
		}
		if len(data) > MaxKeyTextBytes {
			return backoff.Permanent(ErrKeyTextTooLarge)
		}
		text = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return text, nil
}

// FetchArtifact streams uri into destinationPath. The destination only appears once the
// whole object was received.
func (f *Fetcher) FetchArtifact(ctx context.Context, uri, destinationPath string) error {
	if err := os.MkdirAll(filepath.Dir(destinationPath), artifactDirPerm); err != nil {
		return apperrors.Join(ErrTransferFailed, err)
	}

	var written int64
	err := f.retry(ctx, uri, func(ctx context.Context) error {
		rc, err := f.open(ctx, uri)
		if err != nil {
			return err
		}
		defer func() {
			_ = rc.Close()
		}()

		out, err := fsutil.CreateAtomic(destinationPath, artifactFilePerm)
		if err != nil {
			return backoff.Permanent(err)
		}
		defer out.Discard()

		n, err := io.Copy(out, rc)
		if err != nil {
			return err
		}
		if err := out.Commit(); err != nil {
			return backoff.Permanent(err)
		}
		written = n
		return nil
	})
	if err != nil {
		return err
	}

	f.logger.Info("artifact fetched",
		slog.String("uri", redactURI(uri)),
		slog.String("destination", destinationPath),
		slog.Int64("bytes", written),
	)
	return nil
}

// retry runs op until it succeeds, returns a permanent error, or retries run out.
func (f *Fetcher) retry(ctx context.Context, uri string, op func(ctx context.Context) error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = f.cfg.InitialInterval
	policy.MaxElapsedTime = 0

	attempt := func() error {
		attemptCtx := ctx
		if f.cfg.Timeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, f.cfg.Timeout)
			defer cancel()
		}
		return op(attemptCtx)
	}

	err := backoff.RetryNotify(
		attempt,
		backoff.WithContext(backoff.WithMaxRetries(policy, f.cfg.MaxRetries), ctx),
		func(err error, wait time.Duration) {
			f.logger.Warn("transfer attempt failed, retrying",
				slog.String("uri", redactURI(uri)),
				slog.Duration("wait", wait),
				slog.Any("error", err),
			)
		},
	)
	if err == nil {
		return nil
	}
	if apperrors.Is(err, ErrObjectNotFound) || apperrors.Is(err, ErrUnsupportedURI) ||
		apperrors.Is(err, ErrRequestRejected) || apperrors.Is(err, ErrKeyTextTooLarge) ||
		apperrors.Is(err, ErrTransferFailed) {
		return err
	}
	return apperrors.Join(ErrTransferFailed, err)
}

// open returns a reader for uri. Errors that retrying cannot fix are marked permanent.
func (f *Fetcher) open(ctx context.Context, uri string) (io.ReadCloser, error) {
	if isHTTP(uri) {
		return f.openHTTP(ctx, uri)
	}
	return openBlob(ctx, uri)
}

func (f *Fetcher) openHTTP(ctx context.Context, uri string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("%w: %v", ErrUnsupportedURI, err))
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusOK {
		return resp.Body, nil
	}

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, backoff.Permanent(fmt.Errorf("%w: http status %d", ErrObjectNotFound, resp.StatusCode))
	case resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("http status %d", resp.StatusCode)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, backoff.Permanent(fmt.Errorf("%w: http status %d", ErrRequestRejected, resp.StatusCode))
	default:
		return nil, fmt.Errorf("http status %d", resp.StatusCode)
	}
}

// blobReader closes the bucket together with the reader.
type blobReader struct {
	*blob.Reader
	bucket *blob.Bucket
}

func (r *blobReader) Close() error {
	err := r.Reader.Close()
	if closeErr := r.bucket.Close(); err == nil {
		err = closeErr
	}
	return err
}

func openBlob(ctx context.Context, uri string) (io.ReadCloser, error) {
	bucketURL, key, err := splitObjectURL(uri)
	if err != nil {
		return nil, backoff.Permanent(err)
	}

	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("%w: %v", ErrUnsupportedURI, err))
	}

	reader, err := bucket.NewReader(ctx, key, nil)
	if err != nil {
		_ = bucket.Close()
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, backoff.Permanent(fmt.Errorf("%w: %s", ErrObjectNotFound, key))
		}
		return nil, err
	}
	return &blobReader{Reader: reader, bucket: bucket}, nil
}
