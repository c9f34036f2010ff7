package transfer

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// splitObjectURL separates an object URL into a gocloud.dev/blob bucket URL and a key.
//
// URLs with a host keep scheme, host and query as the bucket and use the path as the key
// (s3://bucket/models/a.enc?region=eu-west-1). URLs without a host (file:///srv/models/a.enc)
// use the parent directory as the bucket and the base name as the key.
func splitObjectURL(raw string) (bucketURL, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrUnsupportedURI, err)
	}
	if u.Scheme == "" {
		return "", "", fmt.Errorf("%w: missing scheme", ErrUnsupportedURI)
	}

	if u.Host == "" {
		dir, base := path.Split(u.Path)
		if base == "" || dir == "" {
			return "", "", fmt.Errorf("%w: missing object name", ErrUnsupportedURI)
		}
		bucket := url.URL{Scheme: u.Scheme, Path: dir, RawQuery: u.RawQuery}
		return bucket.String(), base, nil
	}

	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", fmt.Errorf("%w: missing object key", ErrUnsupportedURI)
	}
	bucket := url.URL{Scheme: u.Scheme, Host: u.Host, RawQuery: u.RawQuery}
	return bucket.String(), key, nil
}

// redactURI strips credentials and query parameters (pre-signed URL signatures) for logging.
func redactURI(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid uri>"
	}
	u.User = nil
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

func isHTTP(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
