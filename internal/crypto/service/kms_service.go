package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"

	"gocloud.dev/secrets"
	"gocloud.dev/secrets/localsecrets"

	cryptoDomain "github.com/allisson/modelguard/internal/crypto/domain"

	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
)

type kmsService struct{}

// NewKMSService returns a KMSService backed by gocloud.dev/secrets. Every provider
// driver is registered, so the scheme of the key URI alone selects the backend.
func NewKMSService() KMSService {
	return &kmsService{}
}

func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	if keyURI == "" {
		return nil, cryptoDomain.ErrKMSKeyURIRequired
	}
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		scheme := "unknown"
		if u, parseErr := url.Parse(keyURI); parseErr == nil && u.Scheme != "" {
			scheme = u.Scheme
		}
		return nil, fmt.Errorf("failed to open KMS keeper (scheme %q): %w", scheme, err)
	}
	return keeper, nil
}

func (k *kmsService) NewLocalKeyURI() (string, error) {
	secret, err := localsecrets.NewRandomKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate kms key: %w", err)
	}
	defer cryptoDomain.Zero(secret[:])

	return "base64key://" + base64.URLEncoding.EncodeToString(secret[:]), nil
}
