package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/allisson/modelguard/internal/crypto/domain"
	cryptoService "github.com/allisson/modelguard/internal/crypto/service"
	vaultRepository "github.com/allisson/modelguard/internal/vault/repository"
	vaultUseCase "github.com/allisson/modelguard/internal/vault/usecase"
)

// KMSKeeper returns the keeper that seals master keys, opened from KMS_KEY_URI.
func (c *Container) KMSKeeper(ctx context.Context) (cryptoDomain.KMSKeeper, error) {
	var err error
	c.kmsKeeperInit.Do(func() {
		c.kmsKeeper, err = c.initKMSKeeper(ctx)
		if err != nil {
			c.initErrors["kmsKeeper"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["kmsKeeper"]; exists {
		return nil, storedErr
	}
	return c.kmsKeeper, nil
}

// KeyStore returns the file-backed master key store.
func (c *Container) KeyStore() (vaultUseCase.KeyStore, error) {
	var err error
	c.keyStoreInit.Do(func() {
		c.keyStore, err = c.initKeyStore()
		if err != nil {
			c.initErrors["keyStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyStore"]; exists {
		return nil, storedErr
	}
	return c.keyStore, nil
}

// Vault returns the master key vault.
func (c *Container) Vault(ctx context.Context) (vaultUseCase.Vault, error) {
	var err error
	c.vaultInit.Do(func() {
		c.vault, err = c.initVault(ctx)
		if err != nil {
			c.initErrors["vault"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["vault"]; exists {
		return nil, storedErr
	}
	return c.vault, nil
}

func (c *Container) initKMSKeeper(ctx context.Context) (cryptoDomain.KMSKeeper, error) {
	keeper, err := cryptoService.NewKMSService().OpenKeeper(ctx, c.config.KMSKeyURI)
	if err != nil {
		return nil, err
	}
	return keeper, nil
}

func (c *Container) initKeyStore() (vaultUseCase.KeyStore, error) {
	store, err := vaultRepository.NewFileKeyStore(c.config.KeyStoreDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open key store: %w", err)
	}
	return store, nil
}

func (c *Container) initVault(ctx context.Context) (vaultUseCase.Vault, error) {
	algorithm, err := cryptoDomain.ParseAlgorithm(c.config.MasterKeyAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("invalid master key algorithm %q: %w", c.config.MasterKeyAlgorithm, err)
	}

	store, err := c.KeyStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get key store for vault: %w", err)
	}

	keeper, err := c.KMSKeeper(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get kms keeper for vault: %w", err)
	}

	baseVault := vaultUseCase.NewVault(store, keeper, cryptoService.NewAEADManager(), algorithm, c.Logger())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for vault: %w", err)
		}
		return vaultUseCase.NewVaultWithMetrics(baseVault, businessMetrics), nil
	}

	return baseVault, nil
}
