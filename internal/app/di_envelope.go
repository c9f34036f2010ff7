package app

import (
	"context"
	"fmt"

	envelopeRepository "github.com/allisson/modelguard/internal/envelope/repository"
	envelopeUseCase "github.com/allisson/modelguard/internal/envelope/usecase"
)

// RecordRepository returns the wrapped content key record repository.
func (c *Container) RecordRepository() envelopeUseCase.RecordRepository {
	c.recordRepoInit.Do(func() {
		c.recordRepo = envelopeRepository.NewFileRecordRepository(c.config.WrappedKeyPath)
	})
	return c.recordRepo
}

// ContentKeyUseCase returns the envelope key manager for the configured master key alias.
func (c *Container) ContentKeyUseCase(ctx context.Context) (envelopeUseCase.ContentKeyUseCase, error) {
	var err error
	c.contentKeysInit.Do(func() {
		c.contentKeys, err = c.initContentKeyUseCase(ctx)
		if err != nil {
			c.initErrors["contentKeys"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["contentKeys"]; exists {
		return nil, storedErr
	}
	return c.contentKeys, nil
}

func (c *Container) initContentKeyUseCase(ctx context.Context) (envelopeUseCase.ContentKeyUseCase, error) {
	vault, err := c.Vault(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get vault for content key use case: %w", err)
	}

	baseUseCase := envelopeUseCase.NewContentKeyUseCase(
		vault,
		c.RecordRepository(),
		c.config.MasterKeyAlias,
		c.Logger(),
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for content key use case: %w", err)
		}
		return envelopeUseCase.NewContentKeyUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
