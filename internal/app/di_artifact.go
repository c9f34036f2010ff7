package app

import (
	"context"
	"fmt"

	artifactUseCase "github.com/allisson/modelguard/internal/artifact/usecase"
	"github.com/allisson/modelguard/internal/loader"
	"github.com/allisson/modelguard/internal/transfer"
)

// Engine returns the artifact encryption engine.
func (c *Container) Engine() (artifactUseCase.Engine, error) {
	var err error
	c.engineInit.Do(func() {
		c.engine, err = c.initEngine()
		if err != nil {
			c.initErrors["engine"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["engine"]; exists {
		return nil, storedErr
	}
	return c.engine, nil
}

// Fetcher returns the transfer fetcher.
func (c *Container) Fetcher() *transfer.Fetcher {
	c.fetcherInit.Do(func() {
		c.fetcher = transfer.NewFetcher(transfer.Config{
			MaxRetries: uint64(c.config.TransferMaxRetries),
			Timeout:    c.config.TransferTimeout,
		}, c.Logger())
	})
	return c.fetcher
}

// Loader returns the model loader.
func (c *Container) Loader(ctx context.Context) (*loader.Loader, error) {
	var err error
	c.loaderInit.Do(func() {
		c.loader, err = c.initLoader(ctx)
		if err != nil {
			c.initErrors["loader"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["loader"]; exists {
		return nil, storedErr
	}
	return c.loader, nil
}

func (c *Container) initEngine() (artifactUseCase.Engine, error) {
	baseEngine := artifactUseCase.NewEngine(artifactUseCase.Config{
		ChunkSize: c.config.DecryptChunkSize,
		OutputDir: c.config.DecryptOutputDir,
	}, c.Logger())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for engine: %w", err)
		}
		return artifactUseCase.NewEngineWithMetrics(baseEngine, businessMetrics), nil
	}

	return baseEngine, nil
}

func (c *Container) initLoader(ctx context.Context) (*loader.Loader, error) {
	contentKeys, err := c.ContentKeyUseCase(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get content key use case for loader: %w", err)
	}

	engine, err := c.Engine()
	if err != nil {
		return nil, fmt.Errorf("failed to get engine for loader: %w", err)
	}

	return loader.NewLoader(contentKeys, engine, c.Fetcher(), c.config.ArtifactDir, c.Logger()), nil
}
