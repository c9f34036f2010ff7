package main

import (
	"github.com/urfave/cli/v3"

	"github.com/allisson/modelguard/internal/app"
	"github.com/allisson/modelguard/internal/config"
)

func getCommands() []*cli.Command {
	cmds := []*cli.Command{}
	cmds = append(cmds, getKeyCommands()...)
	cmds = append(cmds, getArtifactCommands()...)
	return cmds
}

// newContainer loads and validates the configuration and builds a container.
func newContainer() (*app.Container, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return app.NewContainer(cfg), nil
}
