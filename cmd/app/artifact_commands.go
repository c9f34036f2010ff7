package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/modelguard/cmd/app/commands"
)

func getArtifactCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "seal",
			Usage: "Encrypt a model file with the stored content key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "in",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Plaintext model file",
				},
				&cli.StringFlag{
					Name:     "out",
					Aliases:  []string{"o"},
					Required: true,
					Usage:    "Encrypted artifact path",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer()
				if err != nil {
					return err
				}
				defer commands.CloseContainer(container, container.Logger())

				contentKeys, err := container.ContentKeyUseCase(ctx)
				if err != nil {
					return err
				}
				engine, err := container.Engine()
				if err != nil {
					return err
				}

				return commands.RunSeal(
					ctx,
					contentKeys,
					engine,
					container.Logger(),
					cmd.String("in"),
					cmd.String("out"),
				)
			},
		},
		{
			Name:  "decrypt",
			Usage: "Decrypt an artifact with the stored content key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "in",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Encrypted artifact",
				},
				&cli.StringFlag{
					Name:    "out",
					Aliases: []string{"o"},
					Usage:   "Plaintext path (defaults to a fresh .dec file)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer()
				if err != nil {
					return err
				}
				defer commands.CloseContainer(container, container.Logger())

				contentKeys, err := container.ContentKeyUseCase(ctx)
				if err != nil {
					return err
				}
				engine, err := container.Engine()
				if err != nil {
					return err
				}

				return commands.RunDecrypt(
					ctx,
					contentKeys,
					engine,
					commands.Output,
					cmd.String("in"),
					cmd.String("out"),
				)
			},
		},
		{
			Name:  "fetch",
			Usage: "Download an artifact with retries",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "source",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Artifact URI (https://, s3://, gs://, file://)",
				},
				&cli.StringFlag{
					Name:     "dest",
					Aliases:  []string{"d"},
					Required: true,
					Usage:    "Local destination path",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer()
				if err != nil {
					return err
				}
				defer commands.CloseContainer(container, container.Logger())

				return commands.RunFetch(
					ctx,
					container.Fetcher(),
					container.Logger(),
					cmd.String("source"),
					cmd.String("dest"),
				)
			},
		},
		{
			Name:  "provision",
			Usage: "Fetch an artifact and its content key, then store the key wrapped",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "artifact-source",
					Aliases:  []string{"a"},
					Required: true,
					Usage:    "Encrypted artifact URI",
				},
				&cli.StringFlag{
					Name:     "key-source",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Base64 content key URI",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer()
				if err != nil {
					return err
				}
				defer commands.CloseContainer(container, container.Logger())

				l, err := container.Loader(ctx)
				if err != nil {
					return err
				}

				return commands.RunProvision(
					ctx,
					l,
					commands.Output,
					cmd.String("artifact-source"),
					cmd.String("key-source"),
				)
			},
		},
		{
			Name:  "run",
			Usage: "Decrypt an artifact, hash the plaintext and delete it",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "artifact",
					Aliases:  []string{"a"},
					Required: true,
					Usage:    "Local encrypted artifact",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer()
				if err != nil {
					return err
				}
				defer commands.CloseContainer(container, container.Logger())

				l, err := container.Loader(ctx)
				if err != nil {
					return err
				}

				return commands.RunModel(ctx, l, commands.Output, cmd.String("artifact"))
			},
		},
	}
}
