package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/modelguard/cmd/app/commands"
	cryptoService "github.com/allisson/modelguard/internal/crypto/service"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "generate-kms-key",
			Usage: "Generate a local base64key:// KMS key URI for development",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunGenerateKMSKey(cryptoService.NewKMSService(), commands.Output)
			},
		},
		{
			Name:  "create-master-key",
			Usage: "Create the master key that wraps content keys, sealed by the KMS",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "alias",
					Aliases: []string{"a"},
					Usage:   "Master key alias (defaults to MASTER_KEY_ALIAS)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer()
				if err != nil {
					return err
				}
				defer commands.CloseContainer(container, container.Logger())

				vault, err := container.Vault(ctx)
				if err != nil {
					return err
				}

				alias := cmd.String("alias")
				if alias == "" {
					alias = container.Config().MasterKeyAlias
				}

				return commands.RunCreateMasterKey(
					ctx,
					vault,
					container.Logger(),
					commands.Output,
					alias,
				)
			},
		},
		{
			Name:  "store-key",
			Usage: "Wrap and store a base64 content key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "source",
					Aliases: []string{"s"},
					Usage:   "Key URI (https://, s3://, gs://, file://)",
				},
				&cli.StringFlag{
					Name:    "file",
					Aliases: []string{"f"},
					Usage:   "Local file holding the base64 key",
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

				return commands.RunStoreKey(
					ctx,
					contentKeys,
					container.Fetcher(),
					container.Logger(),
					cmd.String("source"),
					cmd.String("file"),
				)
			},
		},
		{
			Name:  "verify-key",
			Usage: "Unwrap the stored content key and print its length and fingerprint",
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

				return commands.RunVerifyKey(ctx, contentKeys, commands.Output)
			},
		},
	}
}
