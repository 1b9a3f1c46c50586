// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/clearcove/phicrypt/cmd/app/commands"
	"github.com/clearcove/phicrypt/internal/app"
	"github.com/clearcove/phicrypt/internal/config"
	phiService "github.com/clearcove/phicrypt/internal/phi/service"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "phicrypt",
		Usage:   "PHI field encryption and key rotation service",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					return commands.RunMigrations(
						container.Logger(),
						cfg.DBDriver,
						cfg.DBConnectionString,
					)
				},
			},
			{
				Name:  "generate-key",
				Usage: "Generate a new PHI encryption key (refused in production)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "kms-provider",
						Usage: "KMS provider for key wrapping (gcpkms, awskms, azurekeyvault, hashivault, localsecrets)",
					},
					&cli.StringFlag{
						Name:  "kms-key-uri",
						Usage: "KMS key URI used to wrap the generated key",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					return commands.RunGenerateKey(
						ctx,
						phiService.NewKMSService(),
						container.Logger(),
						os.Stdout,
						cfg.Environment,
						cmd.String("kms-provider"),
						cmd.String("kms-key-uri"),
					)
				},
			},
			{
				Name:  "rotate-keys",
				Usage: "Re-encrypt all stored PHI from the old key to the new key",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "old-key",
						Required: true,
						Usage:    "Current 64-character hex encryption key",
					},
					&cli.StringFlag{
						Name:     "new-key",
						Required: true,
						Usage:    "Replacement 64-character hex encryption key",
					},
					&cli.StringFlag{
						Name:     "reason",
						Aliases:  []string{"r"},
						Required: true,
						Usage:    "Reason recorded in the rotation audit entry",
					},
					&cli.IntFlag{
						Name:    "batch-size",
						Aliases: []string{"b"},
						Value:   0,
						Usage:   "Records per batch (0 uses the configured default)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunRotateKeys(
						ctx,
						cmd.String("old-key"),
						cmd.String("new-key"),
						cmd.String("reason"),
						int(cmd.Int("batch-size")),
					)
				},
			},
			{
				Name:  "validate-key",
				Usage: "Run the encryption key self-check",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunValidateKey(ctx, os.Stdout)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
