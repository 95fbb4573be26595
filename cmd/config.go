// cmd/config.go

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/invoice-builder/pkg/export"
	"github.com/invoice-builder/pkg/settings"
	"github.com/urfave/cli/v2"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "settings-file",
			Usage:   "YAML file holding the stored webhook URL",
			Value:   "invoice-settings.yaml",
			EnvVars: []string{"INVOICE_SETTINGS_FILE"},
		},
		&cli.StringFlag{
			Name:    "settings-dsn",
			Usage:   "Postgres DSN; when set, the webhook URL is stored there instead of the settings file",
			EnvVars: []string{"INVOICE_SETTINGS_DSN"},
		},
		&cli.StringFlag{
			Name:    "webhook-url",
			Usage:   "spreadsheet webhook URL used when none is stored",
			EnvVars: []string{settings.EnvWebhookURL},
		},
		&cli.StringFlag{
			Name:    "fallback-url",
			Usage:   "webhook URL used when neither a stored nor an environment URL exists",
			EnvVars: []string{"INVOICE_FALLBACK_URL"},
		},
		&cli.StringFlag{
			Name:    "font",
			Usage:   "TrueType font for PDF output (needed for Japanese text)",
			EnvVars: []string{"INVOICE_FONT_PATH"},
		},
		&cli.BoolFlag{
			Name:  "quiet",
			Usage: "disable logging",
		},
	}
}

func newLogger(c *cli.Context) *log.Logger {
	if c.Bool("quiet") {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "invoice: ", log.LstdFlags)
}

// openStore picks the Postgres store when a DSN is given, the settings file otherwise.
// The returned close function is never nil.
func openStore(ctx context.Context, c *cli.Context) (settings.Store, func(), error) {
	if dsn := c.String("settings-dsn"); dsn != "" {
		store, err := settings.OpenPGStore(ctx, dsn)
		if err != nil {
			return nil, func() {}, err
		}
		return store, func() { _ = store.Close() }, nil
	}
	return settings.NewFileStore(c.String("settings-file")), func() {}, nil
}

func newResolver(ctx context.Context, c *cli.Context) (*settings.Resolver, func(), error) {
	store, closeStore, err := openStore(ctx, c)
	if err != nil {
		return nil, closeStore, fmt.Errorf("open settings: %w", err)
	}
	return &settings.Resolver{
		Store:    store,
		EnvURL:   c.String("webhook-url"),
		Fallback: c.String("fallback-url"),
	}, closeStore, nil
}

func exportOptions(c *cli.Context) export.Options {
	opts := export.DefaultOptions()
	opts.FontPath = c.String("font")
	if c.IsSet("orientation") {
		opts.Orientation = c.String("orientation")
	}
	if c.IsSet("page-size") {
		opts.PageSize = c.String("page-size")
	}
	return opts
}
