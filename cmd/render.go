// cmd/render.go

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/invoice-builder/pkg/export"
	"github.com/invoice-builder/pkg/invoice"
	"github.com/invoice-builder/pkg/session"
	"github.com/invoice-builder/pkg/sheets"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "validate a YAML draft and write it as PDF",
		ArgsUsage: "DRAFT.yaml",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output directory", Value: "."},
			&cli.BoolFlag{Name: "send", Usage: "also send the invoice to the spreadsheet webhook"},
			&cli.StringFlag{Name: "orientation", Value: "portrait", Usage: "portrait or landscape"},
			&cli.StringFlag{Name: "page-size", Value: "A4", Usage: "PDF page size"},
		},
		Action: render,
	}
}

func loadDraft(path string) (invoice.Draft, error) {
	var d invoice.Draft
	data, err := os.ReadFile(path)
	if err != nil {
		return d, fmt.Errorf("read draft: %w", err)
	}
	if err := yaml.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("decode draft %s: %w", path, err)
	}
	return d, nil
}

func render(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("render needs exactly one draft file", 2)
	}
	draft, err := loadDraft(c.Args().First())
	if err != nil {
		return err
	}

	inv := invoice.New()
	if err := draft.Apply(inv); err != nil {
		return err
	}

	logger := newLogger(c)
	cfg := session.Config{
		Renderer: export.NewPDFRenderer(logger),
		Options:  exportOptions(c),
		Logger:   logger,
	}
	if c.Bool("send") {
		resolver, closeStore, err := newResolver(c.Context, c)
		defer closeStore()
		if err != nil {
			return err
		}
		cfg.Remote = sheets.NewClient(resolver, nil, logger)
	}
	sess := session.New(inv, cfg)

	doc, err := sess.ExportPDF(c.Context)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	path := filepath.Join(c.String("out"), doc.Filename)
	if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	totals := sess.Totals()
	fmt.Fprintf(c.App.Writer, "%s\nsubtotal %s  tax %s  total %s\n",
		path, totals.FormattedSubtotal, totals.FormattedTaxAmount, totals.FormattedTotal)

	if c.Bool("send") {
		res, err := sess.SaveRemote(c.Context)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		fmt.Fprintln(c.App.Writer, res.Message)
	}
	return nil
}
