// cmd/serve.go

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/invoice-builder/pkg/export"
	"github.com/invoice-builder/pkg/invoice"
	"github.com/invoice-builder/pkg/server"
	"github.com/invoice-builder/pkg/session"
	"github.com/invoice-builder/pkg/sheets"
	"github.com/urfave/cli/v2"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the editor and preview over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Value:   ":8080",
				Usage:   "listen address",
				EnvVars: []string{"INVOICE_ADDR"},
			},
			&cli.StringFlag{Name: "orientation", Value: "portrait", Usage: "portrait or landscape"},
			&cli.StringFlag{Name: "page-size", Value: "A4", Usage: "PDF page size"},
		},
		Action: serve,
	}
}

func serve(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := newLogger(c)
	resolver, closeStore, err := newResolver(ctx, c)
	defer closeStore()
	if err != nil {
		return err
	}

	client := sheets.NewClient(resolver, nil, logger)
	sess := session.New(invoice.New(), session.Config{
		Renderer: export.NewPDFRenderer(logger),
		Remote:   client,
		Options:  exportOptions(c),
		Logger:   logger,
	})

	httpServer := &http.Server{
		Addr:              c.String("addr"),
		Handler:           server.New(sess, resolver, client, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Printf("listening on %s", httpServer.Addr)
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
