// cmd/endpoint.go

package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func endpointCommand() *cli.Command {
	return &cli.Command{
		Name:  "endpoint",
		Usage: "show or store the spreadsheet webhook URL",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "print the URL in use and where it comes from",
				Action: func(c *cli.Context) error {
					resolver, closeStore, err := newResolver(c.Context, c)
					defer closeStore()
					if err != nil {
						return err
					}
					u, origin, err := resolver.Lookup(c.Context)
					if err != nil {
						return err
					}
					if u == "" {
						u = "(not configured)"
					}
					fmt.Fprintf(c.App.Writer, "%s\t%s\n", u, origin)
					return nil
				},
			},
			{
				Name:      "set",
				Usage:     "store a new URL",
				ArgsUsage: "URL",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("set needs exactly one URL", 2)
					}
					resolver, closeStore, err := newResolver(c.Context, c)
					defer closeStore()
					if err != nil {
						return err
					}
					if err := resolver.SetEndpoint(c.Context, c.Args().First()); err != nil {
						return cli.Exit(err.Error(), 1)
					}
					fmt.Fprintln(c.App.Writer, "webhook URL saved")
					return nil
				},
			},
		},
	}
}
