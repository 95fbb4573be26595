// cmd/main.go

package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	// .env.local overrides .env; neither has to exist
	for _, f := range []string{".env.local", ".env"} {
		if err := godotenv.Load(f); err == nil {
			log.Printf("loaded environment from %s", f)
		}
	}

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "invoice",
		Usage: "build invoices, export them as PDF and send them to a spreadsheet",
		Flags: globalFlags(),
		Commands: []*cli.Command{
			serveCommand(),
			renderCommand(),
			endpointCommand(),
		},
	}
}
