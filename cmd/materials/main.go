// Command materials talks to the teaching materials resource API.
//
// Usage:
//
//	materials [flags] <command> [arguments]
//
// Commands:
//
//	download [file]          export the materials as CSV
//	get <id>                 print one material
//	delete <id>              delete one material
//	delete-batch <id>...     delete several materials
//	update <json>            update a material, the JSON must carry its id
//	page <current> <size>    print one page of materials
//	whoami                   print the user stored in the session token
//	anchor <url> <id>        open url in headless Chrome and scroll to #id
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/patric-chuzhbe/materials/internal/app"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	theApp, err := app.New()
	if err != nil {
		return err
	}
	defer theApp.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return execute(ctx, theApp, theApp.Config().Args, os.Stdout)
}
