// Command resourcestub serves the teaching materials resource API from a
// JSON fixture file, or from memory when no file is configured. The
// fixture is written back on shutdown.
package main

import (
	"log"

	"github.com/patric-chuzhbe/materials/internal/app"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	stub, err := app.NewStub()
	if err != nil {
		return err
	}
	defer stub.Close()

	return stub.Run()
}
