package main

import (
	"log"
	"os"
)

func main() {
	defer cleanup()

	if len(os.Args) > 3 {
		os.Exit(2) // want `os.Exit skips the deferred calls of main`
	}
	log.Fatal("stop") // want `log.Fatal skips the deferred calls of main`
}

func cleanup() {}

func run() error {
	defer cleanup()
	return nil
}

func exitWithoutDefer() {
	if err := run(); err != nil {
		log.Fatalln(err)
	}
	os.Exit(0)
}

func closures() {
	func() {
		defer cleanup()
		log.Fatalf("closure %d", 1) // want `log.Fatalf skips the deferred calls of a function literal`
	}()
	log.Fatal("the closure defer is not ours")
}
