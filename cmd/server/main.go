// Package main implements the entry point for the meeting action
// extractor API server: note submission, task review and export, all
// scoped per tenant behind trusted identity headers.
package main

import (
	"log"
)

// main is the entry point for the API server. It initializes
// configuration, logging and the JSON file store, then serves HTTP
// until interrupted.
func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.run(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}
