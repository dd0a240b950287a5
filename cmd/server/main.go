// Package main implements the entry point for the Brevio API server,
// which accepts user notes over HTTP and summarizes them asynchronously
// through an in-process job queue and worker pool.
package main

import (
	"context"
	"log"
)

func main() {
	app, err := newApplication()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.run(context.Background()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
