// Package main implements the entry point for the Taskwell API server,
// which serves authenticated per-user task lists backed by PostgreSQL.
package main

import (
	"context"
	"log"
)

// main is the entry point for the taskwell-api server.
// It initializes configuration, logging, the database connection and the
// dependency graph, then runs the HTTP server until shutdown.
func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	router := app.setupRouter()

	if err := app.startHTTPServer(context.Background(), router); err != nil {
		app.cleanup()
		log.Fatalf("Server error: %v", err)
	}
}
