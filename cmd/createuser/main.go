// Package main implements the out-of-band user provisioning utility.
//
// Usage:
//
//	createuser <email> <name> <password>
//
// Users are never created through the HTTP API; an operator runs this tool
// against the same database and configuration the server uses.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/taskwell/taskwell-api/internal/config"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/platform/logger"
	"github.com/taskwell/taskwell-api/internal/platform/postgres"
	"github.com/taskwell/taskwell-api/internal/service/auth"
	"github.com/taskwell/taskwell-api/internal/store"
)

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintf(os.Stderr, "usage: %s <email> <name> <password>\n", os.Args[0])
		os.Exit(2)
	}
	email, name, password := os.Args[1], os.Args[2], os.Args[3]

	if err := run(email, name, password); err != nil {
		fmt.Printf("Error creating user: %v\n", err)
		os.Exit(1)
	}
}

// run provisions a single user. A duplicate email is reported to the
// operator but is not an internal error; anything else rolls the
// transaction back and surfaces as a non-zero exit.
func run(email, name, password string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(config.ServerConfig{
		Port:     cfg.Server.Port,
		LogLevel: "warn", // Keep tool output readable; failures still log
	})
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := postgres.Open(cfg.Database, appLogger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			appLogger.Warn("failed to close database", "error", closeErr)
		}
	}()

	// Make sure the schema exists; the tool may run before the server ever has.
	if err := postgres.Migrate(db, appLogger); err != nil {
		return err
	}

	user, err := domain.NewUser(email, name, password)
	if err != nil {
		return err
	}

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	hashed, err := hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = "" // Plaintext is never persisted or logged

	ctx := context.Background()
	userStore := postgres.NewPostgresUserStore(db, appLogger)

	err = store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := userStore.WithTx(tx)

		if _, err := txStore.GetByEmail(ctx, email); err == nil {
			return store.ErrEmailExists
		} else if !store.IsNotFoundError(err) {
			return err
		}

		return txStore.Create(ctx, user)
	})

	if errors.Is(err, store.ErrEmailExists) {
		fmt.Printf("User with email %s already exists.\n", email)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("User %q created successfully!\n", name)
	fmt.Printf("  Email: %s\n", email)
	fmt.Printf("  ID: %s\n", user.ID)
	return nil
}
