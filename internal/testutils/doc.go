// Package testutils provides helpers for integration tests that need a real
// PostgreSQL database. Tests opt in via the DATABASE_URL environment variable;
// without it the integration test binaries exit without running anything.
package testutils
