// Package mocks provides centralized mock implementations for testing.
//
// Instead of defining inline mocks in individual test files, these
// standardized implementations are shared across test packages. Each mock
// exposes function fields so a test can override a single method, plus a
// small in-memory default implementation for the common happy path.
//
// When adding a new mock:
//  1. Create a new file named after the interface being mocked
//  2. Implement the mock struct with function fields for each interface method
//  3. Provide sensible in-memory defaults where that keeps tests short
package mocks
