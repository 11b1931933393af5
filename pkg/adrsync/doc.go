// Package adrsync bootstraps Architecture Decision Records across a list of
// GitHub repositories.
//
// For each repository a Worker clones a fresh working copy, ensures the
// working branch, writes ADRs/ADR-000.md from a shared template, appends an
// ADR section to README.md when none is present, commits only when something
// changed, pushes and opens a pull request. A Runner drives the Worker over
// the configured list sequentially and collects a Report.
//
// Every step is idempotent: running the same configuration twice leaves the
// second run with nothing to commit.
package adrsync
