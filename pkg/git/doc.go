// Package git wraps a local git working copy for adrsync.
//
// All operations go through go-git, so no git binary is needed at runtime.
// A Repository is opened (or cloned) once per synced repository and is not
// safe for concurrent use.
package git
