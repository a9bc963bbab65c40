// Package history persists one record per fetch outcome in SQLite so the API
// and CLI can report what was downloaded, with which strategy, and why
// failures happened.
package history
