// Package main hosts the ytfetch CLI entrypoint and command graph.
//
// The Cobra-based command tree surfaces the download service from the
// terminal: running the API daemon, one-shot fetches, cookie jar inspection
// and export, download history, and configuration scaffolding. It centralizes
// configuration resolution and logger setup so subcommands can focus on user
// experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
