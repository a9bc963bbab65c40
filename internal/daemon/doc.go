// Package daemon runs the ytfetch HTTP API: download requests, file serving,
// history, health, and the demo weather endpoint. A file lock enforces a
// single daemon instance per download root.
package daemon
