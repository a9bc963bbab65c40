// Package ytdlp wraps the yt-dlp command line downloader.
//
// The client shells out through an injectable Executor so tests can simulate
// engine behaviour without a binary. Besides single-video downloads it exposes
// the browser cookie integration used for availability probes and jar export.
package ytdlp
