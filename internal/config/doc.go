// Package config loads and validates the TOML configuration used by the
// ytfetch CLI and daemon.
//
// Load resolves the config file location, applies defaults, expands paths,
// and pulls environment fallbacks (YTFETCH_DOWNLOAD_DIR, YOUTUBE_COOKIES_PATH)
// exactly once so the rest of the codebase never reads ambient process state.
package config
