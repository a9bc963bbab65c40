// Package fetch downloads single YouTube videos through yt-dlp, rotating
// authentication strategies and client identities until one attempt gets past
// bot checks.
//
// The pipeline per call: derive the video id, resolve and validate a cookie
// jar, probe browser cookie stores, plan an ordered strategy list, then walk
// strategy x identity combinations sequentially. Bot-challenge failures
// advance the cursor; any other engine failure aborts immediately. Concurrent
// calls for the same video id are serialized with a per-id file lock and the
// engine writes into a partial directory that is renamed into place on
// success, so readers never observe half-written files.
package fetch
