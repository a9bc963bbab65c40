package cookies

import (
	"os"
	"path/filepath"
	"strings"
)

// secretMountPath is where hosting platforms mount secret files.
const secretMountPath = "/etc/secrets/youtube_cookies.txt"

// Resolve returns the first existing cookie jar from the candidate chain:
// the explicit argument, the configured override, a local cookies.txt, the
// canonical jar inside baseDir, then the platform secret mount. Relative
// candidates are anchored to baseDir. Returns "" when no candidate exists.
// Read-only: resolution never creates or mutates files.
func Resolve(explicit, override, baseDir string) string {
	candidates := make([]string, 0, 5)
	if strings.TrimSpace(explicit) != "" {
		candidates = append(candidates, explicit)
	}
	if strings.TrimSpace(override) != "" {
		candidates = append(candidates, override)
	}
	candidates = append(candidates,
		"cookies.txt",
		filepath.Join(baseDir, "youtube.txt"),
		secretMountPath,
	)

	for _, candidate := range candidates {
		path := strings.TrimSpace(candidate)
		if path == "" {
			continue
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
