package fetch

import (
	"net/url"
	"path"
	"strings"
)

// VideoID derives the stable video identifier from a watch URL. The v query
// parameter wins; otherwise the last non-empty path segment is used (shorts,
// youtu.be links). Fails when neither yields an id.
func VideoID(rawURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", newError(KindInvalidURL, "unable to parse URL: "+err.Error(), 0)
	}

	if id := parsed.Query().Get("v"); id != "" {
		return id, nil
	}
	if id := path.Base(strings.TrimRight(parsed.Path, "/")); id != "" && id != "." && id != "/" {
		return id, nil
	}
	return "", newError(KindInvalidURL, "unable to extract video ID from the URL", 0)
}
