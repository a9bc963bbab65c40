package cookies

import (
	"context"
	"log/slog"

	"ytfetch/internal/logging"
)

// Browsers is the fixed probe order for browser cookie stores.
var Browsers = []string{"chrome", "firefox", "safari", "edge"}

// BrowserProber checks a single browser's cookie store without downloading.
type BrowserProber interface {
	ProbeBrowserCookies(ctx context.Context, browser string) error
}

// BrowserStatus reports the availability of one browser's cookie store.
// Detail retains the suppressed probe failure for diagnostics.
type BrowserStatus struct {
	Browser   string
	Available bool
	Detail    string
}

// ProbeBrowsers checks every known browser in order. Probe failures never
// propagate; they mark the browser unavailable and keep the cause.
func ProbeBrowsers(ctx context.Context, prober BrowserProber, logger *slog.Logger) []BrowserStatus {
	if logger == nil {
		logger = logging.NewNop()
	}
	statuses := make([]BrowserStatus, 0, len(Browsers))
	for _, browser := range Browsers {
		status := BrowserStatus{Browser: browser}
		if err := prober.ProbeBrowserCookies(ctx, browser); err != nil {
			status.Detail = err.Error()
			logger.Debug("browser cookies unavailable",
				logging.String("browser", browser),
				logging.Error(err))
		} else {
			status.Available = true
			logger.Debug("browser cookies available", logging.String("browser", browser))
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// Available filters statuses down to the ordered list of usable browser names.
func Available(statuses []BrowserStatus) []string {
	names := make([]string, 0, len(statuses))
	for _, status := range statuses {
		if status.Available {
			names = append(names, status.Browser)
		}
	}
	return names
}
