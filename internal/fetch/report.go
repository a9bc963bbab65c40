package fetch

import (
	"fmt"
	"strings"
	"time"

	"ytfetch/internal/cookies"
)

var timeNow = time.Now

// exhaustedReport aggregates everything a caller needs to act on a fully
// blocked download into one diagnostic string.
func exhaustedReport(strategyCount int, statuses []cookies.BrowserStatus, jar jarInfo) string {
	var b strings.Builder

	fmt.Fprintf(&b, "YouTube blocked all %d authentication strategies with bot checks.", strategyCount)

	switch {
	case jar.valid:
		fmt.Fprintf(&b, " Valid cookie file: yes (%s).", jar.resolvedPath)
	case jar.resolvedPath != "":
		fmt.Fprintf(&b, " Valid cookie file: no (%s has %d unexpired cookies).",
			jar.resolvedPath, jar.report.Valid)
	default:
		b.WriteString(" Valid cookie file: no (none found).")
	}

	available := cookies.Available(statuses)
	if len(available) == 0 {
		b.WriteString(" Available browsers: None.")
	} else {
		fmt.Fprintf(&b, " Available browsers: %s.", strings.Join(available, ", "))
	}
	for _, status := range statuses {
		if !status.Available && status.Detail != "" {
			fmt.Fprintf(&b, " [%s unavailable: %s]", status.Browser, status.Detail)
		}
	}

	b.WriteString(" Remediation: refresh the cookie jar ('ytfetch cookies export'), " +
		"wait 10-15 minutes before retrying, or change the network egress (VPN or different IP).")

	return b.String()
}
