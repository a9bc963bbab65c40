package cookies

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Report summarizes the contents of a cookie jar.
type Report struct {
	Exists     bool
	HasMarkers bool
	Total      int
	Valid      int
	Expired    int
	Session    int
	ModTime    time.Time
}

var requiredMarkers = []string{".youtube.com", "TRUE", "/"}

// Inspect parses a Netscape cookie jar and counts its cookies relative to
// now. Lines that fail to parse are skipped, never fatal.
func Inspect(path string, now time.Time) Report {
	var report Report

	info, err := os.Stat(path)
	if err != nil {
		return report
	}
	report.Exists = true
	report.ModTime = info.ModTime()

	data, err := os.ReadFile(path)
	if err != nil {
		return report
	}
	content := string(data)

	for _, marker := range requiredMarkers {
		if !strings.Contains(content, marker) {
			return report
		}
	}
	report.HasMarkers = true

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 5 {
			continue
		}
		expiry, err := strconv.ParseInt(strings.TrimSpace(fields[4]), 10, 64)
		if err != nil {
			continue
		}
		report.Total++
		switch {
		case expiry == 0:
			// Session cookie, no fixed expiry.
			report.Session++
			report.Valid++
		case expiry > now.Unix():
			report.Valid++
		default:
			report.Expired++
		}
	}
	return report
}

// Usable reports whether the jar holds at least minValid unexpired cookies.
func (r Report) Usable(minValid int) bool {
	if minValid <= 0 {
		minValid = 1
	}
	return r.Exists && r.HasMarkers && r.Valid >= minValid
}

// Validate inspects the jar at path against the current clock.
func Validate(path string, minValid int) bool {
	return Inspect(path, time.Now()).Usable(minValid)
}
