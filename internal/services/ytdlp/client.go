package ytdlp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Request describes a single-video download. CookiesFile and
// CookiesFromBrowser are mutually exclusive; when both are empty the engine
// runs unauthenticated and no cookie flag is passed at all.
type Request struct {
	URL        string
	OutputPath string
	Format     string
	UserAgent  string
	Referer    string
	Origin     string

	Retries          int
	FragmentRetries  int
	ExtractorRetries int
	SleepInterval    int
	MaxSleepInterval int

	CookiesFile        string
	CookiesFromBrowser string
}

// Downloader defines the engine behaviour required by the fetch pipeline.
type Downloader interface {
	Download(ctx context.Context, req Request, progress func(string)) error
	ProbeBrowserCookies(ctx context.Context, browser string) error
	ExportBrowserCookies(ctx context.Context, browser, jarPath string) error
}

// Executor abstracts command execution for testability. Implementations may
// invoke onOutput concurrently (the default executor scans stdout and stderr
// from separate goroutines), so callbacks must synchronize any shared state.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onOutput func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithProbeTimeout overrides the browser probe timeout.
func WithProbeTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.probeTimeout = timeout
		}
	}
}

// Client wraps yt-dlp CLI interactions.
type Client struct {
	binary       string
	probeTimeout time.Duration
	exec         Executor
}

// A lightweight, always-available watch page used for no-download probes.
const probeURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

const defaultProbeTimeout = 15 * time.Second

// New constructs a yt-dlp client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("yt-dlp binary required")
	}
	client := &Client{
		binary:       binary,
		probeTimeout: defaultProbeTimeout,
		exec:         commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Download fetches a single video. Engine output lines are forwarded to
// progress when provided; on failure the returned error carries the engine's
// ERROR lines so callers can interpret the failure reason.
func (c *Client) Download(ctx context.Context, req Request, progress func(string)) error {
	if strings.TrimSpace(req.URL) == "" {
		return errors.New("url required")
	}
	if strings.TrimSpace(req.OutputPath) == "" {
		return errors.New("output path required")
	}

	args := downloadArgs(req)

	// The executor delivers stdout and stderr lines from separate goroutines.
	var mu sync.Mutex
	var errLines []string
	err := c.exec.Run(ctx, c.binary, args, func(line string) {
		if isErrorLine(line) {
			mu.Lock()
			errLines = append(errLines, strings.TrimSpace(line))
			mu.Unlock()
		}
		if progress != nil {
			progress(line)
		}
	})
	if err != nil {
		mu.Lock()
		defer mu.Unlock()
		if len(errLines) > 0 {
			return fmt.Errorf("yt-dlp: %s: %w", strings.Join(errLines, "; "), err)
		}
		return fmt.Errorf("yt-dlp: %w", err)
	}
	return nil
}

// ProbeBrowserCookies checks whether yt-dlp can read usable cookies from the
// named browser. No media is downloaded. A nil return means cookies are
// available; any error means they are not (missing browser, locked profile,
// permission denial all surface here).
func (c *Client) ProbeBrowserCookies(ctx context.Context, browser string) error {
	browser = strings.TrimSpace(browser)
	if browser == "" {
		return errors.New("browser name required")
	}

	probeCtx := ctx
	if c.probeTimeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, c.probeTimeout)
		defer cancel()
	}

	args := []string{
		"--cookies-from-browser", browser,
		"--simulate",
		"--skip-download",
		"--quiet",
		probeURL,
	}
	if err := c.exec.Run(probeCtx, c.binary, args, nil); err != nil {
		return fmt.Errorf("probe %s cookies: %w", browser, err)
	}
	return nil
}

// ExportBrowserCookies writes the named browser's cookies to jarPath in
// Netscape format via a no-download engine run.
func (c *Client) ExportBrowserCookies(ctx context.Context, browser, jarPath string) error {
	browser = strings.TrimSpace(browser)
	if browser == "" {
		return errors.New("browser name required")
	}
	if strings.TrimSpace(jarPath) == "" {
		return errors.New("jar path required")
	}

	args := []string{
		"--cookies-from-browser", browser,
		"--cookies", jarPath,
		"--simulate",
		"--skip-download",
		probeURL,
	}
	if err := c.exec.Run(ctx, c.binary, args, nil); err != nil {
		return fmt.Errorf("export %s cookies: %w", browser, err)
	}
	return nil
}

// Version reports the installed yt-dlp version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	var mu sync.Mutex
	var version string
	err := c.exec.Run(ctx, c.binary, []string{"--version"}, func(line string) {
		mu.Lock()
		defer mu.Unlock()
		if version == "" {
			version = strings.TrimSpace(line)
		}
	})
	if err != nil {
		return "", fmt.Errorf("yt-dlp version: %w", err)
	}
	if version == "" {
		return "", errors.New("yt-dlp printed no version")
	}
	return version, nil
}

func downloadArgs(req Request) []string {
	args := []string{
		"--format", req.Format,
		"--output", req.OutputPath,
		"--no-playlist",
		"--newline",
		"--merge-output-format", "mp4",
	}
	args = appendCount(args, "--retries", req.Retries)
	args = appendCount(args, "--fragment-retries", req.FragmentRetries)
	args = appendCount(args, "--extractor-retries", req.ExtractorRetries)
	args = appendCount(args, "--sleep-interval", req.SleepInterval)
	args = appendCount(args, "--max-sleep-interval", req.MaxSleepInterval)
	if req.UserAgent != "" {
		args = append(args, "--user-agent", req.UserAgent)
	}
	if req.Referer != "" {
		args = append(args, "--referer", req.Referer)
	}
	if req.Origin != "" {
		args = append(args, "--add-headers", "Origin:"+req.Origin)
	}
	// Fetching the alternate manifests is a common trigger for bot checks,
	// so stay on the plain formats.
	args = append(args, "--extractor-args", "youtube:skip=hls,dash")

	switch {
	case req.CookiesFile != "":
		args = append(args, "--cookies", req.CookiesFile)
	case req.CookiesFromBrowser != "":
		args = append(args, "--cookies-from-browser", req.CookiesFromBrowser)
	}

	return append(args, req.URL)
}

func appendCount(args []string, flag string, value int) []string {
	if value <= 0 {
		return args
	}
	return append(args, flag, strconv.Itoa(value))
}

func isErrorLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "ERROR:") || strings.HasPrefix(trimmed, "yt-dlp: error:")
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	forward := func(line string) {
		if onOutput != nil {
			onOutput(line)
			return
		}
		fmt.Fprintln(os.Stderr, line)
	}

	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			forward(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}

var _ Downloader = (*Client)(nil)
