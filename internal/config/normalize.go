package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeCookies(); err != nil {
		return err
	}
	c.normalizeEngine()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.DownloadDir) == "" {
		if value, ok := os.LookupEnv("YTFETCH_DOWNLOAD_DIR"); ok && strings.TrimSpace(value) != "" {
			c.Paths.DownloadDir = value
		} else {
			c.Paths.DownloadDir = defaultDownloadDir
		}
	}
	var err error
	if c.Paths.DownloadDir, err = expandPath(c.Paths.DownloadDir); err != nil {
		return fmt.Errorf("paths.download_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeCookies() error {
	// The environment fallback is resolved here, once, so downstream code
	// receives the override as an explicit value instead of re-reading the
	// process environment mid-flow.
	if strings.TrimSpace(c.Cookies.File) == "" {
		if value, ok := os.LookupEnv("YOUTUBE_COOKIES_PATH"); ok {
			c.Cookies.File = value
		}
	}
	var err error
	if strings.TrimSpace(c.Cookies.File) != "" {
		if c.Cookies.File, err = expandPath(c.Cookies.File); err != nil {
			return fmt.Errorf("cookies.file: %w", err)
		}
	}
	if strings.TrimSpace(c.Cookies.Dir) == "" {
		c.Cookies.Dir = defaultCookiesDir
	}
	if c.Cookies.Dir, err = expandPath(c.Cookies.Dir); err != nil {
		return fmt.Errorf("cookies.dir: %w", err)
	}
	if c.Cookies.MinValid <= 0 {
		c.Cookies.MinValid = defaultCookiesMinValid
	}
	return nil
}

func (c *Config) normalizeEngine() {
	c.Engine.Binary = strings.TrimSpace(c.Engine.Binary)
	if c.Engine.Binary == "" {
		c.Engine.Binary = defaultEngineBinary
	}
	c.Engine.Format = strings.TrimSpace(c.Engine.Format)
	if c.Engine.Format == "" {
		c.Engine.Format = defaultEngineFormat
	}
	if c.Engine.Retries <= 0 {
		c.Engine.Retries = defaultEngineRetries
	}
	if c.Engine.FragmentRetries <= 0 {
		c.Engine.FragmentRetries = defaultEngineRetries
	}
	if c.Engine.ExtractorRetries <= 0 {
		c.Engine.ExtractorRetries = defaultEngineRetries
	}
	if c.Engine.SleepInterval <= 0 {
		c.Engine.SleepInterval = defaultSleepInterval
	}
	if c.Engine.MaxSleepInterval < c.Engine.SleepInterval {
		c.Engine.MaxSleepInterval = defaultMaxSleepInterval
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
