package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ytfetch/internal/config"
	"ytfetch/internal/cookies"
	"ytfetch/internal/logging"
)

func newCookiesCommand(ctx *commandContext) *cobra.Command {
	cookiesCmd := &cobra.Command{
		Use:   "cookies",
		Short: "Cookie jar utilities",
	}

	cookiesCmd.AddCommand(newCookiesCheckCommand(ctx))
	cookiesCmd.AddCommand(newCookiesExportCommand(ctx))

	return cookiesCmd
}

func newCookiesCheckCommand(ctx *commandContext) *cobra.Command {
	var jarPath string
	var skipBrowsers bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Inspect the resolved cookie jar and browser cookie availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()

			resolved := cookies.Resolve(jarPath, cfg.Cookies.File, cfg.Cookies.Dir)
			if resolved == "" {
				fmt.Fprintln(out, "No cookie jar found in any candidate location.")
			} else {
				report := cookies.Inspect(resolved, time.Now())
				fmt.Fprintf(out, "Cookie jar: %s\n", resolved)
				fmt.Fprintln(out, renderJarReport(report, cfg.Cookies.MinValid))
			}

			if skipBrowsers {
				return nil
			}

			engine, err := ctx.engineClient()
			if err != nil {
				return fmt.Errorf("init engine client: %w", err)
			}
			statuses := cookies.ProbeBrowsers(cmd.Context(), engine, logging.NewNop())
			fmt.Fprintln(out, renderBrowserStatuses(statuses))
			return nil
		},
	}

	cmd.Flags().StringVar(&jarPath, "path", "", "Explicit cookie jar path to inspect")
	cmd.Flags().BoolVar(&skipBrowsers, "no-browsers", false, "Skip probing browser cookie stores")
	return cmd
}

func newCookiesExportCommand(ctx *commandContext) *cobra.Command {
	var browser string
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export cookies from a browser profile into a jar file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			browser = strings.ToLower(strings.TrimSpace(browser))
			if !knownBrowser(browser) {
				return fmt.Errorf("unsupported browser %q (choose one of %s)", browser, strings.Join(cookies.Browsers, ", "))
			}

			target := strings.TrimSpace(outputPath)
			if target == "" {
				target = cfg.CookieJarPath()
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve output path: %w", err)
				}
				target = expanded
			}

			engine, err := ctx.engineClient()
			if err != nil {
				return fmt.Errorf("init engine client: %w", err)
			}
			if err := engine.ExportBrowserCookies(cmd.Context(), browser, target); err != nil {
				return fmt.Errorf("export %s cookies: %w", browser, err)
			}

			report := cookies.Inspect(target, time.Now())
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Exported %s cookies to %s\n", browser, target)
			fmt.Fprintln(out, renderJarReport(report, cfg.Cookies.MinValid))
			return nil
		},
	}

	cmd.Flags().StringVarP(&browser, "browser", "b", "", "Browser to export cookies from")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination jar path (defaults to the configured cookie directory)")
	_ = cmd.MarkFlagRequired("browser")
	return cmd
}

func knownBrowser(name string) bool {
	for _, candidate := range cookies.Browsers {
		if candidate == name {
			return true
		}
	}
	return false
}

func renderJarReport(report cookies.Report, minValid int) string {
	modified := "-"
	if !report.ModTime.IsZero() {
		modified = report.ModTime.Format("2006-01-02 15:04:05")
	}
	rows := [][]string{{
		yesNo(report.Exists),
		yesNo(report.HasMarkers),
		strconv.Itoa(report.Total),
		strconv.Itoa(report.Valid),
		strconv.Itoa(report.Expired),
		strconv.Itoa(report.Session),
		modified,
		yesNo(report.Usable(minValid)),
	}}
	return renderTable(
		[]string{"Exists", "Markers", "Total", "Valid", "Expired", "Session", "Modified", "Usable"},
		rows,
		2, 3, 4, 5,
	)
}

func renderBrowserStatuses(statuses []cookies.BrowserStatus) string {
	rows := make([][]string, 0, len(statuses))
	for _, status := range statuses {
		detail := status.Detail
		if status.Available {
			detail = "cookies accessible"
		}
		rows = append(rows, []string{status.Browser, yesNo(status.Available), detail})
	}
	return renderTable([]string{"Browser", "Available", "Detail"}, rows)
}
