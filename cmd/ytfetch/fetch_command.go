package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ytfetch/internal/fetch"
	"ytfetch/internal/logging"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var cookiesPath string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "fetch URL",
		Short: "Download a single video to the configured download directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			engine, err := ctx.engineClient()
			if err != nil {
				return fmt.Errorf("init engine client: %w", err)
			}
			fetcher, err := fetch.New(cfg, engine, fetch.WithLogger(logger))
			if err != nil {
				return fmt.Errorf("init fetcher: %w", err)
			}

			result, err := fetcher.Fetch(cmd.Context(), args[0], cookiesPath)
			if err != nil {
				var fetchErr *fetch.Error
				if errors.As(err, &fetchErr) && fetchErr.Attempts > 0 {
					return fmt.Errorf("%s (after %d attempts)", fetchErr.Message, fetchErr.Attempts)
				}
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(result)
			}
			fmt.Fprintf(out, "Saved %s\n", result.Path)
			fmt.Fprintf(out, "Strategy: %s (%d attempts)\n", result.Strategy, result.Attempts)
			return nil
		},
	}

	cmd.Flags().StringVar(&cookiesPath, "cookies", "", "Explicit cookie jar path")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the result as JSON")
	return cmd
}
