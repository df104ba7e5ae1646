package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coursehand/coursehand/browser"
	"github.com/coursehand/coursehand/pipeline"
)

var (
	flagExtractFormat string
	flagExtractJSON   bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <url>",
	Short: "Extract a transcript from a video page URL",
	Long: `Extract opens the URL in a fresh tab, runs the matching platform
adapter and prints the transcript. Udemy, Coursera and DataCamp need an
authenticated profile, so attaching to your running Chrome with
--remote is usually what you want for those.`,
	Example: `  coursehand extract "https://www.youtube.com/watch?v=abc123"
  coursehand extract --format plain --json "https://www.youtube.com/watch?v=abc123"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := setupLogger(flagLogLevel)

		if !pipeline.ValidFormat(flagExtractFormat) {
			return fmt.Errorf("unknown format %q (markdown or plain)", flagExtractFormat)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if flagRemote != "" {
			cfg.Browser.Remote = flagRemote
		}
		// One-shot extraction works headless unless attached to a
		// running Chrome.
		headless := cfg.Browser.Remote == ""

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		mgr := browser.NewManager(browser.Config{
			RemoteURL: cfg.Browser.Remote,
			Headless:  headless,
			Logger:    logger,
		})
		if _, err := mgr.Start(cmd.Context()); err != nil {
			return err
		}
		defer mgr.Close()

		result, err := pipeline.ExtractOnce(cmd.Context(), mgr, st, args[0], flagExtractFormat, logger)
		if err != nil {
			return err
		}

		if flagExtractJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}
		fmt.Println(result.Transcript)
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&flagExtractFormat, "format", "", "Transcript rendering: markdown (default) or plain")
	extractCmd.Flags().BoolVar(&flagExtractJSON, "json", false, "Print the full result as JSON")
	extractCmd.Flags().StringVar(&flagRemote, "remote", "", "WebSocket URL of a running Chrome (empty launches one)")
	rootCmd.AddCommand(extractCmd)
}
