package main

import (
	"github.com/spf13/cobra"
)

var (
	flagConfig   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "coursehand",
	Short: "Capture video-course transcripts and hand them to an AI chat",
	Long: `Coursehand drives a Chrome session over the DevTools protocol.

On supported learning platforms (YouTube, Udemy, Coursera, DataCamp) it
injects a capture button into the page; clicking it pauses the video,
extracts the transcript, fills a prompt template, copies the result to
the clipboard and — depending on settings — opens the configured AI
chat page and fills the prompt into its input.`,
	Example: `  # Watch a locally launched Chrome session
  coursehand watch

  # Attach to an already-running Chrome (started with --remote-debugging-port)
  coursehand watch --remote ws://127.0.0.1:9222

  # One-shot transcript extraction, no button involved
  coursehand extract "https://www.youtube.com/watch?v=abc123"`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}
