package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/coursehand/coursehand/optionsapi"
	"github.com/coursehand/coursehand/pipeline"
)

var (
	flagRemote      string
	flagHeadless    bool
	flagOptionsAddr string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch browser tabs and run the capture pipeline",
	Long: `Watch connects to Chrome and classifies every open tab. Learning
platform tabs get the capture button lifecycle; AI provider tabs get
the auto-fill agent. Runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := setupLogger(flagLogLevel)

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if flagRemote != "" {
			cfg.Browser.Remote = flagRemote
		}
		if cmd.Flags().Changed("headless") {
			cfg.Browser.Headless = flagHeadless
		}

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		runner := pipeline.New(cfg, st, logger)

		if flagOptionsAddr != "" {
			srv := &http.Server{
				Addr:    flagOptionsAddr,
				Handler: optionsapi.New(st, logger).Handler(),
			}
			go func() {
				logger.Info("options api listening", "addr", flagOptionsAddr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("options api", "error", err)
				}
			}()
			go func() {
				<-ctx.Done()
				shutCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutCtx)
			}()
		}

		return runner.Start(ctx)
	},
}

func init() {
	watchCmd.Flags().StringVar(&flagRemote, "remote", "", "WebSocket URL of a running Chrome (empty launches one)")
	watchCmd.Flags().BoolVar(&flagHeadless, "headless", false, "Launch Chrome headless")
	watchCmd.Flags().StringVar(&flagOptionsAddr, "options-addr", "", "Also serve the options API on this address (e.g. 127.0.0.1:8732)")
	rootCmd.AddCommand(watchCmd)
}
