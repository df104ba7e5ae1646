package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/coursehand/coursehand/optionsapi"
)

var flagServeAddr string

var serveOptionsCmd = &cobra.Command{
	Use:   "serve-options",
	Short: "Serve the settings API without the capture pipeline",
	Long: `Serve-options runs only the HTTP settings surface over the shared
record database. Useful for editing settings while no browser session
is attached.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := setupLogger(flagLogLevel)

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		srv := &http.Server{
			Addr:    flagServeAddr,
			Handler: optionsapi.New(st, logger).Handler(),
		}

		ctx := cmd.Context()
		go func() {
			<-ctx.Done()
			shutCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutCtx)
		}()

		logger.Info("options api listening", "addr", flagServeAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveOptionsCmd.Flags().StringVar(&flagServeAddr, "addr", "127.0.0.1:8732", "Listen address")
	rootCmd.AddCommand(serveOptionsCmd)
}
