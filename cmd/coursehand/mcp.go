package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/coursehand/coursehand/browser"
	"github.com/coursehand/coursehand/mcpsrv"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP server exposing transcript extraction",
	Long: `Mcp serves the Model Context Protocol over stdio. Tools:

- extract_transcript: transcript of a supported video page URL
- build_prompt: transcript substituted into a prompt template
- list_platforms: supported learning platforms
- list_prompts: the prompt template library

Logs go to stderr; stdout carries the protocol.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := setupLogger(flagLogLevel)

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if flagRemote != "" {
			cfg.Browser.Remote = flagRemote
		}

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		mgr := browser.NewManager(browser.Config{
			RemoteURL: cfg.Browser.Remote,
			Headless:  cfg.Browser.Remote == "",
			Logger:    logger,
		})
		if _, err := mgr.Start(cmd.Context()); err != nil {
			return err
		}
		defer mgr.Close()

		srv := mcp.NewServer(mcpsrv.Implementation, nil)
		mcpsrv.New(mgr, st, logger).RegisterMCP(srv)

		logger.Info("mcp server starting on stdio")
		return srv.Run(cmd.Context(), &mcp.StdioTransport{})
	},
}

func init() {
	mcpCmd.Flags().StringVar(&flagRemote, "remote", "", "WebSocket URL of a running Chrome (empty launches one)")
	rootCmd.AddCommand(mcpCmd)
}
