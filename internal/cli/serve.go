package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/raychel/internal/mcpserver"
	"github.com/ppiankov/raychel/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP JSON API",
	Long: `Serve answers questions over HTTP:

  POST /api/ask   {"question": "..."} -> resolution JSON
  GET  /healthz   liveness
  GET  /metrics   Prometheus metrics

When server.api_key (or API_KEY) is set, /api/ask requires it in an
"Authorization: Bearer <key>" or "X-API-Key" header.

Example:
  raychel serve --addr :8080`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		addr := serveAddr
		if addr == "" {
			addr = a.cfg.Server.Addr
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Listening on %s (auth: %v)\n", addr, a.cfg.Server.APIKey != "")
		}

		srv := server.New(a.resolver, a.cfg.Server, a.logger)
		return srv.ListenAndServe(cmd.Context(), addr)
	},
}

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the ask tool over the Model Context Protocol (stdio)",
	Long: `Mcp runs a Model Context Protocol server on standard input and output,
exposing one tool, "ask", which takes a question and returns the answer with
its category and tool. Logs go to standard error.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return mcpserver.Run(cmd.Context(), mcpserver.New(a.resolver, Version, a.logger))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: server.addr)")
}
