package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/tinysplit/pkg/adapters/mcp"
	"github.com/aretw0/tinysplit/pkg/session"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the split, outline and feed tools to MCP clients.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		b, err := openStore(ctx, cmd)
		if err != nil {
			return err
		}
		defer b.close()

		srv := mcp.NewServer(
			mcp.WithLogger(logger),
			mcp.WithSessionOptions(sessionOptions()...),
			mcp.WithManager(b.newManager(session.WithSessionOptions(sessionOptions()...))),
		)

		switch transport {
		case "stdio":
			// Logs go to stderr, so they never corrupt JSON-RPC on stdout.
			logger.Info("Starting tinysplit MCP Server (Stdio)")
			return srv.ServeStdio()
		case "sse":
			logger.Info("Starting tinysplit MCP Server (SSE)", "port", port)
			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("MCP Server stopped gracefully")
			return nil
		}
		return fmt.Errorf("unknown transport %q (supported: stdio, sse)", transport)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
