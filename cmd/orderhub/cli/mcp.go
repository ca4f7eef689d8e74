package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orderhub/orderhub/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server for AI agents",
		Long: `Start a Model Context Protocol (MCP) server that exposes order and product
operations as tools for AI agents. The server communicates over stdin/stdout
using JSON-RPC, suitable for direct integration with Claude Desktop or other
MCP clients.

Tool calls act with the credential given via --token (or mcp.token in the
config file). Without one the server runs anonymously and every order
operation is denied, which is only useful for browsing resources.`,
		Example: `  orderhub mcp --token "$(orderhub token --subject 1 --role Admin)"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP(token)
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Bearer token the MCP tools act with (default: mcp.token from config)")

	return cmd
}

func runMCP(token string) error {
	cfg := loadConfig()
	logger := newLogger(cfg, false)

	validator, err := newValidator(cfg)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if token == "" {
		token = cfg.MCP.Token
	}

	baseURL := cfg.Server.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)
	}

	srv := mcp.NewMCPServer(mcp.Config{
		Store:     st,
		Validator: validator,
		Token:     token,
		BaseURL:   baseURL,
		Version:   appVersion,
		Logger:    logger,
	})

	logger.Info("starting MCP server", "transport", "stdio")
	return srv.ServeStdio()
}
