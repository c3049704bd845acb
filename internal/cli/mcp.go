package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/example/worklog/internal/mcpserver"
)

// MCPCmd returns the mcp command.
func MCPCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run the MCP server on stdio",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc, _, err := service(cmd)
			if err != nil {
				return err
			}
			if err := svc.EnsureLayout(); err != nil {
				return err
			}
			return mcpserver.New(svc).ServeStdio()
		},
	}
}
