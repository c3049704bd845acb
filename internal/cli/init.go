package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/example/worklog/internal/printer"
)

// InitCmd returns the init command.
func InitCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create the worklog store layout",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc, _, err := service(cmd)
			if err != nil {
				return err
			}

			printer.Info("Initializing worklog store at %s\n", svc.Root())

			if err := svc.EnsureLayout(); err != nil {
				return fmt.Errorf("create store layout: %w", err)
			}

			printer.Success("store initialized\n")
			printer.Println()
			printer.Println("Next steps:")
			printer.Println(`  worklog new --title "My first worklog"`)
			printer.Println("  worklog list")
			return nil
		},
	}
}
