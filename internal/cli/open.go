package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/example/worklog/internal/editor"
	"github.com/example/worklog/internal/printer"
)

// OpenCmd returns the open command.
func OpenCmd() *cli.Command {
	return &cli.Command{
		Name:      "open",
		Usage:     "Open a worklog record in the editor",
		ArgsUsage: "<id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("usage: worklog open <id>")
			}
			id := cmd.Args().First()

			svc, cfg, err := service(cmd)
			if err != nil {
				return err
			}

			// Records come into being only through new; never hand the
			// editor a path no record lives at.
			if !svc.IsWorklog(ctx, id) {
				return printer.Error(
					fmt.Sprintf("unknown worklog %s", id),
					"No record exists for that id.",
					[]string{
						"List what is on the boards:\n  worklog list",
						"Create a new worklog:\n  worklog new --title \"...\"",
					},
				)
			}

			path, err := svc.Open(ctx, id)
			if err != nil {
				return err
			}
			return editor.Launch(ctx, editor.Resolve(cfg.Editor.Command), path)
		},
	}
}
