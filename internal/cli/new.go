package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/example/worklog/internal/editor"
	"github.com/example/worklog/internal/printer"
)

// NewCmd returns the new command.
func NewCmd() *cli.Command {
	return &cli.Command{
		Name:  "new",
		Usage: "Create a worklog on the todo board",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "title",
				Aliases:  []string{"t"},
				Usage:    "Worklog title",
				Required: true,
			},
			&cli.BoolFlag{
				Name:    "edit",
				Aliases: []string{"e"},
				Usage:   "Open the new record in the editor",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc, cfg, err := service(cmd)
			if err != nil {
				return err
			}

			id, err := svc.Create(ctx, cmd.String("title"), "")
			if err != nil {
				return fmt.Errorf("create worklog: %w", err)
			}
			printer.Success("created %s on todo\n", id)

			if !cmd.Bool("edit") {
				return nil
			}
			path, err := svc.Open(ctx, id)
			if err != nil {
				return err
			}
			return editor.Launch(ctx, editor.Resolve(cfg.Editor.Command), path)
		},
	}
}
