package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/example/worklog/internal/apperr"
	"github.com/example/worklog/internal/printer"
	"github.com/example/worklog/internal/record"
)

// MoveCmd returns the move command.
func MoveCmd() *cli.Command {
	return &cli.Command{
		Name:      "move",
		Usage:     "Move a worklog to a board",
		ArgsUsage: "<board> <id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 2 {
				return fmt.Errorf("usage: worklog move <board> <id>")
			}
			boardName := cmd.Args().Get(0)
			id := cmd.Args().Get(1)

			svc, _, err := service(cmd)
			if err != nil {
				return err
			}

			if err := svc.MoveTo(ctx, boardName, id); err != nil {
				switch {
				case errors.Is(err, apperr.ErrInvalidBoard):
					return printer.Error(
						fmt.Sprintf("invalid board %q", boardName),
						"",
						[]string{"Valid boards: todo, doing, done"},
					)
				case errors.Is(err, apperr.ErrUnknownWorklog):
					return printer.Error(
						fmt.Sprintf("unknown worklog %s", id),
						"No record exists for that id.",
						[]string{"List what is on the boards:\n  worklog list"},
					)
				case errors.Is(err, apperr.ErrAlreadyLinked):
					return printer.Error(
						fmt.Sprintf("pointer name occupied on %s", boardName),
						fmt.Sprintf("Something that is not a pointer sits at %s.",
							filepath.Join(boardName, record.FileName(id))),
						[]string{"Inspect the store:\n  worklog doctor"},
					)
				}
				return err
			}

			printer.Success("moved %s to %s\n", id, boardName)
			return nil
		},
	}
}
