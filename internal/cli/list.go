package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/example/worklog/internal/apperr"
	"github.com/example/worklog/internal/printer"
	"github.com/example/worklog/internal/worklog"
)

// ListCmd returns the list command.
func ListCmd() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "List one board, or all three",
		ArgsUsage: "[board]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() > 1 {
				return fmt.Errorf("usage: worklog list [board]")
			}

			svc, _, err := service(cmd)
			if err != nil {
				return err
			}

			if cmd.Args().Len() == 1 {
				boardName := cmd.Args().First()
				entries, err := svc.List(ctx, boardName)
				if err != nil {
					if errors.Is(err, apperr.ErrInvalidBoard) {
						return printer.Error(
							fmt.Sprintf("invalid board %q", boardName),
							"",
							[]string{"Valid boards: todo, doing, done"},
						)
					}
					return err
				}
				printBoard(boardName, entries)
				return nil
			}

			snap, err := svc.Snapshot(ctx)
			if err != nil {
				return err
			}
			for i, bl := range snap.Boards {
				if i > 0 {
					printer.Println()
				}
				printBoard(string(bl.Board), bl.Entries)
			}
			return nil
		},
	}
}

func printBoard(name string, entries []worklog.Entry) {
	printer.Heading("%s (%d)\n", name, len(entries))
	if len(entries) == 0 {
		printer.Println("  " + printer.Muted("(empty)"))
		return
	}
	for _, e := range entries {
		title := e.Title
		if e.Unreadable {
			title = printer.Muted("(unreadable)")
		}
		printer.Printf("  %s  %s\n", printer.ID(e.ID), title)
	}
}
