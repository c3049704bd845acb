package cli

import (
	"github.com/urfave/cli/v3"

	"github.com/example/worklog/internal"
)

// Root assembles the worklog command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name:  "worklog",
		Usage: "File-backed worklog boards: todo, doing, done",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "~/.config/worklog/config.yaml",
				Value:       internal.DefaultConfigPath(),
				Sources:     cli.EnvVars("WORKLOG_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "root",
				Usage:   "Store root directory (overrides config)",
				Sources: cli.EnvVars("WORKLOG_ROOT"),
			},
		},
		Commands: []*cli.Command{
			NewCmd(),
			OpenCmd(),
			MoveCmd(),
			ListCmd(),
			InitCmd(),
			DoctorCmd(),
			ServeCmd(),
			MCPCmd(),
		},
	}
}
