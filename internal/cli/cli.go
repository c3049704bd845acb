// Package cli implements the worklog command set.
//
// Commands print human output through internal/printer and map service errors
// to actionable messages. The store layer creates its directories lazily, so
// every command except doctor works on a fresh root without an explicit init.
package cli

import (
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/example/worklog/internal"
	"github.com/example/worklog/internal/worklog"
	pkgconfig "github.com/example/worklog/pkg/config"
)

// loadConfig resolves the effective configuration for one command invocation:
// defaults, then the config file if present, then flag overrides.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()

	if path := cmd.String("config"); path != "" {
		if _, err := pkgconfig.LoadIfExists(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if root := cmd.String("root"); root != "" {
		cfg.Store.Root = root
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// service builds the worklog service for the configured store root.
func service(cmd *cli.Command) (*worklog.Service, *internal.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	svc, err := worklog.NewAt(cfg.Store.Root)
	if err != nil {
		return nil, nil, err
	}
	return svc, cfg, nil
}
