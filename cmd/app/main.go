package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/example/worklog/internal/cli"
	"github.com/example/worklog/internal/printer"
)

func main() {
	if err := cli.Root().Run(context.Background(), os.Args); err != nil {
		// printer.Error already wrote the details to stderr.
		var reported *printer.Reported
		if !errors.As(err, &reported) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
