// skycli is a terminal client for the AT Protocol: timelines, feeds,
// posting, profiles, and per-URL annotation notes.
package main

import (
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/carlmjohnson/versioninfo"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	app := cli.App{
		Name:    "skycli",
		Usage:   "terminal client for the AT Protocol",
		Version: versioninfo.Short(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "enable debug logging",
				EnvVars: []string{"SKYCLI_VERBOSE"},
			},
		},
		Before: func(cctx *cli.Context) error {
			lvl := slog.LevelWarn
			if cctx.Bool("verbose") {
				lvl = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
			return nil
		},
	}
	app.Commands = []*cli.Command{
		cmdLogin,
		cmdLogout,
		cmdBsky,
		cmdNote,
	}
	return app.Run(args)
}
