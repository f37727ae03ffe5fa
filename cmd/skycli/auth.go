package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	appbsky "github.com/bluesky-social/indigo/api/bsky"
	"github.com/bluesky-social/indigo/xrpc"

	"github.com/skycli/skycli/display"
	"github.com/skycli/skycli/session"

	"github.com/urfave/cli/v2"
)

var cmdLogin = &cli.Command{
	Name:      "login",
	Usage:     "create a session and store it locally",
	ArgsUsage: "[pds-url]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "handle",
			Aliases:  []string{"u"},
			Usage:    "account handle or DID",
			Required: true,
			EnvVars:  []string{"ATP_AUTH_HANDLE"},
		},
		&cli.StringFlag{
			Name:     "password",
			Aliases:  []string{"p"},
			Usage:    "account password (an app password is recommended)",
			Required: true,
			EnvVars:  []string{"ATP_AUTH_PASSWORD"},
		},
	},
	Action: runLogin,
}

func runLogin(cctx *cli.Context) error {
	ctx := context.Background()
	out := display.NewPrinter(os.Stdout)

	s, client, err := session.Login(ctx, cctx.Args().First(), cctx.String("handle"), cctx.String("password"))
	if err != nil {
		return err
	}

	name := s.Handle
	// Cosmetic only; login already succeeded.
	if prof, err := appbsky.ActorGetProfile(ctx, client, client.Auth.Did); err == nil {
		if prof.DisplayName != nil && *prof.DisplayName != "" {
			name = *prof.DisplayName
		}
	}

	out.Successf("logged in as %s (@%s)", name, s.Handle)
	if fPath, err := session.Path(); err == nil {
		out.Dimf("session saved to %s", fPath)
	}
	return nil
}

var cmdLogout = &cli.Command{
	Name:  "logout",
	Usage: "remove the stored session",
	Action: func(cctx *cli.Context) error {
		if err := session.Clear(); err != nil {
			return err
		}
		display.NewPrinter(os.Stdout).Successf("logged out")
		return nil
	},
}

// requireSession loads the stored session and refreshes it into a live
// client. Every authenticated command goes through here.
func requireSession(ctx context.Context) (*xrpc.Client, error) {
	s, err := session.Load()
	if err != nil {
		if errors.Is(err, session.ErrNotLoggedIn) {
			return nil, fmt.Errorf("not logged in, run 'skycli login' first")
		}
		return nil, err
	}
	return s.Client(ctx)
}

// remoteHint wraps a remote call failure with a re-login hint, since an
// expired or revoked session is the most common cause.
func remoteHint(action string, err error) error {
	return fmt.Errorf("%s: %w (if this persists, try 'skycli login' again)", action, err)
}
