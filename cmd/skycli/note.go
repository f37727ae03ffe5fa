package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bluesky-social/indigo/api/agnostic"
	comatproto "github.com/bluesky-social/indigo/api/atproto"
	"github.com/bluesky-social/indigo/atproto/syntax"

	"github.com/skycli/skycli/display"
	"github.com/skycli/skycli/notes"
	"github.com/skycli/skycli/pager"

	"github.com/urfave/cli/v2"
)

var cmdNote = &cli.Command{
	Name:  "note",
	Usage: "annotate URLs with notes stored in your repo",
	Subcommands: []*cli.Command{
		{
			Name:      "add",
			Usage:     "attach a note to a URL",
			ArgsUsage: "<url> <text>",
			Action:    runNoteAdd,
		},
		{
			Name:      "list",
			Usage:     "list notes, optionally only those for one URL",
			ArgsUsage: "[url]",
			Flags: []cli.Flag{
				&cli.Int64Flag{
					Name:    "limit",
					Aliases: []string{"l"},
					Usage:   "maximum notes to show",
					Value:   10,
				},
				&cli.BoolFlag{
					Name:  "all",
					Usage: "show every note",
				},
			},
			Action: runNoteList,
		},
		{
			Name:      "delete",
			Usage:     "delete a note by its record URI",
			ArgsUsage: "<at-uri>",
			Action:    runNoteDelete,
		},
	},
}

func runNoteAdd(cctx *cli.Context) error {
	if cctx.NArg() != 2 {
		return fmt.Errorf("expected: skycli note add <url> <text>")
	}
	note := notes.Note{
		URL:       cctx.Args().Get(0),
		Text:      cctx.Args().Get(1),
		CreatedAt: syntax.DatetimeNow().String(),
	}
	if err := note.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	client, err := requireSession(ctx)
	if err != nil {
		return err
	}

	resp, err := agnostic.RepoCreateRecord(ctx, client, &agnostic.RepoCreateRecord_Input{
		Collection: notes.Collection,
		Repo:       client.Auth.Did,
		Record:     note.Record(),
	})
	if err != nil {
		return remoteHint("creating note", err)
	}

	display.NewPrinter(os.Stdout).Successf("note saved: %s", resp.Uri)
	return nil
}

type noteEntry struct {
	uri  string
	note notes.Note
}

func runNoteList(cctx *cli.Context) error {
	ctx := context.Background()
	client, err := requireSession(ctx)
	if err != nil {
		return err
	}
	out := display.NewPrinter(os.Stdout)

	urlFilter := cctx.Args().First()
	limit := cctx.Int64("limit")
	if cctx.Bool("all") {
		limit = 0
	}

	// listRecords pages newest-first; walk every page since the URL
	// filter applies client-side.
	var entries []noteEntry
	cursor := ""
	for {
		resp, err := agnostic.RepoListRecords(ctx, client, notes.Collection, cursor, 100, client.Auth.Did, false)
		if err != nil {
			return remoteHint("listing notes", err)
		}
		for _, rec := range resp.Records {
			if rec.Value == nil {
				continue
			}
			n, err := notes.FromRecord(*rec.Value)
			if err != nil {
				out.Warnf("skipping unreadable record %s: %v", rec.Uri, err)
				continue
			}
			if urlFilter != "" && n.URL != urlFilter {
				continue
			}
			entries = append(entries, noteEntry{uri: rec.Uri, note: n})
		}
		if resp.Cursor == nil || *resp.Cursor == "" {
			break
		}
		cursor = *resp.Cursor
		if limit > 0 && int64(len(entries)) >= limit {
			break
		}
	}

	if limit > 0 && int64(len(entries)) > limit {
		entries = entries[:limit]
	}
	if len(entries) == 0 {
		if urlFilter != "" {
			out.Infof("no notes for %s", urlFilter)
		} else {
			out.Infof("no notes yet, add one with 'skycli note add'")
		}
		return nil
	}

	// Oldest at the top, like the feed views.
	pager.Reverse(entries)
	for _, e := range entries {
		if urlFilter == "" {
			out.Dimf("%s", e.note.URL)
		}
		out.Note(e.uri, e.note.CreatedAt, e.note.Text)
	}
	return nil
}

func runNoteDelete(cctx *cli.Context) error {
	raw := cctx.Args().First()
	if raw == "" {
		return fmt.Errorf("expected: skycli note delete <at-uri>")
	}
	repo, collection, rkey, err := notes.ParseURI(raw)
	if err != nil {
		return err
	}
	if collection != notes.Collection {
		return fmt.Errorf("refusing to delete record from collection %s (only %s)", collection, notes.Collection)
	}

	ctx := context.Background()
	client, err := requireSession(ctx)
	if err != nil {
		return err
	}
	if repo != client.Auth.Did {
		return fmt.Errorf("note %s belongs to another repo", raw)
	}

	_, err = comatproto.RepoDeleteRecord(ctx, client, &comatproto.RepoDeleteRecord_Input{
		Collection: notes.Collection,
		Repo:       client.Auth.Did,
		Rkey:       rkey,
	})
	if err != nil {
		return remoteHint("deleting note", err)
	}

	display.NewPrinter(os.Stdout).Successf("note deleted")
	return nil
}
