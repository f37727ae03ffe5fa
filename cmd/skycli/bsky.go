package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bluesky-social/indigo/api/agnostic"
	comatproto "github.com/bluesky-social/indigo/api/atproto"
	appbsky "github.com/bluesky-social/indigo/api/bsky"
	"github.com/bluesky-social/indigo/atproto/syntax"
	lexutil "github.com/bluesky-social/indigo/lex/util"
	"github.com/bluesky-social/indigo/xrpc"

	"github.com/skycli/skycli/display"
	"github.com/skycli/skycli/pager"

	"github.com/urfave/cli/v2"
)

var feedPageFlags = []cli.Flag{
	&cli.Int64Flag{
		Name:    "limit",
		Aliases: []string{"l"},
		Usage:   "posts per page",
		Value:   10,
	},
	&cli.IntFlag{
		Name:  "p",
		Usage: "page number (each page costs one API call to skip past)",
		Value: 1,
	},
}

var cmdBsky = &cli.Command{
	Name:  "bsky",
	Usage: "Bluesky feeds, posts and profiles",
	Subcommands: []*cli.Command{
		{
			Name:   "timeline",
			Usage:  "show your home timeline",
			Flags:  feedPageFlags,
			Action: runTimeline,
		},
		{
			Name:  "post",
			Usage: "compose a post in $EDITOR and publish it",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "message",
					Aliases: []string{"m"},
					Usage:   "post text (skips the editor)",
				},
			},
			Action: runPost,
		},
		{
			Name:  "feeds",
			Usage: "list your saved and pinned feeds",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "format",
					Usage: "output format: table or uri",
					Value: "table",
				},
			},
			Action: runFeeds,
		},
		{
			Name:      "feed",
			Usage:     "show a feed generator's posts",
			ArgsUsage: "<feed-at-uri>",
			Flags:     feedPageFlags,
			Action:    runFeed,
		},
		{
			Name:      "profile",
			Usage:     "show an account profile",
			ArgsUsage: "[handle]",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "me",
					Usage: "show your own profile",
				},
			},
			Action: runProfile,
		},
		{
			Name:      "posts",
			Usage:     "show an account's posts",
			ArgsUsage: "[handle]",
			Flags: append([]cli.Flag{
				&cli.BoolFlag{
					Name:  "me",
					Usage: "show your own posts",
				},
			}, feedPageFlags...),
			Action: runPosts,
		},
	},
}

// runFeedPages is the shared driver behind timeline, feed and posts:
// walk to the requested page, render oldest-first, then the footer.
func runFeedPages(ctx context.Context, client *xrpc.Client, cctx *cli.Context, fetch pager.FetchFunc[*appbsky.FeedDefs_FeedViewPost]) error {
	out := display.NewPrinter(os.Stdout)
	limit := cctx.Int64("limit")
	page := cctx.Int("p")

	if page > pager.WarnThreshold {
		out.Warnf("page %d needs %d sequential API calls to reach", page, page)
	}

	res, err := pager.Walk(ctx, fetch, limit, page)
	if err != nil {
		return err
	}
	if res.Page < page {
		out.Warnf("feed ran out at page %d, showing that instead of page %d", res.Page, page)
	}

	pager.Reverse(res.Items)
	fetchPosts := func(ctx context.Context, uris []string) ([]*appbsky.FeedDefs_PostView, error) {
		resp, err := appbsky.FeedGetPosts(ctx, client, uris)
		if err != nil {
			return nil, err
		}
		return resp.Posts, nil
	}
	for _, fv := range res.Items {
		out.Post(display.BuildUnit(ctx, fv.Post, hydratedParent(fv), fetchPosts))
	}
	out.Footer(len(res.Items), res.Page, res.HasNext)
	return nil
}

// hydratedParent returns the reply parent when the feed response already
// carries it, so the renderer can skip a fetch.
func hydratedParent(fv *appbsky.FeedDefs_FeedViewPost) *appbsky.FeedDefs_PostView {
	if fv.Reply == nil || fv.Reply.Parent == nil {
		return nil
	}
	return fv.Reply.Parent.FeedDefs_PostView
}

func runTimeline(cctx *cli.Context) error {
	ctx := context.Background()
	client, err := requireSession(ctx)
	if err != nil {
		return err
	}

	fetch := func(ctx context.Context, limit int64, cursor string) (pager.Page[*appbsky.FeedDefs_FeedViewPost], error) {
		resp, err := appbsky.FeedGetTimeline(ctx, client, "reverse-chronological", cursor, limit)
		if err != nil {
			return pager.Page[*appbsky.FeedDefs_FeedViewPost]{}, remoteHint("fetching timeline", err)
		}
		p := pager.Page[*appbsky.FeedDefs_FeedViewPost]{Items: resp.Feed}
		if resp.Cursor != nil {
			p.Cursor = *resp.Cursor
		}
		return p, nil
	}
	return runFeedPages(ctx, client, cctx, fetch)
}

func runFeed(cctx *cli.Context) error {
	feedURI := cctx.Args().First()
	if feedURI == "" {
		return fmt.Errorf("feed AT-URI required (see 'skycli bsky feeds')")
	}

	ctx := context.Background()
	client, err := requireSession(ctx)
	if err != nil {
		return err
	}

	fetch := func(ctx context.Context, limit int64, cursor string) (pager.Page[*appbsky.FeedDefs_FeedViewPost], error) {
		resp, err := appbsky.FeedGetFeed(ctx, client, cursor, feedURI, limit)
		if err != nil {
			return pager.Page[*appbsky.FeedDefs_FeedViewPost]{}, remoteHint("fetching feed", err)
		}
		p := pager.Page[*appbsky.FeedDefs_FeedViewPost]{Items: resp.Feed}
		if resp.Cursor != nil {
			p.Cursor = *resp.Cursor
		}
		return p, nil
	}
	return runFeedPages(ctx, client, cctx, fetch)
}

func runPosts(cctx *cli.Context) error {
	ctx := context.Background()
	client, err := requireSession(ctx)
	if err != nil {
		return err
	}

	actor := cctx.Args().First()
	if cctx.Bool("me") || actor == "" {
		actor = client.Auth.Did
	}

	fetch := func(ctx context.Context, limit int64, cursor string) (pager.Page[*appbsky.FeedDefs_FeedViewPost], error) {
		resp, err := appbsky.FeedGetAuthorFeed(ctx, client, actor, cursor, "", false, limit)
		if err != nil {
			return pager.Page[*appbsky.FeedDefs_FeedViewPost]{}, remoteHint("fetching author feed", err)
		}
		p := pager.Page[*appbsky.FeedDefs_FeedViewPost]{Items: resp.Feed}
		if resp.Cursor != nil {
			p.Cursor = *resp.Cursor
		}
		return p, nil
	}
	return runFeedPages(ctx, client, cctx, fetch)
}

func runPost(cctx *cli.Context) error {
	ctx := context.Background()
	out := display.NewPrinter(os.Stdout)

	text := cctx.String("message")
	if text == "" {
		var err error
		text, err = messageFromEditor()
		if err != nil {
			return err
		}
	}
	if text == "" {
		out.Warnf("empty message, post cancelled")
		return nil
	}

	client, err := requireSession(ctx)
	if err != nil {
		return err
	}

	post := appbsky.FeedPost{
		Text:      text,
		CreatedAt: syntax.DatetimeNow().String(),
	}
	resp, err := comatproto.RepoCreateRecord(ctx, client, &comatproto.RepoCreateRecord_Input{
		Collection: "app.bsky.feed.post",
		Repo:       client.Auth.Did,
		Record:     &lexutil.LexiconTypeDecoder{Val: &post},
	})
	if err != nil {
		return remoteHint("creating post", err)
	}

	out.Successf("posted %s", display.WebURL(resp.Uri, client.Auth.Handle))
	return nil
}

func runProfile(cctx *cli.Context) error {
	ctx := context.Background()
	client, err := requireSession(ctx)
	if err != nil {
		return err
	}

	actor := cctx.Args().First()
	if cctx.Bool("me") || actor == "" {
		actor = client.Auth.Did
	}

	prof, err := appbsky.ActorGetProfile(ctx, client, actor)
	if err != nil {
		return remoteHint("fetching profile", err)
	}
	display.NewPrinter(os.Stdout).Profile(prof)
	return nil
}

func runFeeds(cctx *cli.Context) error {
	format := cctx.String("format")
	if format != "table" && format != "uri" {
		return fmt.Errorf("unknown format %q (expected table or uri)", format)
	}

	ctx := context.Background()
	client, err := requireSession(ctx)
	if err != nil {
		return err
	}
	out := display.NewPrinter(os.Stdout)

	prefs, err := agnostic.ActorGetPreferences(ctx, client)
	if err != nil {
		return remoteHint("fetching preferences", err)
	}
	uris := savedFeedURIs(prefs.Preferences)
	if len(uris) == 0 {
		out.Infof("no saved feeds")
		return nil
	}

	if format == "uri" {
		for _, uri := range uris {
			out.Println(uri)
		}
		return nil
	}

	var feeds []display.FeedInfo
	for _, uri := range uris {
		info := display.FeedInfo{Name: feedURIName(uri), URI: uri}
		// Generator lookups can fail per-feed; show the bare URI then.
		if gen, err := appbsky.FeedGetFeedGenerator(ctx, client, uri); err == nil && gen.View != nil {
			info.Name = gen.View.DisplayName
			if gen.View.Description != nil {
				info.Description = *gen.View.Description
			}
		}
		feeds = append(feeds, info)
	}
	out.FeedsTable(feeds)
	return nil
}

// savedFeedURIs extracts feed generator URIs from the actor preferences
// blob. The v2 savedFeedsPref carries typed items; the legacy v1 pref
// has flat saved/pinned URI lists. v2 wins when both are present.
func savedFeedURIs(prefs []map[string]any) []string {
	var v1 []string
	for _, pref := range prefs {
		switch pref["$type"] {
		case "app.bsky.actor.defs#savedFeedsPrefV2":
			var uris []string
			items, _ := pref["items"].([]any)
			for _, it := range items {
				m, ok := it.(map[string]any)
				if !ok || m["type"] != "feed" {
					continue
				}
				if uri, ok := m["value"].(string); ok {
					uris = append(uris, uri)
				}
			}
			if len(uris) > 0 {
				return uris
			}
		case "app.bsky.actor.defs#savedFeedsPref":
			seen := map[string]bool{}
			for _, uri := range append(stringSlice(pref["pinned"]), stringSlice(pref["saved"])...) {
				if !seen[uri] {
					seen[uri] = true
					v1 = append(v1, uri)
				}
			}
		}
	}
	return v1
}

func stringSlice(v any) []string {
	items, _ := v.([]any)
	var out []string
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// feedURIName derives a fallback display name from the rkey of a feed
// generator URI.
func feedURIName(uri string) string {
	aturi, err := syntax.ParseATURI(uri)
	if err != nil {
		return uri
	}
	if rkey := aturi.RecordKey().String(); rkey != "" {
		return rkey
	}
	return uri
}
