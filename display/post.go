package display

import (
	"context"
	"fmt"
	"strings"

	appbsky "github.com/bluesky-social/indigo/api/bsky"
)

// FetchPostsFunc hydrates posts by AT-URI, shaped like
// app.bsky.feed.getPosts. Used to resolve reply parents the feed
// response did not hydrate.
type FetchPostsFunc func(ctx context.Context, uris []string) ([]*appbsky.FeedDefs_PostView, error)

// Unit is a fully resolved, render-ready view of one post. Units are
// built once and never mutated.
type Unit struct {
	Title  string
	URL    string
	DID    string
	Badge  Badge
	Body   []Segment
	Likes  int64
	Nested *NestedUnit
}

// NestedUnit is the quoted or replied-to post shown inside a Unit.
type NestedUnit struct {
	Author string
	Handle string
	Text   string
	Likes  int64
}

// BuildUnit assembles the display unit for a post. parent, when not
// nil, is the hydrated reply parent already carried by the feed
// response. fetch, when not nil, is used at most once to resolve a
// reply parent by its reference URI. Parent resolution failures drop
// the nested unit, never the post itself.
func BuildUnit(ctx context.Context, post *appbsky.FeedDefs_PostView, parent *appbsky.FeedDefs_PostView, fetch FetchPostsFunc) *Unit {
	if post == nil || post.Author == nil {
		return nil
	}
	u := &Unit{
		Title: fmt.Sprintf("%s (@%s)", authorName(post.Author), post.Author.Handle),
		URL:   WebURL(post.Uri, post.Author.Handle),
		DID:   post.Author.Did,
		Badge: BadgeFor(post),
	}
	if rec := postRecord(post); rec != nil {
		u.Body = Segments(rec.Text, rec.Facets)
	}
	if post.LikeCount != nil {
		u.Likes = *post.LikeCount
	}
	u.Nested = nestedUnit(ctx, post, parent, fetch)
	return u
}

// WebURL converts a post's at-URI to its bsky.app URL. URIs that do not
// have the app.bsky.feed.post shape come back unchanged; this never
// fails on malformed input.
func WebURL(uri string, handle string) string {
	parts := strings.Split(uri, "/")
	if len(parts) >= 5 && parts[3] == "app.bsky.feed.post" {
		return fmt.Sprintf("https://bsky.app/profile/%s/post/%s", handle, parts[4])
	}
	return uri
}

// nestedUnit resolves the embedded or parent post, in order of
// preference: the hydrated reply parent, a one-shot fetch by the reply
// reference URI, then a quote embed's inline record.
func nestedUnit(ctx context.Context, post *appbsky.FeedDefs_PostView, parent *appbsky.FeedDefs_PostView, fetch FetchPostsFunc) *NestedUnit {
	if parent != nil {
		return nestedFromPost(parent)
	}
	rec := postRecord(post)
	if rec != nil && rec.Reply != nil && rec.Reply.Parent != nil && fetch != nil {
		posts, err := fetch(ctx, []string{rec.Reply.Parent.Uri})
		if err == nil && len(posts) > 0 {
			return nestedFromPost(posts[0])
		}
		return nil
	}
	if vr := quotedRecord(post); vr != nil {
		return nestedFromViewRecord(vr)
	}
	return nil
}

// quotedRecord digs the quoted view record out of a record or
// record-with-media embed, or returns nil.
func quotedRecord(post *appbsky.FeedDefs_PostView) *appbsky.EmbedRecord_ViewRecord {
	if post == nil || post.Embed == nil {
		return nil
	}
	var rv *appbsky.EmbedRecord_View
	switch {
	case post.Embed.EmbedRecord_View != nil:
		rv = post.Embed.EmbedRecord_View
	case post.Embed.EmbedRecordWithMedia_View != nil:
		rv = post.Embed.EmbedRecordWithMedia_View.Record
	}
	if rv == nil || rv.Record == nil {
		return nil
	}
	return rv.Record.EmbedRecord_ViewRecord
}

func nestedFromPost(p *appbsky.FeedDefs_PostView) *NestedUnit {
	if p == nil || p.Author == nil {
		return nil
	}
	rec := postRecord(p)
	if rec == nil || rec.Text == "" {
		return nil
	}
	n := &NestedUnit{Author: authorName(p.Author), Handle: p.Author.Handle, Text: rec.Text}
	if p.LikeCount != nil {
		n.Likes = *p.LikeCount
	}
	return n
}

func nestedFromViewRecord(vr *appbsky.EmbedRecord_ViewRecord) *NestedUnit {
	if vr == nil || vr.Author == nil || vr.Value == nil {
		return nil
	}
	rec, ok := vr.Value.Val.(*appbsky.FeedPost)
	if !ok || rec.Text == "" {
		return nil
	}
	n := &NestedUnit{Author: authorName(vr.Author), Handle: vr.Author.Handle, Text: rec.Text}
	if vr.LikeCount != nil {
		n.Likes = *vr.LikeCount
	}
	return n
}

func authorName(a *appbsky.ActorDefs_ProfileViewBasic) string {
	if a.DisplayName != nil && *a.DisplayName != "" {
		return *a.DisplayName
	}
	return a.Handle
}
