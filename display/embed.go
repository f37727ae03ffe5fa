package display

import (
	appbsky "github.com/bluesky-social/indigo/api/bsky"
)

// EmbedKind classifies a post's embed payload.
type EmbedKind int

const (
	EmbedNone EmbedKind = iota
	EmbedImages
	EmbedQuote
	EmbedQuoteWithImages
)

// ClassifyEmbed matches over the embed's tagged variants. A
// record-with-media embed whose nested media is not an image set still
// classifies as a plain quote: the quote aspect dominates.
func ClassifyEmbed(post *appbsky.FeedDefs_PostView) EmbedKind {
	if post == nil || post.Embed == nil {
		return EmbedNone
	}
	switch e := post.Embed; {
	case e.EmbedImages_View != nil:
		return EmbedImages
	case e.EmbedRecord_View != nil:
		return EmbedQuote
	case e.EmbedRecordWithMedia_View != nil:
		if m := e.EmbedRecordWithMedia_View.Media; m != nil && m.EmbedImages_View != nil {
			return EmbedQuoteWithImages
		}
		return EmbedQuote
	}
	return EmbedNone
}

// Badge is the single leading indicator on a post title.
type Badge int

const (
	BadgeNone Badge = iota
	BadgeReply
	BadgeRepost
	BadgeImage
)

// Symbol returns the terminal glyph for the badge, or "".
func (b Badge) Symbol() string {
	switch b {
	case BadgeReply:
		return "⤴"
	case BadgeRepost:
		return "🔁"
	case BadgeImage:
		return "📷"
	}
	return ""
}

// BadgeFor picks the title badge. Reply wins over repost/quote, which
// wins over image; at most one badge is ever shown.
func BadgeFor(post *appbsky.FeedDefs_PostView) Badge {
	switch {
	case isReply(post):
		return BadgeReply
	case isQuote(post):
		return BadgeRepost
	case hasImage(post):
		return BadgeImage
	}
	return BadgeNone
}

func isReply(post *appbsky.FeedDefs_PostView) bool {
	rec := postRecord(post)
	return rec != nil && rec.Reply != nil
}

func isQuote(post *appbsky.FeedDefs_PostView) bool {
	k := ClassifyEmbed(post)
	return k == EmbedQuote || k == EmbedQuoteWithImages
}

func hasImage(post *appbsky.FeedDefs_PostView) bool {
	k := ClassifyEmbed(post)
	return k == EmbedImages || k == EmbedQuoteWithImages
}

// postRecord unwraps the post's record payload as a feed post, or nil.
func postRecord(post *appbsky.FeedDefs_PostView) *appbsky.FeedPost {
	if post == nil || post.Record == nil {
		return nil
	}
	rec, ok := post.Record.Val.(*appbsky.FeedPost)
	if !ok {
		return nil
	}
	return rec
}
