package display

import (
	"testing"

	comatproto "github.com/bluesky-social/indigo/api/atproto"
	appbsky "github.com/bluesky-social/indigo/api/bsky"
	lexutil "github.com/bluesky-social/indigo/lex/util"

	"github.com/stretchr/testify/assert"
)

func testPost(embed *appbsky.FeedDefs_PostView_Embed, reply bool) *appbsky.FeedDefs_PostView {
	rec := &appbsky.FeedPost{Text: "hello"}
	if reply {
		ref := &comatproto.RepoStrongRef{Uri: "at://did:plc:parent/app.bsky.feed.post/p1", Cid: "cid1"}
		rec.Reply = &appbsky.FeedPost_ReplyRef{Parent: ref, Root: ref}
	}
	return &appbsky.FeedDefs_PostView{
		Author: &appbsky.ActorDefs_ProfileViewBasic{Did: "did:plc:abc", Handle: "u.bsky.social"},
		Record: &lexutil.LexiconTypeDecoder{Val: rec},
		Uri:    "at://did:plc:abc/app.bsky.feed.post/xyz",
		Embed:  embed,
	}
}

func imagesEmbed() *appbsky.FeedDefs_PostView_Embed {
	return &appbsky.FeedDefs_PostView_Embed{
		EmbedImages_View: &appbsky.EmbedImages_View{
			Images: []*appbsky.EmbedImages_ViewImage{{Alt: "a picture", Fullsize: "https://cdn.example/full", Thumb: "https://cdn.example/thumb"}},
		},
	}
}

func recordEmbed() *appbsky.FeedDefs_PostView_Embed {
	return &appbsky.FeedDefs_PostView_Embed{
		EmbedRecord_View: &appbsky.EmbedRecord_View{Record: &appbsky.EmbedRecord_View_Record{}},
	}
}

func recordWithMediaEmbed(media *appbsky.EmbedRecordWithMedia_View_Media) *appbsky.FeedDefs_PostView_Embed {
	return &appbsky.FeedDefs_PostView_Embed{
		EmbedRecordWithMedia_View: &appbsky.EmbedRecordWithMedia_View{
			Media:  media,
			Record: &appbsky.EmbedRecord_View{Record: &appbsky.EmbedRecord_View_Record{}},
		},
	}
}

func TestClassifyEmbed(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(EmbedNone, ClassifyEmbed(testPost(nil, false)))
	assert.Equal(EmbedImages, ClassifyEmbed(testPost(imagesEmbed(), false)))
	assert.Equal(EmbedQuote, ClassifyEmbed(testPost(recordEmbed(), false)))

	withImages := recordWithMediaEmbed(&appbsky.EmbedRecordWithMedia_View_Media{
		EmbedImages_View: imagesEmbed().EmbedImages_View,
	})
	assert.Equal(EmbedQuoteWithImages, ClassifyEmbed(testPost(withImages, false)))

	// Nested media of another kind still reads as a quote.
	withExternal := recordWithMediaEmbed(&appbsky.EmbedRecordWithMedia_View_Media{
		EmbedExternal_View: &appbsky.EmbedExternal_View{
			External: &appbsky.EmbedExternal_ViewExternal{Uri: "https://example.com", Title: "Example", Description: "site"},
		},
	})
	assert.Equal(EmbedQuote, ClassifyEmbed(testPost(withExternal, false)))
}

func TestBadgePrecedence(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(BadgeNone, BadgeFor(testPost(nil, false)))
	assert.Equal(BadgeImage, BadgeFor(testPost(imagesEmbed(), false)))
	assert.Equal(BadgeRepost, BadgeFor(testPost(recordEmbed(), false)))

	// Reply beats repost, repost beats image.
	assert.Equal(BadgeReply, BadgeFor(testPost(recordEmbed(), true)))
	assert.Equal(BadgeReply, BadgeFor(testPost(imagesEmbed(), true)))

	withImages := recordWithMediaEmbed(&appbsky.EmbedRecordWithMedia_View_Media{
		EmbedImages_View: imagesEmbed().EmbedImages_View,
	})
	assert.Equal(BadgeRepost, BadgeFor(testPost(withImages, false)))
}

func TestBadgeSymbols(t *testing.T) {
	assert := assert.New(t)
	assert.Empty(BadgeNone.Symbol())
	assert.NotEmpty(BadgeReply.Symbol())
	assert.NotEmpty(BadgeRepost.Symbol())
	assert.NotEmpty(BadgeImage.Symbol())
}
