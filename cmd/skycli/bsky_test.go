package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSavedFeedURIsV2(t *testing.T) {
	prefs := []map[string]any{
		{"$type": "app.bsky.actor.defs#adultContentPref", "enabled": false},
		{
			"$type": "app.bsky.actor.defs#savedFeedsPrefV2",
			"items": []any{
				map[string]any{"type": "feed", "value": "at://did:plc:a/app.bsky.feed.generator/hot"},
				map[string]any{"type": "timeline", "value": "following"},
				map[string]any{"type": "feed", "value": "at://did:plc:b/app.bsky.feed.generator/cats"},
			},
		},
	}
	assert.Equal(t, []string{
		"at://did:plc:a/app.bsky.feed.generator/hot",
		"at://did:plc:b/app.bsky.feed.generator/cats",
	}, savedFeedURIs(prefs))
}

func TestSavedFeedURIsV1(t *testing.T) {
	prefs := []map[string]any{
		{
			"$type":  "app.bsky.actor.defs#savedFeedsPref",
			"pinned": []any{"at://did:plc:a/app.bsky.feed.generator/hot"},
			"saved": []any{
				"at://did:plc:a/app.bsky.feed.generator/hot",
				"at://did:plc:b/app.bsky.feed.generator/cats",
			},
		},
	}
	assert.Equal(t, []string{
		"at://did:plc:a/app.bsky.feed.generator/hot",
		"at://did:plc:b/app.bsky.feed.generator/cats",
	}, savedFeedURIs(prefs))
}

func TestSavedFeedURIsV2WinsOverV1(t *testing.T) {
	prefs := []map[string]any{
		{
			"$type": "app.bsky.actor.defs#savedFeedsPref",
			"saved": []any{"at://did:plc:old/app.bsky.feed.generator/legacy"},
		},
		{
			"$type": "app.bsky.actor.defs#savedFeedsPrefV2",
			"items": []any{
				map[string]any{"type": "feed", "value": "at://did:plc:new/app.bsky.feed.generator/fresh"},
			},
		},
	}
	assert.Equal(t, []string{"at://did:plc:new/app.bsky.feed.generator/fresh"}, savedFeedURIs(prefs))
}

func TestSavedFeedURIsEmpty(t *testing.T) {
	assert.Nil(t, savedFeedURIs(nil))
	assert.Nil(t, savedFeedURIs([]map[string]any{{"$type": "app.bsky.actor.defs#adultContentPref"}}))
}

func TestFeedURIName(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("hot", feedURIName("at://did:plc:a/app.bsky.feed.generator/hot"))
	assert.Equal("not-a-uri", feedURIName("not-a-uri"))
}
