package notes

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	assert := assert.New(t)

	good := Note{URL: "https://example.com/page", Text: "worth reading", CreatedAt: "2026-08-23T10:00:00Z"}
	assert.NoError(good.Validate())

	cases := []struct {
		name string
		note Note
	}{
		{"schemeless URL", Note{URL: "example.com/page", Text: "x"}},
		{"hostless URL", Note{URL: "https://", Text: "x"}},
		{"empty text", Note{URL: "https://example.com", Text: ""}},
		{"blank text", Note{URL: "https://example.com", Text: "   "}},
		{"oversized text", Note{URL: "https://example.com", Text: strings.Repeat("a", MaxTextLength+1)}},
	}
	for _, c := range cases {
		assert.Error(c.note.Validate(), c.name)
	}

	// Exactly at the limit is fine; the limit counts characters, not bytes.
	atLimit := Note{URL: "https://example.com", Text: strings.Repeat("é", MaxTextLength)}
	assert.NoError(atLimit.Validate())
}

func TestRecordCarriesType(t *testing.T) {
	assert := assert.New(t)

	n := Note{URL: "https://example.com", Text: "hi", CreatedAt: "2026-08-23T10:00:00Z"}
	m := n.Record()
	assert.Equal(Collection, m["$type"])
	assert.Equal("https://example.com", m["url"])
	assert.Equal("hi", m["text"])
	assert.Equal("2026-08-23T10:00:00Z", m["createdAt"])
}

func TestFromRecordRoundTrip(t *testing.T) {
	n := Note{URL: "https://example.com", Text: "hi", CreatedAt: "2026-08-23T10:00:00Z"}
	raw, err := json.Marshal(n.Record())
	require.NoError(t, err)

	got, err := FromRecord(raw)
	require.NoError(t, err)
	assert.Equal(t, n, got)
}

func TestFromRecordBadJSON(t *testing.T) {
	_, err := FromRecord(json.RawMessage(`{"url": 42`))
	assert.Error(t, err)
}

func TestParseURI(t *testing.T) {
	assert := assert.New(t)

	repo, collection, rkey, err := ParseURI("at://did:plc:abc123/tools.spice.note/3k2aexample")
	require.NoError(t, err)
	assert.Equal("did:plc:abc123", repo)
	assert.Equal("tools.spice.note", collection)
	assert.Equal("3k2aexample", rkey)

	bad := []string{
		"https://example.com/not-an-at-uri",
		"at://did:plc:abc123",
		"at://did:plc:abc123/tools.spice.note",
		"",
	}
	for _, raw := range bad {
		_, _, _, err := ParseURI(raw)
		assert.Error(err, raw)
	}
}
