// Package notes models per-URL annotation records stored in the user's
// personal data repository under the tools.spice.note collection.
package notes

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/bluesky-social/indigo/atproto/syntax"
)

// Collection is the NSID under which annotation notes are stored.
const Collection = "tools.spice.note"

// MaxTextLength bounds the note body, in characters.
const MaxTextLength = 256

// Note is a single URL annotation.
type Note struct {
	URL       string `json:"url"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

// Validate checks field constraints before the record leaves the
// process. CreatedAt is producer-supplied and not re-validated here.
func (n Note) Validate() error {
	u, err := url.Parse(n.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid URL %q: must include scheme and host (e.g. https://example.com)", n.URL)
	}
	if strings.TrimSpace(n.Text) == "" {
		return fmt.Errorf("note text cannot be empty")
	}
	if c := utf8.RuneCountInString(n.Text); c > MaxTextLength {
		return fmt.Errorf("note text is too long: %d characters (max %d)", c, MaxTextLength)
	}
	return nil
}

// Record shapes the note as a repo record, $type included.
func (n Note) Record() map[string]any {
	return map[string]any{
		"$type":     Collection,
		"url":       n.URL,
		"text":      n.Text,
		"createdAt": n.CreatedAt,
	}
}

// FromRecord decodes a listRecords value back into a Note.
func FromRecord(raw json.RawMessage) (Note, error) {
	var n Note
	if err := json.Unmarshal(raw, &n); err != nil {
		return Note{}, fmt.Errorf("decoding note record: %w", err)
	}
	return n, nil
}

// ParseURI validates an at:// URI and splits it into repo identifier,
// collection and record key. All three parts must be present.
func ParseURI(raw string) (repo string, collection string, rkey string, err error) {
	aturi, err := syntax.ParseATURI(raw)
	if err != nil {
		return "", "", "", fmt.Errorf("invalid AT-URI (expected at://did/collection/rkey): %w", err)
	}
	repo = aturi.Authority().String()
	collection = aturi.Collection().String()
	rkey = aturi.RecordKey().String()
	if collection == "" || rkey == "" {
		return "", "", "", fmt.Errorf("invalid AT-URI (expected at://did/collection/rkey): %s", raw)
	}
	return repo, collection, rkey, nil
}
