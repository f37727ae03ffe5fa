package display

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	appbsky "github.com/bluesky-social/indigo/api/bsky"
)

// Segment is a run of post text, optionally carrying a link target. A
// sequence of segments covers the source text with no gaps or overlaps.
type Segment struct {
	Text string
	URI  string // empty for plain text
}

type linkSpan struct {
	start, end int
	uri        string
}

// urlPattern finds domain-shaped links in text that carries no facets:
// an optional http(s) scheme, dot-separated labels (1-63 alphanumerics
// or hyphens, no leading/trailing hyphen), a TLD of at least two
// letters, then an optional path/query/fragment run.
var urlPattern = regexp.MustCompile(
	`(?:https?://)?(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}(?:[^\s<>"{}|\\^` + "`" + `\[\]]*)?`)

// Segments splits text into plain and link runs. Facet byte ranges are
// authoritative when supplied; without them, or when any link facet
// carries a malformed range, the text is re-scanned with urlPattern.
func Segments(text string, facets []*appbsky.RichtextFacet) []Segment {
	if text == "" {
		return nil
	}
	if len(facets) > 0 {
		spans, ok := linkSpans(text, facets)
		if ok {
			return facetSegments(text, spans)
		}
		// Malformed byte range: fail closed, fall through to the scan.
	}
	return regexSegments(text)
}

// linkSpans collects the link-feature facets as byte spans, sorted by
// start offset (stable, so input order breaks ties). Overlapping spans
// keep the first one. Returns ok=false if any span is out of bounds or
// would split a multi-byte character.
func linkSpans(text string, facets []*appbsky.RichtextFacet) ([]linkSpan, bool) {
	var spans []linkSpan
	for _, f := range facets {
		if f == nil || f.Index == nil {
			continue
		}
		for _, feat := range f.Features {
			if feat == nil || feat.RichtextFacet_Link == nil {
				continue
			}
			spans = append(spans, linkSpan{
				start: int(f.Index.ByteStart),
				end:   int(f.Index.ByteEnd),
				uri:   feat.RichtextFacet_Link.Uri,
			})
		}
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	kept := spans[:0]
	prevEnd := 0
	for _, s := range spans {
		if s.start < 0 || s.end > len(text) || s.start > s.end ||
			!runeBoundary(text, s.start) || !runeBoundary(text, s.end) {
			return nil, false
		}
		if s.start < prevEnd {
			continue
		}
		kept = append(kept, s)
		prevEnd = s.end
	}
	return kept, true
}

func runeBoundary(text string, i int) bool {
	if i == 0 || i == len(text) {
		return true
	}
	return utf8.RuneStart(text[i])
}

func facetSegments(text string, spans []linkSpan) []Segment {
	var segs []Segment
	cur := 0
	for _, s := range spans {
		if s.start > cur {
			segs = append(segs, Segment{Text: text[cur:s.start]})
		}
		segs = append(segs, Segment{Text: text[s.start:s.end], URI: s.uri})
		cur = s.end
	}
	if cur < len(text) {
		segs = append(segs, Segment{Text: text[cur:]})
	}
	return segs
}

func regexSegments(text string) []Segment {
	var segs []Segment
	last := 0
	for _, m := range urlPattern.FindAllStringIndex(text, -1) {
		if m[0] > last {
			segs = append(segs, Segment{Text: text[last:m[0]]})
		}
		match := text[m[0]:m[1]]
		target := match
		// Display text stays verbatim; only the target gets a scheme.
		if !strings.HasPrefix(match, "http://") && !strings.HasPrefix(match, "https://") {
			target = "https://" + match
		}
		segs = append(segs, Segment{Text: match, URI: target})
		last = m[1]
	}
	if last < len(text) {
		segs = append(segs, Segment{Text: text[last:]})
	}
	return segs
}
