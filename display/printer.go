package display

import (
	"fmt"
	"io"
	"strings"

	appbsky "github.com/bluesky-social/indigo/api/bsky"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"
)

var (
	styleInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleDim     = lipgloss.NewStyle().Faint(true)
	styleTitle   = lipgloss.NewStyle().Bold(true)
	styleLikes   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleLink    = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Underline(true)
	styleURI     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleBox     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Printer is the rendering sink for all user-facing output. Commands
// construct one over os.Stdout; tests substitute a buffer.
type Printer struct {
	w io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) Println(args ...any) {
	fmt.Fprintln(p.w, args...)
}

func (p *Printer) Infof(format string, args ...any) {
	fmt.Fprintln(p.w, styleInfo.Render(fmt.Sprintf(format, args...)))
}

func (p *Printer) Warnf(format string, args ...any) {
	fmt.Fprintln(p.w, styleWarn.Render("⚠ "+fmt.Sprintf(format, args...)))
}

func (p *Printer) Successf(format string, args ...any) {
	fmt.Fprintln(p.w, styleSuccess.Render("✓ "+fmt.Sprintf(format, args...)))
}

func (p *Printer) Dimf(format string, args ...any) {
	fmt.Fprintln(p.w, styleDim.Render(fmt.Sprintf(format, args...)))
}

// Post writes one rendered display unit as a bordered block: linked
// title with badge, dim DID line, body with clickable links, like
// count, and the nested quote/parent when present.
func (p *Printer) Post(u *Unit) {
	if u == nil {
		return
	}
	var b strings.Builder

	title := u.Title
	if sym := u.Badge.Symbol(); sym != "" {
		title = sym + " " + title
	}
	b.WriteString(styleTitle.Render(termenv.Hyperlink(u.URL, title)))
	b.WriteString("\n")
	b.WriteString(styleDim.Render(u.DID))
	b.WriteString("\n\n")
	b.WriteString(renderSegments(u.Body))
	b.WriteString("\n")
	b.WriteString(styleLikes.Render(fmt.Sprintf("♥ %d", u.Likes)))

	if n := u.Nested; n != nil {
		b.WriteString("\n")
		b.WriteString(renderNested(n))
	}

	fmt.Fprintln(p.w, styleBox.Render(b.String()))
}

func renderSegments(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		if s.URI != "" {
			b.WriteString(styleLink.Render(termenv.Hyperlink(s.URI, s.Text)))
		} else {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

func renderNested(n *NestedUnit) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("↳ %s @%s", n.Author, n.Handle))
	if n.Likes > 0 {
		b.WriteString(fmt.Sprintf(" · ♥ %d", n.Likes))
	}
	b.WriteString("\n  ")
	b.WriteString(strings.ReplaceAll(n.Text, "\n", "\n  "))
	return styleDim.Render(b.String())
}

// Footer writes the pagination summary under a feed listing.
func (p *Printer) Footer(count, page int, hasNext bool) {
	word := "posts"
	if count == 1 {
		word = "post"
	}
	msg := fmt.Sprintf("Showing %d %s (page %d)", count, word, page)
	if hasNext {
		msg += fmt.Sprintf(" - use --p %d for the next page", page+1)
	}
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, styleDim.Render(msg))
}

// Profile writes a profile panel: name, handle, DID, bio, counters,
// and the linked bsky.app profile URL.
func (p *Printer) Profile(prof *appbsky.ActorDefs_ProfileViewDetailed) {
	if prof == nil {
		return
	}
	name := prof.Handle
	if prof.DisplayName != nil && *prof.DisplayName != "" {
		name = *prof.DisplayName
	}

	var b strings.Builder
	b.WriteString(styleTitle.Render(fmt.Sprintf("%s (@%s)", name, prof.Handle)))
	b.WriteString("\n")
	b.WriteString(styleDim.Render(prof.Did))
	if prof.Description != nil && *prof.Description != "" {
		b.WriteString("\n\n")
		b.WriteString(*prof.Description)
	}
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%d followers · %d following · %d posts",
		orZero(prof.FollowersCount), orZero(prof.FollowsCount), orZero(prof.PostsCount)))

	url := "https://bsky.app/profile/" + prof.Handle
	b.WriteString("\n")
	b.WriteString(styleLink.Render(termenv.Hyperlink(url, url)))

	fmt.Fprintln(p.w, styleBox.Render(b.String()))
}

func orZero(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

// FeedInfo is one saved feed row.
type FeedInfo struct {
	Name        string
	URI         string
	Description string
}

// FeedsTable writes the saved feeds listing.
func (p *Printer) FeedsTable(feeds []FeedInfo) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("FEED", "URI", "DESCRIPTION").
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				s = s.Bold(true)
			}
			return s
		})
	for _, f := range feeds {
		t.Row(f.Name, f.URI, f.Description)
	}
	fmt.Fprintln(p.w, t.String())
}

// Note writes one annotation entry: linked record URI and timestamp on
// the header line, the note text below.
func (p *Printer) Note(uri, createdAt, text string) {
	fmt.Fprintf(p.w, "%s  %s\n", styleURI.Render(uri), styleDim.Render(createdAt))
	fmt.Fprintln(p.w, text)
	fmt.Fprintln(p.w)
}
