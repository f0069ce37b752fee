package processor

import (
	"regexp"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/html"
)

// placeholderPrefix starts every formatting placeholder token.
const placeholderPrefix = "PLACEHOLDER_"

// Placeholder is one formatted span lifted out of the text.
type Placeholder struct {
	Token      string // PLACEHOLDER_<uuid>
	Wrapped    string // Token enclosed in the marker symbol, as inserted when outermost
	Kind       string // Matcher name (bold, link, ...)
	Original   string // The markup exactly as it appeared
	Normalized string // The same span as an HTML tag
}

// Placeholders is the request-scoped set produced by one Protect call.
type Placeholders struct {
	items []Placeholder
}

// Len returns the number of stored placeholders.
func (p *Placeholders) Len() int {
	if p == nil {
		return 0
	}
	return len(p.items)
}

// Items returns the placeholders in the order they were created.
func (p *Placeholders) Items() []Placeholder {
	if p == nil {
		return nil
	}
	return p.items
}

// Restore puts every stored span back in place of its placeholder, first
// occurrence only. Spans are restored newest first, so a container brings
// back the placeholders nested inside it before those are resolved. The
// wrapped form is preferred; the bare token is used when the markers were
// already consumed as a protected span. With normalize set, spans come
// back as HTML tags.
func (p *Placeholders) Restore(text string, normalize bool) string {
	if p == nil {
		return text
	}
	for i := len(p.items) - 1; i >= 0; i-- {
		ph := p.items[i]
		value := ph.Original
		if normalize {
			value = ph.Normalized
		}
		if strings.Contains(text, ph.Wrapped) {
			text = strings.Replace(text, ph.Wrapped, value, 1)
			continue
		}
		text = strings.Replace(text, ph.Token, value, 1)
	}
	return text
}

type matcher struct {
	kind      string
	re        *regexp.Regexp
	normalize func(groups []string) string
}

func wrapTag(tag string) func([]string) string {
	return func(groups []string) string {
		return "<" + tag + ">" + groups[1] + "</" + tag + ">"
	}
}

// defaultMatchers is the fixed priority order: markdown emphasis, code,
// HTML emphasis, then links.
var defaultMatchers = []matcher{
	{"bold", regexp.MustCompile(`(?s)\*\*(.*?)\*\*`), wrapTag("b")},
	{"italic", regexp.MustCompile(`(?s)\*(.*?)\*`), wrapTag("i")},
	{"underline", regexp.MustCompile(`(?s)__(.*?)__`), wrapTag("u")},
	{"strikethrough", regexp.MustCompile(`(?s)~~(.*?)~~`), wrapTag("s")},
	{"code_block", regexp.MustCompile("(?s)```(.*?)```"), wrapTag("code")},
	{"inline_code", regexp.MustCompile("(?s)`(.*?)`"), wrapTag("code")},
	{"html_bold", regexp.MustCompile(`(?s)<b>(.*?)</b>`), wrapTag("b")},
	{"html_italic", regexp.MustCompile(`(?s)<i>(.*?)</i>`), wrapTag("i")},
	{"html_underline", regexp.MustCompile(`(?s)<u>(.*?)</u>`), wrapTag("u")},
	{"html_strikethrough", regexp.MustCompile(`(?s)<s>(.*?)</s>`), wrapTag("s")},
	{"html_code", regexp.MustCompile(`(?s)<code>(.*?)</code>`), wrapTag("code")},
	{"link", regexp.MustCompile(`(?s)\[(.*?)\]\((.*?)\)`), func(groups []string) string {
		return `<a href="` + groups[2] + `">` + groups[1] + `</a>`
	}},
	{"html_link", regexp.MustCompile(`(?s)<a\s+href=['"]([^'"]*)['"]>(.*?)</a>`), func(groups []string) string {
		return normalizeAnchor(groups[0])
	}},
}

// normalizeAnchor rewrites an HTML anchor to the canonical
// <a href="...">text</a> form.
func normalizeAnchor(markup string) string {
	var href string
	var text strings.Builder

	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return `<a href="` + href + `">` + text.String() + `</a>`
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			if string(name) == "a" {
				for hasAttr {
					var key, val []byte
					key, val, hasAttr = z.TagAttr()
					if string(key) == "href" {
						href = string(val)
					}
				}
				continue
			}
			text.Write(z.Raw())
		case html.EndTagToken:
			if name, _ := z.TagName(); string(name) == "a" {
				continue
			}
			text.Write(z.Raw())
		default:
			text.Write(z.Raw())
		}
	}
}

// FormattingGuard lifts inline formatting out of text before translation.
type FormattingGuard struct {
	matchers []matcher
	newID    func() string
}

// NewFormattingGuard creates a guard with the default matchers.
func NewFormattingGuard() *FormattingGuard {
	return &FormattingGuard{
		matchers: defaultMatchers,
		newID:    uuid.NewString,
	}
}

// Protect replaces every formatted span with a placeholder and returns
// the rewritten text with the stored originals.
//
// Matchers run in priority order over the text as rewritten by earlier
// matchers, so a link or tag can enclose placeholders that are already
// there while the content of a placeholder is never rescanned. In the
// result every marker outside a placeholder is escaped and every
// outermost placeholder is enclosed in the marker, which makes the
// placeholders the only spans SplitProtected finds.
func (g *FormattingGuard) Protect(text, marker string) (string, *Placeholders) {
	set := &Placeholders{}

	for _, m := range g.matchers {
		locs := m.re.FindAllStringSubmatchIndex(text, -1)
		if len(locs) == 0 {
			continue
		}

		var b strings.Builder
		last := 0
		for _, loc := range locs {
			b.WriteString(text[last:loc[0]])

			groups := make([]string, len(loc)/2)
			for i := range groups {
				if loc[2*i] >= 0 {
					groups[i] = text[loc[2*i]:loc[2*i+1]]
				}
			}

			token := placeholderPrefix + g.newID()
			set.items = append(set.items, Placeholder{
				Token:      token,
				Wrapped:    marker + token + marker,
				Kind:       m.kind,
				Original:   groups[0],
				Normalized: m.normalize(groups),
			})
			b.WriteString(token)
			last = loc[1]
		}
		b.WriteString(text[last:])
		text = b.String()
	}

	return wrapOutermost(text, marker, set.items), set
}

// wrapOutermost escapes the markers in the plain text between the
// placeholders still visible in text and encloses those placeholders in
// the marker. Markers that were already escaped stay escaped once.
func wrapOutermost(text, marker string, items []Placeholder) string {
	type hit struct {
		pos int
		ph  Placeholder
	}

	var hits []hit
	for _, ph := range items {
		if i := strings.Index(text, ph.Token); i >= 0 {
			hits = append(hits, hit{i, ph})
		}
	}
	slices.SortFunc(hits, func(a, b hit) int { return a.pos - b.pos })

	escape := func(s string) string {
		return EscapeMarker(UnescapeMarker(s, marker), marker)
	}

	var b strings.Builder
	last := 0
	for _, h := range hits {
		b.WriteString(escape(text[last:h.pos]))
		b.WriteString(h.ph.Wrapped)
		last = h.pos + len(h.ph.Token)
	}
	b.WriteString(escape(text[last:]))
	return b.String()
}
