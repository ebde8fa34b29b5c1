package domain

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// BookmarkView is the client-facing JSON representation of a bookmark.
type BookmarkView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Rating      int    `json:"rating"`
}

// inlineTags are rendered as markup; any other tag is shown as text.
var inlineTags = map[string]struct{}{
	"a": {}, "abbr": {}, "b": {}, "blockquote": {}, "br": {}, "code": {},
	"del": {}, "em": {}, "h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {},
	"h6": {}, "hr": {}, "i": {}, "img": {}, "li": {}, "ol": {}, "p": {},
	"pre": {}, "s": {}, "small": {}, "strong": {}, "sub": {}, "sup": {},
	"u": {}, "ul": {},
}

var tagPattern = regexp.MustCompile(`</?([a-zA-Z][a-zA-Z0-9]*)\b[^<>]*>`)

var angleEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// Sanitizer neutralizes active HTML in free-text fields.
//
// Inline markup (<strong>, <em>, <a href>, <img src>...) survives with its
// attributes filtered by bluemonday, so on* handlers are dropped. Every other
// tag, <script> included, is kept as visible text with its angle brackets
// escaped. Plain text is left alone apart from < and >.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer builds a sanitizer on bluemonday's user-generated-content policy.
// The returned value is safe for concurrent use.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.UGCPolicy()}
}

// Text sanitizes a single free-text value.
func (s *Sanitizer) Text(in string) string {
	if in == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(in))

	last := 0
	for _, m := range tagPattern.FindAllStringSubmatchIndex(in, -1) {
		b.WriteString(angleEscaper.Replace(in[last:m[0]]))
		last = m[1]

		tag := in[m[0]:m[1]]
		name := strings.ToLower(in[m[2]:m[3]])
		if _, ok := inlineTags[name]; !ok {
			b.WriteString(angleEscaper.Replace(tag))
			continue
		}
		// the policy sees one tag at a time, so only its attributes change
		b.WriteString(s.policy.Sanitize(tag))
	}
	b.WriteString(angleEscaper.Replace(in[last:]))

	return b.String()
}

// Serialize converts a stored bookmark into its client-safe form.
// ID and URL pass through unchanged.
func (s *Sanitizer) Serialize(b Bookmark) BookmarkView {
	return BookmarkView{
		ID:          b.ID,
		Title:       s.Text(b.Title),
		URL:         b.URL,
		Description: s.Text(b.Description),
		Rating:      b.Rating,
	}
}

// SerializeAll serializes every bookmark, returning an empty (non-nil) slice
// so an empty list encodes as [] rather than null.
func (s *Sanitizer) SerializeAll(bs []Bookmark) []BookmarkView {
	out := make([]BookmarkView, 0, len(bs))
	for _, b := range bs {
		out = append(out, s.Serialize(b))
	}
	return out
}

var defaultSanitizer = NewSanitizer()

// Serialize uses the package-level sanitizer.
func Serialize(b Bookmark) BookmarkView {
	return defaultSanitizer.Serialize(b)
}

// SerializeAll uses the package-level sanitizer.
func SerializeAll(bs []Bookmark) []BookmarkView {
	return defaultSanitizer.SerializeAll(bs)
}
