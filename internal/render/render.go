// Package render turns ranking entries into the HTML fragment shown in the
// page's ranking container.
package render

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/actuallystonmai/ranking-service/internal/domain"
	"github.com/microcosm-cc/bluemonday"
)

// Labels holds the fixed texts of the fragment.
type Labels struct {
	Overall   string // heading used in place of the "overall" tag
	Suffix    string // appended to every heading
	NoResults string
	LoadError string
}

var DefaultLabels = Labels{
	Overall:   "総合",
	Suffix:    "ランキング",
	NoResults: "該当記事がありませんでした。",
	LoadError: "ランキングを取得できませんでした。",
}

type Renderer struct {
	labels Labels
	clean  func(string) string
	href   func(string) string
}

type Option func(*Renderer)

func WithLabels(l Labels) Option {
	return func(r *Renderer) { r.labels = l }
}

// WithSanitizer passes every interpolated field through policy. Links that
// are not absolute http or https URLs are replaced with "#". Without it
// fields are written into the markup verbatim.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(r *Renderer) {
		if policy != nil {
			r.clean = policy.Sanitize
			r.href = func(raw string) string { return safeHref(policy, raw) }
		}
	}
}

func New(opts ...Option) *Renderer {
	r := &Renderer{
		labels: DefaultLabels,
		clean:  func(s string) string { return s },
		href:   func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewSafe returns a Renderer that strips markup from API data.
func NewSafe(opts ...Option) *Renderer {
	return New(append([]Option{WithSanitizer(bluemonday.StrictPolicy())}, opts...)...)
}

// Render builds the ranking fragment. Entries keep their input order.
func (r *Renderer) Render(entries []domain.Entry) string {
	if len(entries) == 0 {
		return r.notice(r.labels.NoResults)
	}

	var b strings.Builder
	b.WriteString(`<div class="card-header">`)
	b.WriteString(r.clean(r.Heading(entries[0].Tag)))
	b.WriteString(`</div>`)
	b.WriteString(`<div class="list-group list-group-flush">`)
	for _, e := range entries {
		b.WriteString(`<a class="list-group-item text-decoration-none" target="_blank" href="`)
		b.WriteString(r.href(e.URL))
		b.WriteString(`">`)
		b.WriteString(`<div class="pb-3">`)
		b.WriteString(r.clean(e.Title))
		b.WriteString(`</div>`)
		b.WriteString(`<div>`)
		b.WriteString(`<span class="likes-count mr-2"><i class="fas fa-thumbs-up"></i>`)
		b.WriteString(strconv.Itoa(e.LikesCount))
		b.WriteString(`</span>`)
		for _, t := range e.Tags {
			b.WriteString(`<span class="btn btn-sm btn-tags mx-1">`)
			b.WriteString(r.clean(t.Name))
			b.WriteString(`</span>`)
		}
		b.WriteString(`</div>`)
		b.WriteString(`</a>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

// Heading returns the list heading for tag.
func (r *Renderer) Heading(tag string) string {
	if domain.IsOverall(tag) {
		return r.labels.Overall + r.labels.Suffix
	}
	return tag + r.labels.Suffix
}

// RenderError builds the notice shown when a ranking could not be loaded.
func (r *Renderer) RenderError() string {
	return r.notice(r.labels.LoadError)
}

func (r *Renderer) notice(text string) string {
	return `<p class="text-center err-message py-5">` + text + `</p>`
}

func safeHref(policy *bluemonday.Policy, raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "#"
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return policy.Sanitize(u.String())
	}
	return "#"
}
