package grounding

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Registry deduplicates source references by URI and hands out stable
// 1-based citation indices in first-seen order. One registry serves exactly
// one response-processing pass; it only grows and is not safe for concurrent
// use, which is fine because each query gets its own.
type Registry struct {
	byURI     map[string]int // URI -> index into citations
	citations []Citation
}

func NewRegistry() *Registry {
	return &Registry{byURI: map[string]int{}}
}

// Register returns the citation for uri, allocating the next sequential index
// on first sight. Repeat registrations return the existing citation unchanged;
// the first-seen title wins.
func (r *Registry) Register(uri, title string) Citation {
	if i, ok := r.byURI[uri]; ok {
		return r.citations[i]
	}
	c := Citation{Index: len(r.citations) + 1, URI: uri, Title: displayTitle(uri, title)}
	r.byURI[uri] = len(r.citations)
	r.citations = append(r.citations, c)
	return c
}

// Citations returns the registered citations in index order.
func (r *Registry) Citations() []Citation {
	return r.citations
}

// displayTitle falls back to the URI's registrable domain when the API
// returned no title, so the Markdown citation list never shows a bare
// bracket. Unparseable URIs fall back to the URI itself.
func displayTitle(uri, title string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	u, err := url.Parse(uri)
	if err != nil || u.Hostname() == "" {
		return uri
	}
	host := strings.ToLower(u.Hostname())
	if d, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return d
	}
	return host
}
