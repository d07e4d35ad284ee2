package search

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/runger/markfind/internal/corpus"
)

// domainPattern recognizes bare domain terms like "example.com/path" for
// direct navigation.
var domainPattern = regexp.MustCompile(`^[a-z0-9-]+(\.[a-z0-9-]+)+(/\S*)?$`)

// looksLikeURL reports whether term is a bare URL or domain.
func looksLikeURL(term string) bool {
	if strings.ContainsAny(term, " \t") {
		return false
	}
	if strings.HasPrefix(term, "http://") || strings.HasPrefix(term, "https://") {
		return true
	}
	return domainPattern.MatchString(term)
}

// directResult synthesizes the direct-navigation result for a URL-shaped
// term.
func directResult(term string) corpus.SearchResult {
	target := term
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = "https://" + target
	}
	e := corpus.Entry{
		ID:    "direct:" + term,
		Type:  corpus.TypeDirect,
		Title: "Open " + term,
		URL:   target,
	}
	e.Normalize()
	return corpus.NewResult(e, "", 0)
}

// engineResults synthesizes one result per configured search engine.
func (e *Engine) engineResults(term string) []corpus.SearchResult {
	results := make([]corpus.SearchResult, 0, len(e.cfg.Engines))
	for _, eng := range e.cfg.Engines {
		results = append(results, engineResult(eng.Name, eng.URL, term, corpus.TypeSearch))
	}
	return results
}

// aliasResults collects custom-search hits: a configured alias token
// followed by a space at the start of the term targets that engine with
// the rest of the term.
func (e *Engine) aliasResults(term string) []corpus.SearchResult {
	var results []corpus.SearchResult
	for _, eng := range e.cfg.Engines {
		if eng.Alias == "" {
			continue
		}
		prefix := eng.Alias + " "
		if !strings.HasPrefix(term, prefix) {
			continue
		}
		q := strings.TrimSpace(term[len(prefix):])
		if q == "" {
			continue
		}
		results = append(results, engineResult(eng.Name, eng.URL, q, corpus.TypeCustomSearch))
	}
	return results
}

func engineResult(name, urlTemplate, term string, typ corpus.Type) corpus.SearchResult {
	e := corpus.Entry{
		ID:    fmt.Sprintf("%s:%s:%s", typ, name, term),
		Type:  typ,
		Title: fmt.Sprintf("%s: %s", name, term),
		URL:   strings.Replace(urlTemplate, "%s", url.QueryEscape(term), 1),
	}
	e.Normalize()
	return corpus.NewResult(e, "", 0)
}
