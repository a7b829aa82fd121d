package httputil

import (
	"net/http"
	"net/url"
	"strings"
)

// NextLink extracts the URL with rel="next" from an RFC 8288 Link header.
// Returns empty string if no next link is present.
//
// Format: <https://api.github.com/...?page=2>; rel="next", <...>; rel="last"
func NextLink(header string) string {
	if header == "" {
		return ""
	}

	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)

		// Each part is: <url>; rel="type"
		segments := strings.SplitN(part, ";", 2)
		if len(segments) != 2 {
			continue
		}

		urlPart := strings.TrimSpace(segments[0])
		if !hasRel(segments[1], "next") {
			continue
		}
		if strings.HasPrefix(urlPart, "<") && strings.HasSuffix(urlPart, ">") {
			return urlPart[1 : len(urlPart)-1]
		}
	}

	return ""
}

// hasRel reports whether the parameter list of a link-value names rel.
// rel may be quoted and may hold several space-separated relation types.
func hasRel(params, rel string) bool {
	for _, p := range strings.Split(params, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(p), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(k), "rel") {
			continue
		}
		for _, r := range strings.Fields(strings.Trim(strings.TrimSpace(v), `"`)) {
			if strings.EqualFold(r, rel) {
				return true
			}
		}
	}
	return false
}

// NextURL returns the URL of the page after current.
//
// A Link rel="next" wins. Otherwise a non-empty X-Next-Page header (GitLab)
// is applied to the page query parameter of current. An empty result means
// current was the last page.
func NextURL(current string, h http.Header) string {
	if next := NextLink(h.Get("Link")); next != "" {
		return next
	}

	page := strings.TrimSpace(h.Get("X-Next-Page"))
	if page == "" {
		return ""
	}
	u, err := url.Parse(current)
	if err != nil {
		return ""
	}
	q := u.Query()
	q.Set("page", page)
	u.RawQuery = q.Encode()
	return u.String()
}
