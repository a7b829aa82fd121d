// Package httputil provides the HTTP plumbing shared by the hosting clients.
//
// # Overview
//
//   - [ResponseCache]: conditional-request validators stored per URL
//   - [NextLink] and [NextURL]: pagination header parsing
//
// # Conditional requests
//
// GitHub and GitLab return an ETag (and sometimes Last-Modified) with most
// GET responses. Replaying those as If-None-Match / If-Modified-Since lets
// the server answer 304 Not Modified, which GitHub does not count against
// the rate limit. [ResponseCache] keeps the validators and body per URL:
//
//	rc := httputil.NewResponseCache(cache.NewMemoryCache(), 0)
//	if e, ok, _ := rc.Get(ctx, url); ok {
//	    e.Condition(req)
//	}
//	// on 200:
//	if e, ok := httputil.EntryFromResponse(resp, body); ok {
//	    rc.Put(ctx, url, e)
//	}
//
// Responses without any validator are not stored.
//
// # Pagination
//
// GitHub paginates with an RFC 8288 Link header, GitLab additionally sends
// X-Next-Page. [NextURL] understands both and prefers Link.
package httputil
