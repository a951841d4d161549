package scraper

import "strings"

// Normalize turns a possibly-relative href into an absolute https URL.
// Relative hrefs are concatenated onto base (the page origin) rather than
// RFC-resolved, matching how the source page links its announcements. The
// scheme is always coerced to https.
func Normalize(base, href string) string {
	u := href
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = base + u
	}
	if strings.HasPrefix(u, "http://") {
		u = "https://" + strings.TrimPrefix(u, "http://")
	}
	return u
}
