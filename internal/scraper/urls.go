package scraper

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/StateFromJakeFarm/research/internal/errors"
)

// ErrNoExtensions is returned when no audio file types are configured
var ErrNoExtensions = errors.NewStd("must specify at least one audio file type")

// BuildExtensionPattern returns an unanchored alternation matching any string
// containing ".<ext>" for one of exts, e.g. (.*\.mp3)|(.*\.wav). Group i+1
// captures a match of exts[i].
func BuildExtensionPattern(exts []string) (string, error) {
	if len(exts) == 0 {
		return "", errors.New(ErrNoExtensions).
			Component("scraper").
			Category(errors.CategoryConfiguration).
			Build()
	}

	var b strings.Builder
	for i, ext := range exts {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(`(.*\.`)
		b.WriteString(regexp.QuoteMeta(ext))
		b.WriteByte(')')
	}
	return b.String(), nil
}

// BaseURL returns rawURL up to and including the first occurrence of a known
// top-level suffix. Every suffix is tried in order and the last one found wins.
// It returns "" when no suffix occurs.
func BaseURL(rawURL string, suffixes []string) string {
	base := ""
	for _, suffix := range suffixes {
		if pos := strings.Index(rawURL, suffix); pos != -1 {
			base = rawURL[:pos+len(suffix)]
		}
	}
	return base
}

// AbsoluteURL resolves link against base. A link that already contains base is
// returned unchanged; otherwise the two are joined with exactly one slash.
func AbsoluteURL(base, link string) string {
	if strings.Contains(link, base) {
		return link
	}

	baseSlash := strings.HasSuffix(base, "/")
	linkSlash := strings.HasPrefix(link, "/")
	switch {
	case baseSlash && linkSlash:
		return base[:len(base)-1] + link
	case !baseSlash && !linkSlash:
		return base + "/" + link
	default:
		return base + link
	}
}

// hostAllowed reports whether rawURL's host is one of domains or a subdomain of one.
// An empty domain list allows everything.
func hostAllowed(rawURL string, domains []string) bool {
	if len(domains) == 0 {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, domain := range domains {
		domain = strings.ToLower(domain)
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
