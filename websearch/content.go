package websearch

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	urlRe        = regexp.MustCompile(`https?://\S+`)
)

// CleanContent normalizes extracted page text: collapses whitespace,
// decodes common HTML entities, and strips embedded URLs that clutter
// the prose.
func CleanContent(content string) string {
	if content == "" {
		return ""
	}

	content = whitespaceRe.ReplaceAllString(content, " ")

	replacer := strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
	)
	content = replacer.Replace(content)

	content = urlRe.ReplaceAllString(content, "")

	return strings.TrimSpace(content)
}

// ExtractDomain returns the root domain of a URL: the www prefix is
// dropped and subdomains are collapsed to the last two labels, so
// subdomain.example.org becomes example.org. Returns "" for unparseable
// or empty URLs.
func ExtractDomain(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	domain := parsed.Host
	domain = strings.TrimPrefix(domain, "www.")

	parts := strings.Split(domain, ".")
	if len(parts) > 2 {
		domain = strings.Join(parts[len(parts)-2:], ".")
	}

	return domain
}
