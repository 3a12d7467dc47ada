package helpers

import (
	"errors"
	"net/url"
	"path"
	"sort"
	"strings"
)

var trackingQueryParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
	"utm_id":       {},
	"gclid":        {},
	"dclid":        {},
	"fbclid":       {},
	"msclkid":      {},
	"igshid":       {},
	"ref":          {},
}

// ErrMissingHost is returned when a URL carries no network location.
var ErrMissingHost = errors.New("url missing host")

// CanonicalURL normalises a product URL: https is assumed when the scheme is
// missing, scheme and host are lowercased, default ports, fragments and
// tracking parameters are dropped and the remaining query is sorted.
func CanonicalURL(raw string) (string, error) {
	parsed, err := parseURLPreserveHost(raw)
	if err != nil {
		return "", err
	}
	if parsed.Scheme == "" {
		parsed.Scheme = "https"
	}
	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = stripDefaultPort(parsed.Scheme, strings.ToLower(parsed.Host))

	if parsed.Path == "" {
		parsed.Path = "/"
	}
	cleaned := path.Clean(parsed.Path)
	if cleaned == "." {
		cleaned = "/"
	}
	if cleaned != "/" && strings.HasSuffix(parsed.Path, "/") {
		cleaned += "/"
	}
	parsed.Path = cleaned
	parsed.RawPath = ""
	parsed.Fragment = ""

	query := parsed.Query()
	for key := range query {
		if _, drop := trackingQueryParams[strings.ToLower(key)]; drop {
			query.Del(key)
		}
	}
	keys := make([]string, 0, len(query))
	for key := range query {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, key := range keys {
		values := append([]string(nil), query[key]...)
		sort.Strings(values)
		for _, value := range values {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(key))
			if value != "" {
				b.WriteByte('=')
				b.WriteString(url.QueryEscape(value))
			}
		}
	}
	parsed.RawQuery = b.String()

	return parsed.String(), nil
}

// Domain returns the lowercased network location (host[:port]) of raw.
// Schemeless values such as "example.com/pricing" are accepted.
func Domain(raw string) (string, error) {
	parsed, err := parseURLPreserveHost(raw)
	if err != nil {
		return "", err
	}
	return strings.ToLower(parsed.Host), nil
}

func stripDefaultPort(scheme, host string) string {
	h, port, found := strings.Cut(host, ":")
	if !found || strings.Contains(port, ":") {
		return host
	}
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		return h
	}
	return host
}

// parseURLPreserveHost parses raw, retrying schemeless input with https.
func parseURLPreserveHost(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty url")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if parsed.Host == "" && !strings.Contains(raw, "://") {
		if strings.HasPrefix(raw, "//") {
			parsed, err = url.Parse("https:" + raw)
		} else {
			parsed, err = url.Parse("https://" + raw)
		}
		if err != nil {
			return nil, err
		}
	}
	if parsed.Host == "" {
		return nil, ErrMissingHost
	}
	return parsed, nil
}
