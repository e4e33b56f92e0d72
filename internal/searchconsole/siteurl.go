package searchconsole

import (
	"net/url"
	"strings"
)

// EncodeSiteURL percent-encodes a property identifier so it can be used as
// a single path segment. Every reserved character is escaped, including
// "/" and ":", and spaces become %20.
func EncodeSiteURL(siteURL string) string {
	return strings.ReplaceAll(url.QueryEscape(siteURL), "+", "%20")
}

// DecodeSiteURL reverses EncodeSiteURL. A "+" is kept literally, and a "%"
// that does not start a valid escape is kept as is, so "a%20b%zz" decodes
// to "a b%zz". Invalid UTF-8 becomes U+FFFD.
func DecodeSiteURL(encoded string) string {
	decoded, err := url.PathUnescape(encoded)
	if err != nil {
		decoded = unescapeLenient(encoded)
	}
	return strings.ToValidUTF8(decoded, "\uFFFD")
}

func unescapeLenient(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	}
	return c - '0'
}
