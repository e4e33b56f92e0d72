package instrumentation

import (
	"net/url"
	"strings"
)

// SiteHost reduces a Search Console property identifier to its host so it
// can be used as a label or logged without the full URL.
//
// Example:
//
//	SiteHost("https://www.example.com/blog/")  // "www.example.com"
//	SiteHost("sc-domain:example.com")          // "example.com"
//	SiteHost("not a url")                      // "unknown"
//	SiteHost("")                               // "unknown"
func SiteHost(siteURL string) string {
	if siteURL == "" {
		return "unknown"
	}

	if domain, ok := strings.CutPrefix(siteURL, "sc-domain:"); ok {
		if domain == "" {
			return "unknown"
		}
		return strings.ToLower(domain)
	}

	u, err := url.Parse(siteURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

// Operation types for Search Console API metrics.
// Status and Service constants are defined in config.go.
const (
	OperationQuery   = "query"
	OperationList    = "list"
	OperationGet     = "get"
	OperationSubmit  = "submit"
	OperationAdd     = "add"
	OperationDelete  = "delete"
	OperationInspect = "inspect"
)
