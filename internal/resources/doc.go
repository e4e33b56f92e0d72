// Package resources provides MCP resources for Google Search Console.
//
// Static resources:
//   - gsc://sites: the properties the caller can access
//   - gsc://config: server name, version, authentication method and scopes
//
// Resource templates, where {site_url} is the percent-encoded property
// (e.g. https%3A%2F%2Fexample.com%2F or sc-domain%3Aexample.com):
//   - gsc://sites/{site_url}/analytics/summary: totals for the last 28 days
//   - gsc://sites/{site_url}/sitemaps: the property's sitemaps
//   - gsc://sites/{site_url}/top-queries: top 10 queries of the last 7 days
//   - gsc://sites/{site_url}/top-pages: top 10 pages of the last 7 days
//
// Analytics windows end three days before today because Search Console
// data lags. Failures are returned as a JSON document {"error": "..."}
// rather than a protocol error.
package resources
