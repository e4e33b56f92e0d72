// Package gsc_tools provides MCP tools for Google Search Console.
//
// # Available Tools
//
// Analytics:
//   - query_search_analytics: Query clicks, impressions, CTR and position
//
// Sitemaps:
//   - list_sitemaps: List the sitemaps of a property
//   - get_sitemap: Get one sitemap's status
//   - submit_sitemap: Submit a sitemap (write)
//   - delete_sitemap: Remove a sitemap (write)
//
// Sites:
//   - list_sites: List the properties the caller can access
//   - get_site: Get one property's permission level
//   - add_site: Add a property (write)
//   - delete_site: Remove a property (write)
//
// Inspection:
//   - inspect_url: Inspect the index status of a URL
//
// # Read-only Mode
//
// Write tools are only registered when the server runs with --yolo.
//
// # Errors
//
// Failures are returned as tool results with IsError set and one of the
// fixed user facing messages (permission denied, not found,
// authentication failed, rate limit exceeded, invalid request).
package gsc_tools
