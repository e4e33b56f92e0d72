// Package prompts registers the MCP prompts of the Search Console server.
//
// Prompts are static text templates. They never call the Search Console
// API themselves; instead they point the model at the tools and resources
// that gather the data:
//
//   - analyze_search_performance: traffic, CTR, position and top rows review
//   - seo_recommendations: SWOT style recommendations, optionally focused
//     on queries, pages or technical SEO
//   - compare_periods: period-over-period comparison of two date ranges
//   - indexing_health_check: sitemap, verification and URL inspection review
package prompts
