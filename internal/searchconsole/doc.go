// Package searchconsole wraps the Google Search Console API
// (google.golang.org/api/searchconsole/v1).
//
// Every Client method follows the same shape: validate the arguments
// without touching the network, issue exactly one API call, normalize the
// response and turn any failure into a *CategorizedError. Nothing is
// retried or cached, and no state is shared between calls.
//
// # Normalization
//
// Search analytics rows are reshaped into AnalyticsRow values. Dimension
// keys become positional fields (dimension_0, dimension_1, ...), CTR is
// scaled to a percentage rounded to two decimals and the average position
// is rounded to one decimal:
//
//	result := searchconsole.NormalizeAnalytics(resp)
//	fmt.Println(result.TotalRows, result.Rows[0].Dimension(0))
//
// # Errors
//
// Categorize maps any failure onto a fixed set of kinds (permission denied,
// not found, unauthenticated, rate limited, bad request, unknown) with a
// message suitable for an end user. Arguments rejected before the API call
// are reported with KindValidation.
//
// # Dates
//
// Search Console data lags by a few days. NewDateRange returns a window
// that ends ReportingDelayDays before the given time.
package searchconsole
