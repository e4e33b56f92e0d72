package searchconsole

import (
	"slices"
	"strings"
)

// Dimensions accepted by search analytics queries.
var Dimensions = []string{"query", "page", "country", "device", "date", "searchAppearance"}

// SearchTypes accepted by search analytics queries.
var SearchTypes = []string{"web", "image", "video", "news", "discover", "googleNews"}

// DefaultLanguageCode is used for URL inspection when none is given.
const DefaultLanguageCode = "en-US"

// Validate checks the query without contacting the API.
func (q AnalyticsQuery) Validate() error {
	if err := requireSiteURL(q.SiteURL); err != nil {
		return err
	}
	if err := ValidateDateRange(q.StartDate, q.EndDate); err != nil {
		return err
	}
	for _, d := range q.Dimensions {
		if !slices.Contains(Dimensions, d) {
			return NewValidationError("invalid dimension %q, must be one of: %s", d, strings.Join(Dimensions, ", "))
		}
	}
	if q.SearchType != "" && !slices.Contains(SearchTypes, q.SearchType) {
		return NewValidationError("invalid search_type %q, must be one of: %s", q.SearchType, strings.Join(SearchTypes, ", "))
	}
	if q.StartRow < 0 {
		return NewValidationError("start_row must not be negative")
	}
	return nil
}

func requireSiteURL(siteURL string) error {
	if strings.TrimSpace(siteURL) == "" {
		return NewValidationError("site_url is required")
	}
	return nil
}

func requireFeedpath(feedpath string) error {
	if strings.TrimSpace(feedpath) == "" {
		return NewValidationError("feedpath is required")
	}
	return nil
}
