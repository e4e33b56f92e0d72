package searchconsole

import (
	"bytes"
	"encoding/json"
	"strconv"

	gsc "google.golang.org/api/searchconsole/v1"
)

// AnalyticsRow is one normalized search analytics row.
//
// Dimensions holds the row keys in the order the dimensions were
// requested. CTR is a percentage and Position is rounded to one decimal.
type AnalyticsRow struct {
	Dimensions  []string
	Clicks      int64
	Impressions int64
	CTR         float64
	Position    float64
}

// Dimension returns the i-th dimension value, or "" if the row has fewer
// dimensions.
func (r AnalyticsRow) Dimension(i int) string {
	if i < 0 || i >= len(r.Dimensions) {
		return ""
	}
	return r.Dimensions[i]
}

// MarshalJSON encodes the row with positional dimension fields followed by
// the metrics:
//
//	{"dimension_0":"shoes","clicks":10,"impressions":200,"ctr":5,"position":3.1}
func (r AnalyticsRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range r.Dimensions {
		v, err := json.Marshal(d)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`"dimension_` + strconv.Itoa(i) + `":`)
		buf.Write(v)
		buf.WriteByte(',')
	}

	metrics := []struct {
		key   string
		value any
	}{
		{"clicks", r.Clicks},
		{"impressions", r.Impressions},
		{"ctr", r.CTR},
		{"position", r.Position},
	}
	for i, m := range metrics {
		v, err := json.Marshal(m.value)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`"` + m.key + `":`)
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// AnalyticsResult is a normalized search analytics response.
// TotalRows always equals len(Rows).
type AnalyticsResult struct {
	Rows      []AnalyticsRow `json:"rows"`
	TotalRows int            `json:"total_rows"`
}

// AnalyticsQuery describes a search analytics request.
type AnalyticsQuery struct {
	SiteURL    string
	StartDate  string
	EndDate    string
	Dimensions []string
	// RowLimit is clamped to MaxRowLimit. Zero or less means DefaultRowLimit.
	RowLimit int
	StartRow int
	// SearchType is optional (web, image, video, news, discover, googleNews).
	SearchType string
}

// SitesResult lists the properties of the authenticated account.
type SitesResult struct {
	Sites []*gsc.WmxSite `json:"sites"`
	Total int            `json:"total"`
}

// SitemapsResult lists the sitemaps submitted for a property.
type SitemapsResult struct {
	SiteURL  string            `json:"site_url,omitempty"`
	Sitemaps []*gsc.WmxSitemap `json:"sitemaps"`
	Total    int               `json:"total"`
}

// StatusResult confirms a write operation.
type StatusResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// AnalyticsSummary holds property-wide totals for a period.
type AnalyticsSummary struct {
	SiteURL          string  `json:"site_url"`
	Period           string  `json:"period"`
	TotalClicks      int64   `json:"total_clicks"`
	TotalImpressions int64   `json:"total_impressions"`
	AverageCTR       float64 `json:"average_ctr"`
	AveragePosition  float64 `json:"average_position"`
}

// TopRowsResult holds the best performing rows for a single dimension.
type TopRowsResult struct {
	SiteURL   string         `json:"site_url"`
	Period    string         `json:"period"`
	Dimension string         `json:"dimension"`
	Rows      []AnalyticsRow `json:"rows"`
}

const statusSuccess = "success"
