package searchconsole

import (
	"strconv"

	gsc "google.golang.org/api/searchconsole/v1"
)

// NormalizeAnalytics converts a raw search analytics response into an
// AnalyticsResult. A nil response or one without rows yields an empty
// result. Row order is preserved.
func NormalizeAnalytics(resp *gsc.SearchAnalyticsQueryResponse) *AnalyticsResult {
	result := &AnalyticsResult{Rows: []AnalyticsRow{}}
	if resp == nil {
		return result
	}

	for _, raw := range resp.Rows {
		result.Rows = append(result.Rows, normalizeRow(raw))
	}
	result.TotalRows = len(result.Rows)
	return result
}

func normalizeRow(raw *gsc.ApiDataRow) AnalyticsRow {
	if raw == nil {
		return AnalyticsRow{}
	}

	row := AnalyticsRow{
		Clicks:      int64(raw.Clicks),
		Impressions: int64(raw.Impressions),
		CTR:         PercentCTR(raw.Ctr),
		Position:    RoundPosition(raw.Position),
	}
	if len(raw.Keys) > 0 {
		row.Dimensions = append([]string(nil), raw.Keys...)
	}
	return row
}

// PercentCTR converts a click-through ratio in [0,1] to a percentage
// rounded to two decimals.
func PercentCTR(ratio float64) float64 {
	return roundTo(ratio*100, 2)
}

// RoundPosition rounds an average position to one decimal.
func RoundPosition(position float64) float64 {
	return roundTo(position, 1)
}

// roundTo rounds the exact binary value of v to places decimals, ties to
// even. 4.25 is exact in binary and becomes 4.2; 4.35 is stored just below
// the tie and becomes 4.3.
func roundTo(v float64, places int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return r
}
