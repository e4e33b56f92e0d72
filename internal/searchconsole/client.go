package searchconsole

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/option"
	gsc "google.golang.org/api/searchconsole/v1"

	"github.com/teemow/gsc-mcp/internal/instrumentation"
	"github.com/teemow/gsc-mcp/internal/logging"
)

// Windows used by the canned analytics views.
const (
	SummaryDays  = 28
	TopRowsDays  = 7
	TopRowsLimit = 10
)

// Config configures a Client.
type Config struct {
	// Logger receives one record per API call. Nil discards output.
	Logger logging.Logger

	// Metrics records API call counts, durations and error categories.
	// Optional.
	Metrics *instrumentation.Metrics

	// ClientOptions are passed to the generated service. Callers supply
	// the authenticated HTTP client here.
	ClientOptions []option.ClientOption
}

// Client wraps the Search Console service for one caller's credentials.
type Client struct {
	svc     *gsc.Service
	logger  logging.Logger
	metrics *instrumentation.Metrics
}

// NewClient creates a Client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	svc, err := gsc.NewService(ctx, cfg.ClientOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Search Console service: %w", err)
	}

	return &Client{
		svc:     svc,
		logger:  logging.OrNop(cfg.Logger),
		metrics: cfg.Metrics,
	}, nil
}

// call runs a single API request inside a span and converts its failure
// into a *CategorizedError.
func (c *Client) call(ctx context.Context, operation, siteURL string, fn func(ctx context.Context) error) error {
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceSearchConsole, operation,
		attribute.String(instrumentation.SpanAttrSite, siteURL))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)

	if err != nil {
		cerr := Categorize(err)
		instrumentation.SetSpanError(span, cerr)
		if c.metrics != nil {
			c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceSearchConsole, operation, instrumentation.StatusError, duration)
			c.metrics.RecordAPIError(ctx, instrumentation.ServiceSearchConsole, string(cerr.Kind))
		}
		c.logger.Warn("Search Console request failed",
			logging.Operation(operation),
			logging.Site(siteURL),
			logging.Category(string(cerr.Kind)),
			logging.Err(err))
		return cerr
	}

	instrumentation.SetSpanSuccess(span)
	if c.metrics != nil {
		c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceSearchConsole, operation, instrumentation.StatusSuccess, duration)
	}
	c.logger.Debug("Search Console request completed",
		logging.Operation(operation),
		logging.Site(siteURL),
		logging.Status(logging.StatusSuccess))
	return nil
}

// QuerySearchAnalytics runs a search analytics query and normalizes the rows.
func (c *Client) QuerySearchAnalytics(ctx context.Context, q AnalyticsQuery) (*AnalyticsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	req := &gsc.SearchAnalyticsQueryRequest{
		StartDate:  q.StartDate,
		EndDate:    q.EndDate,
		Dimensions: q.Dimensions,
		RowLimit:   int64(ClampRowLimit(q.RowLimit)),
		StartRow:   int64(q.StartRow),
		Type:       q.SearchType,
	}

	var resp *gsc.SearchAnalyticsQueryResponse
	err := c.call(ctx, instrumentation.OperationQuery, q.SiteURL, func(ctx context.Context) error {
		var err error
		resp, err = c.svc.Searchanalytics.Query(q.SiteURL, req).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, err
	}

	return NormalizeAnalytics(resp), nil
}

// AnalyticsSummary returns property-wide totals for the SummaryDays window
// ending ReportingDelayDays before now.
func (c *Client) AnalyticsSummary(ctx context.Context, siteURL string, now time.Time) (*AnalyticsSummary, error) {
	period := NewDateRange(SummaryDays, now)

	result, err := c.QuerySearchAnalytics(ctx, AnalyticsQuery{
		SiteURL:   siteURL,
		StartDate: period.Start,
		EndDate:   period.End,
		RowLimit:  1,
	})
	if err != nil {
		return nil, err
	}

	summary := &AnalyticsSummary{
		SiteURL: siteURL,
		Period:  period.String(),
	}
	if len(result.Rows) > 0 {
		row := result.Rows[0]
		summary.TotalClicks = row.Clicks
		summary.TotalImpressions = row.Impressions
		summary.AverageCTR = row.CTR
		summary.AveragePosition = row.Position
	}
	return summary, nil
}

// TopRows returns the TopRowsLimit best rows grouped by dimension over the
// TopRowsDays window ending ReportingDelayDays before now.
func (c *Client) TopRows(ctx context.Context, siteURL, dimension string, now time.Time) (*TopRowsResult, error) {
	period := NewDateRange(TopRowsDays, now)

	result, err := c.QuerySearchAnalytics(ctx, AnalyticsQuery{
		SiteURL:    siteURL,
		StartDate:  period.Start,
		EndDate:    period.End,
		Dimensions: []string{dimension},
		RowLimit:   TopRowsLimit,
	})
	if err != nil {
		return nil, err
	}

	return &TopRowsResult{
		SiteURL:   siteURL,
		Period:    period.String(),
		Dimension: dimension,
		Rows:      result.Rows,
	}, nil
}

// ListSitemaps lists the sitemaps of a property. If sitemapIndex is set,
// only the sitemaps contained in that index are returned.
func (c *Client) ListSitemaps(ctx context.Context, siteURL, sitemapIndex string) (*SitemapsResult, error) {
	if err := requireSiteURL(siteURL); err != nil {
		return nil, err
	}

	var resp *gsc.SitemapsListResponse
	err := c.call(ctx, instrumentation.OperationList, siteURL, func(ctx context.Context) error {
		call := c.svc.Sitemaps.List(siteURL)
		if sitemapIndex != "" {
			call = call.SitemapIndex(sitemapIndex)
		}
		var err error
		resp, err = call.Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, err
	}

	result := &SitemapsResult{Sitemaps: []*gsc.WmxSitemap{}}
	if resp != nil && resp.Sitemap != nil {
		result.Sitemaps = resp.Sitemap
	}
	result.Total = len(result.Sitemaps)
	return result, nil
}

// GetSitemap returns a single sitemap as reported by the API.
func (c *Client) GetSitemap(ctx context.Context, siteURL, feedpath string) (*gsc.WmxSitemap, error) {
	if err := requireSiteURL(siteURL); err != nil {
		return nil, err
	}
	if err := requireFeedpath(feedpath); err != nil {
		return nil, err
	}

	var sitemap *gsc.WmxSitemap
	err := c.call(ctx, instrumentation.OperationGet, siteURL, func(ctx context.Context) error {
		var err error
		sitemap, err = c.svc.Sitemaps.Get(siteURL, feedpath).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, err
	}
	return sitemap, nil
}

// SubmitSitemap submits a sitemap for crawling.
func (c *Client) SubmitSitemap(ctx context.Context, siteURL, feedpath string) (*StatusResult, error) {
	if err := requireSiteURL(siteURL); err != nil {
		return nil, err
	}
	if err := requireFeedpath(feedpath); err != nil {
		return nil, err
	}

	err := c.call(ctx, instrumentation.OperationSubmit, siteURL, func(ctx context.Context) error {
		return c.svc.Sitemaps.Submit(siteURL, feedpath).Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}
	return &StatusResult{
		Status:  statusSuccess,
		Message: fmt.Sprintf("Sitemap %s submitted successfully", feedpath),
	}, nil
}

// DeleteSitemap removes a sitemap from the property.
func (c *Client) DeleteSitemap(ctx context.Context, siteURL, feedpath string) (*StatusResult, error) {
	if err := requireSiteURL(siteURL); err != nil {
		return nil, err
	}
	if err := requireFeedpath(feedpath); err != nil {
		return nil, err
	}

	err := c.call(ctx, instrumentation.OperationDelete, siteURL, func(ctx context.Context) error {
		return c.svc.Sitemaps.Delete(siteURL, feedpath).Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}
	return &StatusResult{
		Status:  statusSuccess,
		Message: fmt.Sprintf("Sitemap %s deleted successfully", feedpath),
	}, nil
}

// ListSites lists the properties the caller has access to.
func (c *Client) ListSites(ctx context.Context) (*SitesResult, error) {
	var resp *gsc.SitesListResponse
	err := c.call(ctx, instrumentation.OperationList, "", func(ctx context.Context) error {
		var err error
		resp, err = c.svc.Sites.List().Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, err
	}

	result := &SitesResult{Sites: []*gsc.WmxSite{}}
	if resp != nil && resp.SiteEntry != nil {
		result.Sites = resp.SiteEntry
	}
	result.Total = len(result.Sites)
	return result, nil
}

// GetSite returns a property and the caller's permission level on it.
func (c *Client) GetSite(ctx context.Context, siteURL string) (*gsc.WmxSite, error) {
	if err := requireSiteURL(siteURL); err != nil {
		return nil, err
	}

	var site *gsc.WmxSite
	err := c.call(ctx, instrumentation.OperationGet, siteURL, func(ctx context.Context) error {
		var err error
		site, err = c.svc.Sites.Get(siteURL).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, err
	}
	return site, nil
}

// AddSite adds a property to the caller's account.
func (c *Client) AddSite(ctx context.Context, siteURL string) (*StatusResult, error) {
	if err := requireSiteURL(siteURL); err != nil {
		return nil, err
	}

	err := c.call(ctx, instrumentation.OperationAdd, siteURL, func(ctx context.Context) error {
		return c.svc.Sites.Add(siteURL).Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}
	return &StatusResult{
		Status:  statusSuccess,
		Message: fmt.Sprintf("Site %s added successfully", siteURL),
	}, nil
}

// DeleteSite removes a property from the caller's account.
func (c *Client) DeleteSite(ctx context.Context, siteURL string) (*StatusResult, error) {
	if err := requireSiteURL(siteURL); err != nil {
		return nil, err
	}

	err := c.call(ctx, instrumentation.OperationDelete, siteURL, func(ctx context.Context) error {
		return c.svc.Sites.Delete(siteURL).Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}
	return &StatusResult{
		Status:  statusSuccess,
		Message: fmt.Sprintf("Site %s deleted successfully", siteURL),
	}, nil
}

// InspectURL reports the index status of a URL belonging to siteURL.
// An empty languageCode selects DefaultLanguageCode.
func (c *Client) InspectURL(ctx context.Context, inspectionURL, siteURL, languageCode string) (*gsc.InspectUrlIndexResponse, error) {
	if inspectionURL == "" {
		return nil, NewValidationError("inspection_url is required")
	}
	if err := requireSiteURL(siteURL); err != nil {
		return nil, err
	}
	if languageCode == "" {
		languageCode = DefaultLanguageCode
	}

	req := &gsc.InspectUrlIndexRequest{
		InspectionUrl: inspectionURL,
		SiteUrl:       siteURL,
		LanguageCode:  languageCode,
	}

	var resp *gsc.InspectUrlIndexResponse
	err := c.call(ctx, instrumentation.OperationInspect, siteURL, func(ctx context.Context) error {
		var err error
		resp, err = c.svc.UrlInspection.Index.Inspect(req).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
