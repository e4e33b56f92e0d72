package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"google.golang.org/api/option"

	"github.com/teemow/gsc-mcp/internal/config"
	"github.com/teemow/gsc-mcp/internal/google"
	"github.com/teemow/gsc-mcp/internal/logging"
	"github.com/teemow/gsc-mcp/internal/searchconsole"
)

const reportRule = "======================================================================"

func newReportCmd() *cobra.Command {
	var (
		days  int
		debug bool
	)

	cmd := &cobra.Command{
		Use:   "report [site_url]",
		Short: "Print a search analytics report for a property",
		Long: `Print a search analytics report for a Search Console property: overall
totals, the top 10 queries and landing pages, performance by device and the
top 5 countries.

The window covers the given number of days ending three days before today,
the usual Search Console reporting delay. Without a site_url the first
property of the account is used.

Credentials are configured like for the serve command.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return fmt.Errorf("--days must be positive, got %d", days)
			}

			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			client, err := newReportClient(ctx, cfg, debug)
			if err != nil {
				return err
			}

			siteURL := ""
			if len(args) == 1 {
				siteURL = args[0]
			}
			return runReport(ctx, cmd.OutOrStdout(), client, siteURL, days, time.Now())
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "Number of days to analyze")
	cmd.Flags().BoolVar(&debug, "debug", false, "Log every API call to stderr")
	config.AddCredentialFlags(cmd.Flags())

	return cmd
}

func newReportClient(ctx context.Context, cfg *config.Config, debug bool) (*searchconsole.Client, error) {
	tokenProvider, method, err := google.NewTokenProvider(ctx, cfg.ProviderConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to configure Google credentials: %w", err)
	}
	if method == google.MethodBearer {
		return nil, fmt.Errorf("no Google credentials configured: set --access-token, --credentials-file or --refresh-token")
	}

	httpClient, err := google.ResolveHTTPClient(ctx, tokenProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Google access token: %w", err)
	}

	var logger logging.Logger = logging.NopLogger{}
	if debug {
		logger = logging.NewSlogAdapter(logging.New(os.Stderr, true))
	}

	return searchconsole.NewClient(ctx, searchconsole.Config{
		Logger:        logger,
		ClientOptions: []option.ClientOption{option.WithHTTPClient(httpClient)},
	})
}

// runReport writes the report for siteURL to w. An empty siteURL selects
// the first property of the account.
func runReport(ctx context.Context, w io.Writer, client *searchconsole.Client, siteURL string, days int, now time.Time) error {
	if siteURL == "" {
		sites, err := client.ListSites(ctx)
		if err != nil {
			return fmt.Errorf("failed to list sites: %s", searchconsole.Message(err))
		}
		if sites.Total == 0 {
			return fmt.Errorf("no sites found, add a site to Google Search Console first")
		}
		siteURL = sites.Sites[0].SiteUrl
	}

	period := searchconsole.NewDateRange(days, now)

	query := func(dimension string, rowLimit int) ([]searchconsole.AnalyticsRow, error) {
		q := searchconsole.AnalyticsQuery{
			SiteURL:   siteURL,
			StartDate: period.Start,
			EndDate:   period.End,
			RowLimit:  rowLimit,
		}
		if dimension != "" {
			q.Dimensions = []string{dimension}
		}
		result, err := client.QuerySearchAnalytics(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("failed to query %s analytics: %s", orDefault(dimension, "overall"), searchconsole.Message(err))
		}
		return result.Rows, nil
	}

	fmt.Fprintf(w, "\n%s\nAnalytics Report for %s\nPeriod: %s (%d days)\n%s\n", reportRule, siteURL, period, days, reportRule)

	overall, err := query("", 1)
	if err != nil {
		return err
	}
	section(w, "OVERALL PERFORMANCE")
	printSimpleTable(w, []string{"Metric", "Value"}, func(add func(...string)) {
		if len(overall) == 0 {
			add("No data", "")
			return
		}
		row := overall[0]
		add("Total Clicks", formatCount(row.Clicks))
		add("Total Impressions", formatCount(row.Impressions))
		add("Average CTR", formatCTR(row.CTR))
		add("Average Position", formatPosition(row.Position))
	})

	queries, err := query("query", 10)
	if err != nil {
		return err
	}
	section(w, "TOP 10 SEARCH QUERIES")
	printSimpleTable(w, []string{"Rank", "Query", "Clicks", "Impr.", "CTR"}, func(add func(...string)) {
		for i, row := range queries {
			add(strconv.Itoa(i+1), truncate(row.Dimension(0), 38), formatCount(row.Clicks), formatCount(row.Impressions), formatCTR(row.CTR))
		}
	})

	pages, err := query("page", 10)
	if err != nil {
		return err
	}
	section(w, "TOP 10 LANDING PAGES")
	printSimpleTable(w, []string{"Rank", "Page", "Clicks"}, func(add func(...string)) {
		for i, row := range pages {
			add(strconv.Itoa(i+1), truncate(row.Dimension(0), 48), formatCount(row.Clicks))
		}
	})

	devices, err := query("device", 10)
	if err != nil {
		return err
	}
	section(w, "PERFORMANCE BY DEVICE")
	printSimpleTable(w, []string{"Device", "Clicks", "Impressions", "CTR", "Pos."}, func(add func(...string)) {
		for _, row := range devices {
			add(capitalize(row.Dimension(0)), formatCount(row.Clicks), formatCount(row.Impressions), formatCTR(row.CTR), formatPosition(row.Position))
		}
	})

	countries, err := query("country", 5)
	if err != nil {
		return err
	}
	section(w, "TOP 5 COUNTRIES")
	printSimpleTable(w, []string{"Country", "Clicks", "Impressions", "CTR"}, func(add func(...string)) {
		for _, row := range countries {
			add(strings.ToUpper(row.Dimension(0)), formatCount(row.Clicks), formatCount(row.Impressions), formatCTR(row.CTR))
		}
	})

	fmt.Fprintf(w, "\n%s\n", reportRule)
	return nil
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", title)
}

// printSimpleTable renders a simple table with headers using tablewriter.
// The add callback is called with row values as variadic strings.
func printSimpleTable(w io.Writer, headers []string, fill func(add func(...string))) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(headers)
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)
	tw.SetAutoFormatHeaders(false)

	fill(func(cols ...string) {
		tw.Append(cols)
	})
	tw.Render()
}

// formatCount renders n with thousands separators, e.g. 48,000.
func formatCount(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func formatCTR(ctr float64) string {
	return strconv.FormatFloat(ctr, 'f', 2, 64) + "%"
}

func formatPosition(position float64) string {
	return strconv.FormatFloat(position, 'f', 1, 64)
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	r, size := utf8.DecodeRuneInString(lower)
	return strings.ToUpper(string(r)) + lower[size:]
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
