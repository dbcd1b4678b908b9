package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/fourd-analyzer/internal/models"
)

// Default Singapore Pools endpoints. The draw list page holds one <option>
// per draw in reverse chronological order; its querystring attribute carries
// the opaque draw id used to request the result page.
const (
	DefaultDrawListURL = "http://www.singaporepools.com.sg/DataFileArchive/Lottery/Output/fourd_result_draw_list_en.html"
	DefaultResultURL   = "http://www.singaporepools.com.sg/en/product/Pages/4d_results.aspx?sppl="

	// drawDateFormat matches the result page header, e.g. "Wed, 02 Apr 2025"
	// after its weekday prefix is stripped.
	drawDateFormat = "02 Jan 2006"
)

// Result page markup markers. The pages are server-rendered with stable
// class names, so a thin regexp extraction is enough; no DOM walk needed.
var (
	optionQueryRe     = regexp.MustCompile(`(?is)<option[^>]*\bquerystring=['"]([^'"]+)['"]`)
	drawDateRe        = regexp.MustCompile(`(?is)class=['"][^'"]*\bdrawDate\b[^'"]*['"][^>]*>([^<]+)<`)
	firstPrizeRe      = regexp.MustCompile(`(?is)class=['"][^'"]*\btdFirstPrize\b[^'"]*['"][^>]*>([^<]+)<`)
	secondPrizeRe     = regexp.MustCompile(`(?is)class=['"][^'"]*\btdSecondPrize\b[^'"]*['"][^>]*>([^<]+)<`)
	thirdPrizeRe      = regexp.MustCompile(`(?is)class=['"][^'"]*\btdThirdPrize\b[^'"]*['"][^>]*>([^<]+)<`)
	starterBodyRe     = regexp.MustCompile(`(?is)<tbody[^>]*\btbodyStarterPrizes\b.*?</tbody>`)
	consolationBodyRe = regexp.MustCompile(`(?is)<tbody[^>]*\btbodyConsolationPrizes\b.*?</tbody>`)
	cellRe            = regexp.MustCompile(`(?is)<td[^>]*>\s*(\d{4})\s*</td>`)
)

// SingaporePoolsClient implements DrawSource against the Singapore Pools
// 4D results pages.
type SingaporePoolsClient struct {
	httpClient  *RateLimitedHTTPClient
	drawListURL string
	resultURL   string
	logger      *logrus.Logger
}

// NewSingaporePoolsClient creates a Singapore Pools draw source. Empty URLs
// fall back to the production endpoints.
func NewSingaporePoolsClient(httpClient *RateLimitedHTTPClient, drawListURL, resultURL string, logger *logrus.Logger) (*SingaporePoolsClient, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("http client is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if drawListURL == "" {
		drawListURL = DefaultDrawListURL
	}
	if resultURL == "" {
		resultURL = DefaultResultURL
	}
	return &SingaporePoolsClient{
		httpClient:  httpClient,
		drawListURL: drawListURL,
		resultURL:   resultURL,
		logger:      logger,
	}, nil
}

// Name returns the data source name
func (c *SingaporePoolsClient) Name() string {
	return "singapore_pools"
}

// FetchResults walks the draw list newest-first, fetching each result page
// until it passes below the requested range. Draws that fail to parse are
// skipped so one broken page cannot sink a whole sync.
func (c *SingaporePoolsClient) FetchResults(ctx context.Context, from, to time.Time) ([]models.Record, error) {
	from = models.DateOnly(from)
	to = models.DateOnly(to)

	drawIDs, err := c.fetchDrawList(ctx)
	if err != nil {
		return nil, err
	}

	var records []models.Record
	processed := 0
	inRange := 0

	for _, drawID := range drawIDs {
		if err := ctx.Err(); err != nil {
			return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, "fetch cancelled", err)
		}

		drawDate, drawRecords, err := c.fetchDraw(ctx, drawID)
		if err != nil {
			c.logger.WithError(err).WithField("draw_id", drawID).Warn("Skipping unparseable draw")
			continue
		}
		processed++

		// Draws are listed newest-first, so the first date below the
		// range means everything after it is older too.
		if drawDate.Before(from) {
			break
		}
		if drawDate.After(to) {
			continue
		}

		inRange++
		records = append(records, drawRecords...)
	}

	c.logger.WithFields(logrus.Fields{
		"processed": processed,
		"in_range":  inRange,
		"records":   len(records),
	}).Info("Fetched draw results")

	return records, nil
}

func (c *SingaporePoolsClient) fetchDrawList(ctx context.Context) ([]string, error) {
	body, err := c.fetchPage(ctx, c.drawListURL)
	if err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, "failed to fetch draw list", err)
	}

	matches := optionQueryRe.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil, NewDataSourceError(c.Name(), ErrCodeInvalidData, "draw list contains no draws", nil)
	}

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		// The querystring attribute is "sppl=<id>"; keep only the id.
		query := m[1]
		if i := strings.LastIndex(query, "="); i >= 0 {
			query = query[i+1:]
		}
		ids = append(ids, query)
	}
	return ids, nil
}

func (c *SingaporePoolsClient) fetchDraw(ctx context.Context, drawID string) (time.Time, []models.Record, error) {
	body, err := c.fetchPage(ctx, c.resultURL+drawID)
	if err != nil {
		return time.Time{}, nil, err
	}

	drawDate, err := parseDrawDate(body)
	if err != nil {
		return time.Time{}, nil, err
	}

	var records []models.Record
	appendNumber := func(number string, category models.PrizeCategory) {
		rec, err := models.NewRecord(drawDate, number, category)
		if err != nil {
			c.logger.WithError(err).WithFields(logrus.Fields{
				"draw_date": drawDate.Format(time.DateOnly),
				"category":  category.String(),
			}).Debug("Skipping malformed prize number")
			return
		}
		records = append(records, rec)
	}

	first, err := extractSingle(firstPrizeRe, body)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("first prize: %w", err)
	}
	second, err := extractSingle(secondPrizeRe, body)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("second prize: %w", err)
	}
	third, err := extractSingle(thirdPrizeRe, body)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("third prize: %w", err)
	}

	appendNumber(first, models.PrizeFirst)
	appendNumber(second, models.PrizeSecond)
	appendNumber(third, models.PrizeThird)

	for _, number := range extractTableNumbers(starterBodyRe, body) {
		appendNumber(number, models.PrizeStarter)
	}
	for _, number := range extractTableNumbers(consolationBodyRe, body) {
		appendNumber(number, models.PrizeConsolation)
	}

	return drawDate, records, nil
}

func (c *SingaporePoolsClient) fetchPage(ctx context.Context, url string) (string, error) {
	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", NewDataSourceError(c.Name(), ErrCodeServerError, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", NewDataSourceError(c.Name(), ErrCodeNetworkError, "failed to read response body", err)
	}
	return string(body), nil
}

// parseDrawDate extracts the draw date from the result page header. The
// header text carries a weekday prefix ("Wed, 02 Apr 2025") that is dropped
// before parsing.
func parseDrawDate(body string) (time.Time, error) {
	m := drawDateRe.FindStringSubmatch(body)
	if m == nil {
		return time.Time{}, fmt.Errorf("draw date not found")
	}
	text := strings.TrimSpace(m[1])
	if i := strings.LastIndex(text, ", "); i >= 0 {
		text = text[i+2:]
	}
	date, err := time.Parse(drawDateFormat, text)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid draw date %q: %w", text, err)
	}
	return models.DateOnly(date), nil
}

func extractSingle(re *regexp.Regexp, body string) (string, error) {
	m := re.FindStringSubmatch(body)
	if m == nil {
		return "", fmt.Errorf("marker %s not found", re.String())
	}
	return strings.TrimSpace(m[1]), nil
}

func extractTableNumbers(sectionRe *regexp.Regexp, body string) []string {
	section := sectionRe.FindString(body)
	if section == "" {
		return nil
	}
	matches := cellRe.FindAllStringSubmatch(section, -1)
	numbers := make([]string, 0, len(matches))
	for _, m := range matches {
		numbers = append(numbers, m[1])
	}
	return numbers
}
