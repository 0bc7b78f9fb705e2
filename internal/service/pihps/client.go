package pihps

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"

	"github.com/panganid/pangan-ingest/internal/domain/dto"
	"github.com/panganid/pangan-ingest/internal/pkg/logger"
)

const (
	userAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	gridPath      = "/WebSite/TabelHarga/GetGridDataKomoditas"
	refererPath   = "/TabelHarga/PasarTradisionalKomoditas"
	tokenSelector = `input[name="__RequestVerificationToken"]`

	maxRetries    = 3
	retryInterval = 500 * time.Millisecond
)

// Client talks to the BI PIHPS price grids. The grid endpoint expects the
// caller to look like the site's own AJAX: session cookies from a prior
// homepage visit, a same-origin referer and the XMLHttpRequest marker.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func NewClient(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookiejar.New: %w", err)
	}

	return &Client{
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: 60 * time.Second,
		},
		baseURL: baseURL,
	}, nil
}

// InitSession visits the homepage so the jar captures the antiforgery
// cookies, and lifts the verification token from the page when present.
func (c *Client) InitSession(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return fmt.Errorf("http.NewRequest: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("session request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("session status code error: %d %s", resp.StatusCode, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("goquery.NewDocumentFromReader: %w", err)
	}

	if token, ok := doc.Find(tokenSelector).First().Attr("value"); ok {
		c.token = token
	}

	logger.Infof(ctx, "session initialized, cookies captured for %s", c.baseURL)
	return nil
}

// FetchCommodityGrid retrieves the per-province time series for one
// commodity over [start, end]. Transient failures are retried with a
// constant backoff; a response that still fails is the caller's to handle.
func (c *Client) FetchCommodityGrid(ctx context.Context, externalID string, start, end time.Time) ([]dto.GridRow, error) {
	params := url.Values{}
	params.Set("price_type_id", "1")
	params.Set("comcat_id", externalID)
	params.Set("province_id", "")
	params.Set("regency_id", "")
	params.Set("showKota", "false")
	params.Set("showPasar", "false")
	params.Set("tipe_laporan", "1")
	params.Set("start_date", start.Format("2006-01-02"))
	params.Set("end_date", end.Format("2006-01-02"))
	params.Set("_", strconv.FormatInt(time.Now().UnixMilli(), 10))

	gridURL := c.baseURL + gridPath + "?" + params.Encode()

	var body []byte
	err := backoff.Retry(
		func() error {
			req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, gridURL, nil)
			if reqErr != nil {
				return backoff.Permanent(reqErr)
			}
			req.Header.Set("User-Agent", userAgent)
			req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
			req.Header.Set("X-Requested-With", "XMLHttpRequest")
			req.Header.Set("Referer", c.baseURL+refererPath)
			if c.token != "" {
				req.Header.Set("RequestVerificationToken", c.token)
			}

			resp, httpErr := c.httpClient.Do(req)
			if httpErr != nil {
				return fmt.Errorf("grid request: %w", httpErr)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("grid status code error: %d %s", resp.StatusCode, resp.Status)
			}

			body, httpErr = io.ReadAll(resp.Body)
			if httpErr != nil {
				return fmt.Errorf("read grid body: %w", httpErr)
			}

			return nil
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(retryInterval), maxRetries),
			ctx,
		),
	)
	if err != nil {
		return nil, err
	}

	envelope, err := dto.ParseGridEnvelope(body)
	if err != nil {
		return nil, fmt.Errorf("parse grid envelope: %w", err)
	}

	return envelope.Data, nil
}
