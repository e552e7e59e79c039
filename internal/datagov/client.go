package datagov

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	gocache "github.com/patrickmn/go-cache"

	"AgriQuery/internal/regions"
	"AgriQuery/pkg/logger"
)

const (
	defaultCacheTTL  = time.Hour
	defaultTimeout   = 20 * time.Second
	defaultRecordCap = 10000

	cropPageSize     = 100
	rainfallPageSize = 1000

	// Page ceilings. Queries without a year filter are unbounded upstream
	// and must not be allowed to drain the whole remote table.
	cropMaxPagesFiltered   = 100
	cropMaxPagesUnfiltered = 20
	cropUnfilteredCap      = 2000
	rainfallMaxPages       = 10

	retryAttempts         = 3
	defaultRetryBaseDelay = 500 * time.Millisecond
	defaultRetryMaxDelay  = 4 * time.Second
)

// Filters maps a column to an exact value or to an operator map,
// e.g. Filters{"crop_year": 2003} or Filters{"year": map[string]any{">=": 2019}}.
type Filters map[string]any

// Config collects everything the client needs; zero values get defaults.
type Config struct {
	APIKey             string
	BaseURL            string
	CropResourceID     string
	RainfallResourceID string
	CacheTTL           time.Duration
	RetryBaseDelay     time.Duration
	RetryMaxDelay      time.Duration
	HTTPClient         *http.Client
	Logger             *slog.Logger
	WireDebug          bool
}

// Client fetches tabular records from data.gov.in with filter construction,
// offset/limit pagination, TTL response caching and retry with exponential
// backoff for transient failures.
type Client struct {
	apiKey     string
	httpClient *http.Client
	cache      *gocache.Cache
	logger     *slog.Logger
	wire       *log.Logger
	crop       Dataset
	rain       Dataset
	retryBase  time.Duration
	retryMax   time.Duration
}

// NewClient builds a client from configuration, filling defaults.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	cropID := cfg.CropResourceID
	if cropID == "" {
		cropID = CropProductionResourceID
	}
	rainID := cfg.RainfallResourceID
	if rainID == "" {
		rainID = RainfallResourceID
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	retryBase := cfg.RetryBaseDelay
	if retryBase <= 0 {
		retryBase = defaultRetryBaseDelay
	}
	retryMax := cfg.RetryMaxDelay
	if retryMax <= 0 {
		retryMax = defaultRetryMaxDelay
	}

	c := &Client{
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		cache:      gocache.New(ttl, 2*ttl),
		logger:     log,
		crop:       Dataset{Name: CropDatasetName, ResourceID: cropID, BaseURL: baseURL, CoverageEnd: CropCoverageEnd},
		rain:       Dataset{Name: RainfallDatasetName, ResourceID: rainID, BaseURL: baseURL, CoverageEnd: RainfallCoverageEnd},
		retryBase:  retryBase,
		retryMax:   retryMax,
	}
	if cfg.WireDebug {
		c.wire = logger.New("datagov.wire")
	}
	return c
}

// CropDataset describes the crop production resource for citations.
func (c *Client) CropDataset() Dataset { return c.crop }

// RainfallDataset describes the rainfall resource for citations.
func (c *Client) RainfallDataset() Dataset { return c.rain }

// CropQuery selects district-wise crop production records.
// A zero Year means all years, subject to the unfiltered record cap.
type CropQuery struct {
	State    string
	District string
	Crop     string
	Season   string
	Year     int
	Limit    int
}

// FetchCropProduction retrieves and normalizes crop production records.
func (c *Client) FetchCropProduction(ctx context.Context, q CropQuery) ([]CropRecord, error) {
	filters := Filters{}
	if q.State != "" {
		filters["state_name"] = regions.StandardizeState(q.State)
	}
	if q.District != "" {
		filters["district_name"] = q.District
	}
	if q.Crop != "" {
		filters["crop"] = q.Crop
	}
	if q.Year != 0 {
		filters["crop_year"] = q.Year
	}
	if q.Season != "" {
		filters["season"] = q.Season
	}

	recordCap := q.Limit
	if recordCap <= 0 {
		recordCap = defaultRecordCap
	}
	maxPages := cropMaxPagesFiltered
	if q.Year == 0 {
		maxPages = cropMaxPagesUnfiltered
		if recordCap > cropUnfilteredCap {
			recordCap = cropUnfilteredCap
		}
	}

	raw, err := c.fetchPages(ctx, c.crop.URL(), filters, pageOptions{
		pageSize: cropPageSize,
		maxPages: maxPages,
		cap:      recordCap,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch crop production: %w", err)
	}

	out := make([]CropRecord, 0, len(raw))
	for _, r := range raw {
		out = append(out, normalizeCrop(r))
	}
	c.logger.Debug("crop production fetched",
		"state", q.State, "crop", q.Crop, "year", q.Year, "records", len(out))
	return out, nil
}

// RainfallQuery selects subdivision rainfall records for a year range.
type RainfallQuery struct {
	Subdivision string
	YearStart   int
	YearEnd     int
	Limit       int
}

// FetchRainfall retrieves rainfall records for one subdivision. The year
// range is applied locally: the rainfall resource silently ignores year
// filters, so pushing them upstream would return misleading results.
func (c *Client) FetchRainfall(ctx context.Context, q RainfallQuery) ([]RainfallRecord, error) {
	filters := Filters{}
	if q.Subdivision != "" {
		filters["subdivision"] = strings.ToUpper(q.Subdivision)
	}

	raw, err := c.fetchPages(ctx, c.rain.URL(), filters, pageOptions{
		pageSize:   rainfallPageSize,
		maxPages:   rainfallMaxPages,
		honorTotal: true,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch rainfall: %w", err)
	}

	out := make([]RainfallRecord, 0, len(raw))
	for _, r := range raw {
		rec := normalizeRainfall(r)
		if q.YearStart != 0 && rec.Year < q.YearStart {
			continue
		}
		if q.YearEnd != 0 && rec.Year > q.YearEnd {
			continue
		}
		out = append(out, rec)
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	c.logger.Debug("rainfall fetched",
		"subdivision", q.Subdivision, "years", fmt.Sprintf("%d-%d", q.YearStart, q.YearEnd), "records", len(out))
	return out, nil
}

type pageOptions struct {
	pageSize   int
	maxPages   int
	cap        int
	honorTotal bool
}

func (c *Client) fetchPages(ctx context.Context, rawURL string, filters Filters, opt pageOptions) ([]map[string]any, error) {
	base := c.buildParams(filters)
	records := []map[string]any{}
	offset := 0

	for page := 0; page < opt.maxPages; page++ {
		size := opt.pageSize
		if opt.cap > 0 {
			if remaining := opt.cap - len(records); remaining < size {
				size = remaining
			}
		}
		if size <= 0 {
			break
		}

		params := cloneValues(base)
		params.Set("limit", strconv.Itoa(size))
		params.Set("offset", strconv.Itoa(offset))

		payload, err := c.getJSON(ctx, rawURL, params)
		if err != nil {
			return nil, err
		}

		batch := payload.Records
		if len(batch) == 0 {
			break
		}
		records = append(records, batch...)

		if opt.honorTotal {
			if total := payload.totalCount(); total > 0 && len(records) >= total {
				break
			}
		}
		if len(batch) < size {
			break
		}
		offset += size
	}

	if opt.cap > 0 && len(records) > opt.cap {
		records = records[:opt.cap]
	}
	return records, nil
}

// buildParams translates a filter map into API query parameters:
// scalar values become filters[col]=v, operator maps become filters[col][op]=v.
func (c *Client) buildParams(filters Filters) url.Values {
	params := url.Values{}
	params.Set("api-key", c.apiKey)
	params.Set("format", "json")

	for col, value := range filters {
		switch ops := value.(type) {
		case map[string]any:
			for op, v := range ops {
				params.Set(fmt.Sprintf("filters[%s][%s]", col, op), stringify(v))
			}
		default:
			if value != nil {
				params.Set(fmt.Sprintf("filters[%s]", col), stringify(value))
			}
		}
	}
	return params
}

type apiResponse struct {
	Records []map[string]any `json:"records"`
	Total   any              `json:"total"`
	Status  string           `json:"status"`
	Message string           `json:"message"`
}

func (r *apiResponse) totalCount() int {
	if f, ok := parseNumber(r.Total); ok {
		return int(f)
	}
	return 0
}

func (c *Client) getJSON(ctx context.Context, rawURL string, params url.Values) (*apiResponse, error) {
	key := cacheKey(rawURL, params)
	if cached, ok := c.cache.Get(key); ok {
		return cached.(*apiResponse), nil
	}

	var payload *apiResponse
	operation := func() error {
		var err error
		payload, err = c.get(ctx, rawURL, params)
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryBase
	bo.MaxInterval = c.retryMax
	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(bo, retryAttempts-1), ctx)); err != nil {
		return nil, err
	}

	c.cache.Set(key, payload, gocache.DefaultExpiration)
	return payload, nil
}

func (c *Client) get(ctx context.Context, rawURL string, params url.Values) (*apiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("build request: %w", err))
	}

	if c.wire != nil {
		c.wire.Printf("GET %s params=%s", rawURL, redactKey(params))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("network error, will retry", "url", rawURL, "error", err)
		return nil, fmt.Errorf("request %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, backoff.Permanent(ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		c.logger.Warn("resource not found, treating as empty", "url", rawURL)
		return &apiResponse{Records: []map[string]any{}}, nil
	case resp.StatusCode >= 300:
		statusErr := &StatusError{Code: resp.StatusCode, Body: bodySnippet(resp.Body)}
		if statusErr.Transient() {
			c.logger.Warn("transient upstream status, will retry", "status", resp.StatusCode, "url", rawURL)
			return nil, statusErr
		}
		return nil, backoff.Permanent(statusErr)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Warn("malformed JSON body, will retry", "url", rawURL, "error", err)
		return nil, fmt.Errorf("decode response from %s: %w", rawURL, err)
	}

	if payload.Status == "error" {
		apiErr := &APIError{Message: payload.Message}
		c.logger.Warn("API reported error, will retry", "url", rawURL, "message", payload.Message)
		return nil, apiErr
	}

	if c.wire != nil {
		c.wire.Printf("GET %s -> %d records", rawURL, len(payload.Records))
	}
	return &payload, nil
}

// cacheKey is a pure function of the URL and the canonicalized parameter
// set: url.Values.Encode sorts by key, so insertion order never matters.
func cacheKey(rawURL string, params url.Values) string {
	sum := sha256.Sum256([]byte(rawURL + "?" + params.Encode()))
	return hex.EncodeToString(sum[:])
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func bodySnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 1024))
	return strings.TrimSpace(string(b))
}

func redactKey(params url.Values) string {
	clone := cloneValues(params)
	if clone.Get("api-key") != "" {
		clone.Set("api-key", "***")
	}
	return clone.Encode()
}
