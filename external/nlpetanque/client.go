package nlpetanque

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/petanque-league/internal/platform/logging"
	"github.com/riskibarqy/petanque-league/internal/platform/resilience"
	"github.com/riskibarqy/petanque-league/internal/usecase"
	"golang.org/x/time/rate"
)

const (
	DefaultScheduleURL  = "https://nlpetanque.nl/topdivisie-2025-2026-1001/"
	defaultUserAgent    = "petanque-league-sync/1.0"
	defaultMaxBodyBytes = 4 << 20
)

var errTransient = errors.New("schedule page transient failure")

type ClientConfig struct {
	HTTPClient   *http.Client
	URL          string
	UserAgent    string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	MaxBodyBytes int64
	// MinInterval spaces consecutive requests to the federation site.
	MinInterval    time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client downloads the official schedule page.
type Client struct {
	httpClient   *http.Client
	url          string
	userAgent    string
	maxRetries   int
	retryBackoff time.Duration
	maxBodyBytes int64
	limiter      *rate.Limiter
	logger       *logging.Logger
	breaker      *resilience.CircuitBreaker
}

var _ usecase.PageFetcher = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	pageURL := strings.TrimSpace(cfg.URL)
	if pageURL == "" {
		pageURL = DefaultScheduleURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}

	breaker := resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker)
	if breaker != nil {
		breaker.OnStateChange(func(from, to resilience.CircuitState) {
			logger.Warn("schedule page circuit breaker changed state", "from", from, "to", to)
		})
	}

	return &Client{
		httpClient:   httpClient,
		url:          pageURL,
		userAgent:    userAgent,
		maxRetries:   max(cfg.MaxRetries, 0),
		retryBackoff: backoff,
		maxBodyBytes: maxBody,
		limiter:      rate.NewLimiter(limit, 1),
		logger:       logger,
		breaker:      breaker,
	}
}

// FetchPage downloads the configured schedule page. Every error is marked ErrFetch.
func (c *Client) FetchPage(ctx context.Context) (string, error) {
	return c.FetchURL(ctx, c.url)
}

func (c *Client) FetchURL(ctx context.Context, pageURL string) (string, error) {
	var body []byte
	err := c.breaker.Execute(func() error {
		return resilience.Retry(ctx, c.maxRetries, c.retryBackoff, isTransient, func(ctx context.Context) error {
			raw, reqErr := c.get(ctx, pageURL)
			if reqErr != nil {
				return reqErr
			}
			body = raw
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "schedule page circuit breaker rejected request", "url", pageURL)
			err = fmt.Errorf("%w: schedule page is temporarily unavailable", usecase.ErrDependencyUnavailable)
		} else {
			c.logger.WarnContext(ctx, "schedule page fetch failed", "url", pageURL, "error", err)
		}
		return "", usecase.MarkFetch(err)
	}

	return string(body), nil
}

func (c *Client) get(ctx context.Context, pageURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/html")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: send request: %v", errTransient, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errTransient, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if isRetryableStatus(resp.StatusCode) {
			return nil, fmt.Errorf("%w: status=%d", errTransient, resp.StatusCode)
		}
		return nil, fmt.Errorf("schedule page status=%d", resp.StatusCode)
	}

	return raw, nil
}

func isTransient(err error) bool {
	return errors.Is(err, errTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
