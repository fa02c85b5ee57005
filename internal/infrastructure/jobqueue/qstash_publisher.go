package jobqueue

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/petanque-league/internal/platform/logging"
	"github.com/riskibarqy/petanque-league/internal/platform/resilience"
	"github.com/riskibarqy/petanque-league/internal/usecase"
)

var errQStashTransient = crerr.New("qstash transient failure")

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// InternalJobTokenHeader carries the shared secret on queued job callbacks.
const InternalJobTokenHeader = "X-Internal-Job-Token"

type QStashPublisherConfig struct {
	BaseURL          string
	Token            string
	TargetBaseURL    string
	Retries          int
	InternalJobToken string
	Timeout          time.Duration
	CircuitBreaker   resilience.CircuitBreakerConfig
}

// QStashPublisher publishes delayed HTTP jobs that call back into this API.
type QStashPublisher struct {
	client           *http.Client
	baseURL          string
	token            string
	targetBaseURL    string
	retries          int
	internalJobToken string
	logger           *logging.Logger
	breaker          *resilience.CircuitBreaker
}

var _ usecase.JobQueue = (*QStashPublisher)(nil)

func NewQStashPublisher(cfg QStashPublisherConfig, logger *logging.Logger) *QStashPublisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}

	breaker := resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker)
	if breaker != nil {
		breaker.OnStateChange(func(from, to resilience.CircuitState) {
			logger.Warn("qstash circuit breaker state changed", "from", string(from), "to", string(to))
		})
	}

	return &QStashPublisher{
		client:           &http.Client{Timeout: timeout},
		baseURL:          strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:            strings.TrimSpace(cfg.Token),
		targetBaseURL:    strings.TrimRight(strings.TrimSpace(cfg.TargetBaseURL), "/"),
		retries:          cfg.Retries,
		internalJobToken: strings.TrimSpace(cfg.InternalJobToken),
		logger:           logger,
		breaker:          breaker,
	}
}

type publishRequest struct {
	publishURL      string
	targetURL       string
	path            string
	delay           string
	deduplicationID string
	body            []byte
}

func (p *QStashPublisher) Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error {
	req, err := p.buildRequest(path, payload, delay, deduplicationID)
	if err != nil {
		return err
	}

	bodyText := truncateForLog(string(req.body), 4096)
	curlPreview := p.curlPreview(req, bodyText)
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("qstash.target_url", req.targetURL),
			attribute.String("qstash.path", req.path),
			attribute.String("qstash.deduplication_id", req.deduplicationID),
			attribute.String("qstash.request_body", bodyText),
		)
	}
	p.logger.DebugContext(ctx, "qstash publish request", "path", req.path, "target_url", req.targetURL, "curl_preview", curlPreview)

	var rejected error
	err = p.breaker.Execute(func() error {
		sendErr := p.send(ctx, req)
		if sendErr != nil && !crerr.Is(sendErr, errQStashTransient) {
			// 4xx answers mean a bad request, not an unhealthy queue.
			rejected = sendErr
			return nil
		}
		return sendErr
	})
	if crerr.Is(err, resilience.ErrCircuitOpen) {
		p.logger.WarnContext(ctx, "qstash circuit breaker rejected request", "path", req.path)
		return fmt.Errorf("qstash is temporarily unavailable: %w", err)
	}
	if err != nil {
		return err
	}
	if rejected != nil {
		return rejected
	}

	p.logger.InfoContext(ctx, "qstash job published",
		"path", req.path,
		"delay", req.delay,
		"deduplication_id", req.deduplicationID,
	)
	return nil
}

func (p *QStashPublisher) buildRequest(path string, payload any, delay time.Duration, deduplicationID string) (publishRequest, error) {
	path = "/" + strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "/" {
		return publishRequest{}, crerr.New("job path is required")
	}

	baseURL, err := validateHTTPBaseURL(p.baseURL)
	if err != nil {
		return publishRequest{}, crerr.Wrap(err, "invalid QSTASH_BASE_URL")
	}
	targetBaseURL, err := validateHTTPBaseURL(p.targetBaseURL)
	if err != nil {
		return publishRequest{}, crerr.Wrap(err, "invalid QSTASH_TARGET_BASE_URL")
	}

	if payload == nil {
		payload = map[string]any{}
	}
	body, err := jsonAPI.Marshal(payload)
	if err != nil {
		return publishRequest{}, crerr.Wrap(err, "marshal job payload")
	}

	targetURL := targetBaseURL + path
	return publishRequest{
		publishURL:      baseURL + "/v2/publish/" + targetURL,
		targetURL:       targetURL,
		path:            path,
		delay:           normalizeDelay(delay),
		deduplicationID: strings.TrimSpace(deduplicationID),
		body:            body,
	}, nil
}

func (p *QStashPublisher) send(ctx context.Context, pr publishRequest) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pr.publishURL, bytes.NewReader(pr.body))
	if err != nil {
		return crerr.Wrap(err, "create qstash request")
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Upstash-Method", http.MethodPost)
	if p.retries > 0 {
		req.Header.Set("Upstash-Retries", strconv.Itoa(p.retries))
	}
	if pr.delay != "0s" {
		req.Header.Set("Upstash-Delay", pr.delay)
	}
	if pr.deduplicationID != "" {
		req.Header.Set("Upstash-Deduplication-Id", pr.deduplicationID)
	}
	if p.internalJobToken != "" {
		req.Header.Set("Upstash-Forward-"+InternalJobTokenHeader, p.internalJobToken)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: publish qstash job target_url=%s: %w", errQStashTransient, pr.targetURL, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 == 2 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	callErr := fmt.Errorf("publish qstash job status=%d target_url=%s body=%s",
		resp.StatusCode, pr.targetURL, strings.TrimSpace(string(raw)))
	if isQStashRetryableStatus(resp.StatusCode) {
		return fmt.Errorf("%w: %w", errQStashTransient, callErr)
	}
	return callErr
}

func (p *QStashPublisher) curlPreview(pr publishRequest, body string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}
	appendHeader := func(value string) {
		appendPart("-H")
		appendPart(shellQuote(value))
	}

	appendPart("curl -X POST")
	appendPart(shellQuote(pr.publishURL))
	appendHeader("Authorization: Bearer ***")
	appendHeader("Content-Type: application/json")
	appendHeader("Upstash-Method: POST")
	if p.retries > 0 {
		appendHeader("Upstash-Retries: " + strconv.Itoa(p.retries))
	}
	if pr.delay != "0s" {
		appendHeader("Upstash-Delay: " + pr.delay)
	}
	if pr.deduplicationID != "" {
		appendHeader("Upstash-Deduplication-Id: " + pr.deduplicationID)
	}
	if p.internalJobToken != "" {
		appendHeader("Upstash-Forward-" + InternalJobTokenHeader + ": ***")
	}
	appendPart("-d")
	appendPart(shellQuote(body))

	return buf.String()
}

func normalizeDelay(delay time.Duration) string {
	seconds := int(delay.Round(time.Second).Seconds())
	if seconds <= 0 {
		return "0s"
	}
	return strconv.Itoa(seconds) + "s"
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'"'"'`) + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}

func isQStashRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
