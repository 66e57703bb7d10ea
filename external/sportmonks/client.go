package sportmonks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/cespare/xxhash/v2"
	"github.com/riskibarqy/fixture-sync/internal/domain/errorlog"
	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
	"github.com/riskibarqy/fixture-sync/internal/platform/resilience"
	"github.com/valyala/bytebufferpool"
)

const (
	defaultBaseURL  = "https://api.sportmonks.com/v3/football"
	defaultTimeout  = 30 * time.Second
	defaultCacheTTL = 300 * time.Second

	// CacheKeyPrefix namespaces every cached provider response.
	CacheKeyPrefix = "sportmonks:api:"

	maxResponseBytes = 16 << 20
)

var apiTokenParamRegex = regexp.MustCompile(`api_token=[^&\s"']+`)

// ResponseCache stores parsed provider responses. *cache.Store satisfies it.
type ResponseCache interface {
	Get(ctx context.Context, key string) (any, bool)
	SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration)
	Delete(ctx context.Context, key string)
	DeletePrefix(ctx context.Context, prefix string) int
}

// ErrorReporter receives one structured entry per failed request.
type ErrorReporter interface {
	Report(ctx context.Context, entry errorlog.Entry)
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	CacheTTL       time.Duration
	Cache          ResponseCache
	Reporter       ErrorReporter
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	Now            func() time.Time
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	cacheTTL   time.Duration
	cache      ResponseCache
	reporter   ErrorReporter
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	flight     resilience.Flight[Response]
	now        func() time.Time
}

// Response is a decoded provider envelope.
type Response struct {
	Data       json.RawMessage
	Pagination *Pagination
	Raw        []byte
}

// HasData reports whether the envelope carried a non-null data member.
func (r Response) HasData() bool {
	trimmed := bytes.TrimSpace(r.Data)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

func (r Response) DecodeData(target any) error {
	if !r.HasData() {
		return fmt.Errorf("response has no data")
	}
	if err := sonic.Unmarshal(r.Data, target); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

type envelope struct {
	Data       json.RawMessage `json:"data"`
	Pagination *Pagination     `json:"pagination"`
	Error      json.RawMessage `json:"error"`
}

type remoteError struct {
	Message string `json:"message"`
	Code    any    `json:"code"`
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = timeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	breakerCfg := cfg.CircuitBreaker
	if breakerCfg.Name == "" {
		breakerCfg.Name = "sportmonks"
	}
	if breakerCfg.IsFailure == nil {
		breakerCfg.IsFailure = isCircuitFailure
	}
	if breakerCfg.Logger == nil {
		breakerCfg.Logger = logger
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      strings.TrimSpace(cfg.Token),
		cacheTTL:   cacheTTL,
		cache:      cfg.Cache,
		reporter:   cfg.Reporter,
		logger:     logger,
		breaker:    breakerCfg.Build(),
		now:        now,
	}
}

// Request performs one GET against the provider. Successful responses are
// cached under the canonical key when useCache is set; failures never are.
func (c *Client) Request(ctx context.Context, endpoint string, params map[string]string, include []string, useCache bool) (Response, error) {
	endpoint = normalizeEndpoint(endpoint)
	if c.token == "" {
		apiErr := newAPIError(KindNoToken, endpoint, 0, "API token is not configured", nil)
		c.report(ctx, apiErr, map[string]any{"endpoint": endpoint}, nil)
		return Response{}, apiErr
	}

	values := c.buildQuery(params, include)
	key := CacheKey(endpoint, values)
	if useCache && c.cache != nil {
		if cached, ok := c.cache.Get(ctx, key); ok {
			if resp, ok := cached.(Response); ok {
				return resp, nil
			}
		}
	}

	fullURL := c.baseURL + "/" + endpoint + "?" + values.Encode()
	resp, _, err := c.flight.Do(key, func() (Response, error) {
		var out Response
		guardErr := c.breaker.Guard(func() error {
			var reqErr error
			out, reqErr = c.execute(ctx, endpoint, fullURL, params)
			return reqErr
		})
		return out, guardErr
	})
	if err != nil {
		if _, ok := AsAPIError(err); ok {
			return Response{}, err
		}
		apiErr := newAPIError(KindTransport, endpoint, 0, "sport data provider is temporarily unavailable", err)
		c.report(ctx, apiErr, map[string]any{
			"endpoint":             endpoint,
			"circuit_state":        c.breaker.State(),
			"consecutive_failures": c.breaker.ConsecutiveFailures(),
		}, nil)
		return Response{}, apiErr
	}
	if useCache && c.cache != nil {
		c.cache.SetWithTTL(ctx, key, resp, c.cacheTTL)
	}
	return resp, nil
}

func (c *Client) execute(ctx context.Context, endpoint, fullURL string, params map[string]string) (Response, error) {
	logContext := map[string]any{"endpoint": endpoint, "url": redactAPIURL(fullURL)}
	details := map[string]any{"url": redactAPIURL(fullURL), "params": redactParams(params)}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		apiErr := newAPIError(KindTransport, endpoint, 0, "build request: "+sanitizeSensitiveText(err.Error(), c.token), err)
		c.report(ctx, apiErr, logContext, details)
		return Response{}, apiErr
	}
	req.Header.Set("Accept", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		apiErr := newAPIError(KindTransport, endpoint, 0, "send request: "+sanitizeSensitiveText(err.Error(), c.token), err)
		c.report(ctx, apiErr, logContext, details)
		return Response{}, apiErr
	}
	raw, readErr := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	_ = httpResp.Body.Close()
	if readErr != nil {
		apiErr := newAPIError(KindTransport, endpoint, 0, "read response body: "+readErr.Error(), readErr)
		c.report(ctx, apiErr, logContext, details)
		return Response{}, apiErr
	}

	if httpResp.StatusCode != http.StatusOK {
		message := fmt.Sprintf("API request failed with status code %d", httpResp.StatusCode)
		apiErr := newAPIError(KindHTTPStatus, endpoint, httpResp.StatusCode, message, nil)
		details["response"] = abbreviateBody(raw)
		c.report(ctx, apiErr, logContext, details)
		return Response{}, apiErr
	}

	var env envelope
	if err := sonic.Unmarshal(raw, &env); err != nil {
		apiErr := newAPIError(KindDecode, endpoint, 0, "Failed to decode JSON response: "+err.Error(), err)
		c.report(ctx, apiErr, map[string]any{"endpoint": endpoint}, map[string]any{"response": abbreviateBody(raw)})
		return Response{}, apiErr
	}

	if hasMember(env.Error) {
		apiErr := newAPIError(KindRemote, endpoint, 0, "Unknown API error", nil)
		var remote remoteError
		if err := sonic.Unmarshal(env.Error, &remote); err == nil {
			if strings.TrimSpace(remote.Message) != "" {
				apiErr.Message = strings.TrimSpace(remote.Message)
			}
			apiErr.RemoteCode = remoteCodeString(remote.Code)
		} else {
			var text string
			if sonic.Unmarshal(env.Error, &text) == nil && strings.TrimSpace(text) != "" {
				apiErr.Message = strings.TrimSpace(text)
			}
		}
		c.report(ctx, apiErr, map[string]any{"endpoint": endpoint}, map[string]any{"response": abbreviateBody(raw)})
		return Response{}, apiErr
	}

	return Response{
		Data:       env.Data,
		Pagination: env.Pagination,
		Raw:        raw,
	}, nil
}

// ClearCache drops the cached response for one endpoint/params/include tuple.
func (c *Client) ClearCache(ctx context.Context, endpoint string, params map[string]string, include []string) {
	if c.cache == nil {
		return
	}
	endpoint = normalizeEndpoint(endpoint)
	c.cache.Delete(ctx, CacheKey(endpoint, c.buildQuery(params, include)))
}

// ClearAllCache drops every cached provider response and returns the count.
func (c *Client) ClearAllCache(ctx context.Context) int {
	if c.cache == nil {
		return 0
	}
	return c.cache.DeletePrefix(ctx, CacheKeyPrefix)
}

func (c *Client) buildQuery(params map[string]string, include []string) url.Values {
	values := url.Values{}
	for key, value := range params {
		values.Set(key, value)
	}
	values.Set("api_token", c.token)
	if joined := joinInclude(include); joined != "" {
		values.Set("include", joined)
	}
	return values
}

func (c *Client) report(ctx context.Context, apiErr *APIError, logContext, details map[string]any) {
	c.logger.WarnContext(ctx, "sportmonks request failed",
		"kind", string(apiErr.Kind),
		"endpoint", apiErr.Endpoint,
		"status_code", apiErr.StatusCode,
		"error", apiErr.Message,
	)
	if c.reporter == nil {
		return
	}
	c.reporter.Report(ctx, errorlog.Entry{
		Timestamp:      c.now().UTC(),
		Type:           errorlog.TypeAPIError,
		Message:        apiErr.Message,
		Code:           apiErr.LogCode(),
		Context:        logContext,
		RequestDetails: details,
	})
}

// CacheKey derives the canonical cache key. url.Values.Encode sorts by key,
// so parameter insertion order never changes the result.
func CacheKey(endpoint string, values url.Values) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(normalizeEndpoint(endpoint))
	_ = buf.WriteByte('?')
	_, _ = buf.WriteString(values.Encode())
	return CacheKeyPrefix + strconv.FormatUint(xxhash.Sum64(buf.B), 16)
}

func normalizeEndpoint(endpoint string) string {
	return strings.TrimLeft(strings.TrimSpace(endpoint), "/")
}

func joinInclude(include []string) string {
	parts := make([]string, 0, len(include))
	for _, item := range include {
		item = strings.TrimSpace(item)
		if item != "" {
			parts = append(parts, item)
		}
	}
	return strings.Join(parts, ";")
}

func hasMember(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

func remoteCodeString(value any) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		return strconv.FormatInt(int64(typed), 10)
	case nil:
		return ""
	default:
		return fmt.Sprint(typed)
	}
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return apiTokenParamRegex.ReplaceAllString(value, "api_token=REDACTED")
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return apiTokenParamRegex.ReplaceAllString(rawURL, "api_token=REDACTED")
	}
	query := parsed.Query()
	if query.Has("api_token") {
		query.Set("api_token", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func redactParams(params map[string]string) map[string]any {
	out := make(map[string]any, len(params))
	for key, value := range params {
		if key == "api_token" {
			value = "REDACTED"
		}
		out[key] = value
	}
	return out
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
