package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
	json "github.com/goccy/go-json"

	"cpd/internal/models"
	"cpd/internal/providers"
	"cpd/internal/structures"
)

var ErrUnsupportedPlatform = errors.New("no stats endpoint for platform")

type StatsFetcherInterface interface {
	Supports(platform models.Platform) bool
	// Fetch returns a *models.FetchError on failure.
	Fetch(ctx context.Context, platform models.Platform, username string) (*models.PlatformStats, error)
}

type StatsFetcher struct {
	client    *resty.Client
	endpoints map[models.Platform]string
	cache     providers.CacheProviderInterface
	metrics   providers.MetricsProviderInterface
	logger    providers.Logger
}

type statsRequest struct {
	Username string `json:"username"`
}

// errorResponse is the collaborator's error body. FastAPI puts a string in
// detail for handled errors and a list for request validation failures.
type errorResponse struct {
	Detail any `json:"detail"`
}

func NewStatsFetcher(conf *structures.Config, logger providers.Logger, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface) StatsFetcherInterface {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(conf.Collaborator.BaseURL, "/"))
	client.SetTimeout(conf.Collaborator.Timeout)
	client.SetHeader("Accept", "application/json")
	if conf.Collaborator.UserAgent != "" {
		client.SetHeader("User-Agent", conf.Collaborator.UserAgent)
	}
	client.SetLogger(restyLogger{logger: logger})
	client.JSONMarshal = json.Marshal
	client.JSONUnmarshal = json.Unmarshal

	client.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		logger.Debugf(providers.TypeFetch, "HTTP request %s %s", req.Method, req.URL)
		return nil
	})
	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logger.Debugf(providers.TypeFetch, "HTTP response %d %s in %s", resp.StatusCode(), resp.Request.URL, resp.Time())
		return nil
	})

	endpoints := make(map[models.Platform]string, len(conf.Collaborator.Endpoints))
	for name, path := range conf.Collaborator.Endpoints {
		platform, ok := models.ParsePlatform(name)
		if !ok || path == "" {
			logger.Warnf(providers.TypeApp, "Ignoring stats endpoint for unknown platform %q", name)
			continue
		}
		endpoints[platform] = path
	}

	return &StatsFetcher{
		client:    client,
		endpoints: endpoints,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
	}
}

// restyLogger sends resty's own messages to the fetch log. Failures are
// already reported by Fetch, so resty errors are kept at debug level.
type restyLogger struct {
	logger providers.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Debugf(providers.TypeFetch, format, v...)
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warnf(providers.TypeFetch, format, v...)
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debugf(providers.TypeFetch, format, v...)
}

func (sf *StatsFetcher) Supports(platform models.Platform) bool {
	_, ok := sf.endpoints[platform]
	return ok
}

type bypassCacheKey struct{}

// BypassCache marks ctx so that Fetch goes to the network even when a cached
// response exists. The fresh response is still cached.
func BypassCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassCacheKey{}, true)
}

func cacheBypassed(ctx context.Context) bool {
	v, _ := ctx.Value(bypassCacheKey{}).(bool)
	return v
}

func cacheKey(platform models.Platform, username string) string {
	return "stats:" + string(platform) + ":" + username
}

func (sf *StatsFetcher) Fetch(ctx context.Context, platform models.Platform, username string) (*models.PlatformStats, error) {
	path, ok := sf.endpoints[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, platform)
	}

	key := cacheKey(platform, username)
	if !cacheBypassed(ctx) {
		if data, ok := sf.cache.Get(key); ok {
			var stats models.PlatformStats
			if err := json.Unmarshal(data, &stats); err == nil {
				sf.metrics.IncFetchTotal(string(platform), "cached")
				return &stats, nil
			}
		}
	}

	sf.metrics.IncFetchInFlight()
	defer sf.metrics.DecFetchInFlight()

	start := time.Now()
	resp, err := sf.client.R().
		SetContext(ctx).
		SetBody(statsRequest{Username: username}).
		Post(path)
	sf.metrics.ObserveFetchDuration(string(platform), time.Since(start))

	if err != nil {
		fe := classifyTransportError(err)
		sf.fail(platform, username, fe)
		return nil, fe
	}

	if resp.IsError() {
		fe := classifyErrorResponse(resp.StatusCode(), resp.Body())
		sf.fail(platform, username, fe)
		return nil, fe
	}

	var stats models.PlatformStats
	if err := json.Unmarshal(resp.Body(), &stats); err != nil || !stats.Valid() {
		if err == nil {
			err = errors.New("stats contain negative counts")
		}
		fe := models.NewFetchError(models.ErrUnknown, fmt.Errorf("decode %s stats: %w", platform, err))
		sf.fail(platform, username, fe)
		return nil, fe
	}

	sf.cache.Set(key, resp.Body())
	sf.metrics.IncFetchTotal(string(platform), "success")
	sf.logger.Infof(providers.TypeFetch, "Fetched %s stats for %s: %d solved", platform, username, stats.TotalSolved)
	return &stats, nil
}

func (sf *StatsFetcher) fail(platform models.Platform, username string, fe *models.FetchError) {
	sf.metrics.IncFetchTotal(string(platform), string(fe.Kind))
	if fe.Cause != nil {
		sf.logger.Warnf(providers.TypeFetch, "Fetching %s stats for %s failed (%s): %s", platform, username, fe.Kind, fe.Cause)
		return
	}
	sf.logger.Warnf(providers.TypeFetch, "Fetching %s stats for %s failed (%s): %s", platform, username, fe.Kind, fe.Message)
}

// classifyErrorResponse handles a response with a 4xx/5xx status. A detail
// string from the collaborator always wins.
func classifyErrorResponse(status int, body []byte) *models.FetchError {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil {
		if detail, ok := er.Detail.(string); ok && strings.TrimSpace(detail) != "" {
			return models.NewRemoteError(detail)
		}
	}

	cause := fmt.Errorf("collaborator responded %d", status)
	switch status {
	case http.StatusNotFound:
		return models.NewFetchError(models.ErrNotFound, cause)
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return models.NewFetchError(models.ErrTimeout, cause)
	default:
		return models.NewFetchError(models.ErrUnknown, cause)
	}
}

// classifyTransportError maps a failure that produced no response. Order
// matters: timeout, then generic network trouble, then an active refusal.
func classifyTransportError(err error) *models.FetchError {
	switch {
	case isTimeout(err):
		return models.NewFetchError(models.ErrTimeout, err)
	case isNetworkFailure(err):
		return models.NewFetchError(models.ErrNetwork, err)
	case isConnectionRefused(err):
		return models.NewFetchError(models.ErrBackendUnavailable, err)
	default:
		return models.NewFetchError(models.ErrUnknown, err)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isConnectionRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED)
}

// isNetworkFailure covers DNS failures, resets and dropped connections. A
// refused connection is reported separately as a missing backend.
func isNetworkFailure(err error) bool {
	if isConnectionRefused(err) {
		return false
	}
	var dnsErr *net.DNSError
	var opErr *net.OpError
	return errors.As(err, &dnsErr) ||
		errors.As(err, &opErr) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}
