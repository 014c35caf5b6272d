package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"portfolio-viewer/src/helpers"
	"portfolio-viewer/src/logger"
	"portfolio-viewer/src/models"

	"github.com/cenkalti/backoff/v4"
)

const defaultUserAgent = "portfolio-viewer/1.0"

type AsyncNetworkManager struct {
	Config *models.MConfig
	Client *http.Client
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewAsyncNetworkManager(cfg *models.MConfig, log *logger.Logger) *AsyncNetworkManager {
	nm := &AsyncNetworkManager{
		Config: cfg,
		Logger: log,
	}
	nm.Client = nm.createClient()
	return nm
}

// -----------------------------------------------------------------------------

func (nm *AsyncNetworkManager) createClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if nm.Config.Network.Proxy != "" {
		proxyURL, err := url.Parse(nm.Config.Network.Proxy)
		if err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		} else {
			nm.Logger.Warning("Ignoring invalid proxy %q: %v", nm.Config.Network.Proxy, err)
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   time.Duration(nm.Config.Network.RequestTimeout) * time.Second,
	}
}

// -----------------------------------------------------------------------------

func (nm *AsyncNetworkManager) newBackOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = time.Duration(nm.Config.Network.RetryBaseMs) * time.Millisecond
	exp.MaxElapsedTime = 0 // bounded by retries instead
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(nm.Config.Network.MaxRetries)), ctx)
}

// -----------------------------------------------------------------------------

// Get performs a GET request with retries.
// 429, 5xx and transport errors are retried; any other non-2xx is final.
func (nm *AsyncNetworkManager) Get(ctx context.Context, urlStr string, headers map[string]string) ([]byte, error) {
	if _, err := url.Parse(urlStr); err != nil {
		return nil, helpers.NewFetchError(0, "invalid url", err)
	}

	userAgent := nm.Config.Network.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	var body []byte
	attempt := 0

	operation := func() error {
		attempt++

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
		if err != nil {
			return backoff.Permanent(helpers.NewFetchError(0, "failed to build request", err))
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := nm.Client.Do(req)
		if err != nil {
			nm.Logger.Info("Request failed (attempt %d/%d): %v", attempt, nm.Config.Network.MaxRetries+1, err)
			return helpers.NewFetchError(0, "request failed", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			// Drain so the connection can be reused
			_, _ = io.Copy(io.Discard, resp.Body)
			fetchErr := helpers.NewFetchError(resp.StatusCode, fmt.Sprintf("bad status: %d", resp.StatusCode), nil)
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				nm.Logger.Info("Bad status %d (attempt %d/%d)", resp.StatusCode, attempt, nm.Config.Network.MaxRetries+1)
				return fetchErr
			}
			return backoff.Permanent(fetchErr)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return helpers.NewFetchError(resp.StatusCode, "failed to read body", err)
		}
		body = data
		return nil
	}

	if err := backoff.Retry(operation, nm.newBackOff(ctx)); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && helpers.StatusCode(err) == 0 {
			return nil, helpers.NewFetchError(0, "request aborted", ctxErr)
		}
		return nil, err
	}

	return body, nil
}
