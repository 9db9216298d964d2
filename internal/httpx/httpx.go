package httpx

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// DefaultUserAgent identifies the pipeline to upstream sites.
const DefaultUserAgent = "Mozilla/5.0 (Academic Research Bot)"

// Limiter gates each attempt. ratelimit.TokenBucket and
// ratelimit.MinInterval satisfy it.
type Limiter interface {
	Wait(ctx context.Context) error
}

// Client is a small wrapper around http.Client with sane defaults and a
// bounded retry loop.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	Headers   map[string]string
	// Attempts is the total number of tries per request, at least 1.
	Attempts int
	// Backoff is multiplied by the attempt number between tries.
	Backoff time.Duration
	// Limiter, when set, is waited on before every attempt, retries included.
	Limiter Limiter
	Log     zerolog.Logger
}

func New(timeout time.Duration, attempts int) *Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		ForceAttemptHTTP2:     true,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   3 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if attempts < 1 {
		attempts = 1
	}
	return &Client{
		HTTP:      &http.Client{Timeout: timeout, Transport: transport},
		UserAgent: DefaultUserAgent,
		Attempts:  attempts,
		Backoff:   500 * time.Millisecond,
		Log:       zerolog.Nop(),
	}
}

// Do sends req, retrying transport errors, 5xx and 429 responses. The last
// response is returned as-is once attempts run out. Requests with a body
// are sent once. Every attempt takes its own Limiter slot.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	for k, v := range c.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}

	attempts := c.Attempts
	if attempts < 1 || (req.Body != nil && req.Body != http.NoBody) {
		attempts = 1
	}

	var (
		res *http.Response
		err error
	)
	for i := 1; i <= attempts; i++ {
		if c.Limiter != nil {
			if werr := c.Limiter.Wait(req.Context()); werr != nil {
				return nil, werr
			}
		}
		res, err = c.HTTP.Do(req)
		if !retryable(res, err) || i == attempts {
			break
		}
		c.Log.Debug().Str("url", req.URL.String()).Int("attempt", i).Err(describe(res, err)).Msg("retrying request")
		if res != nil {
			res.Body.Close()
		}
		wait := time.NewTimer(c.Backoff * time.Duration(i))
		select {
		case <-req.Context().Done():
			wait.Stop()
			return nil, req.Context().Err()
		case <-wait.C:
		}
	}
	return res, err
}

func retryable(res *http.Response, err error) bool {
	if err != nil {
		return true
	}
	return res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= 500
}

func describe(res *http.Response, err error) error {
	if err != nil {
		return err
	}
	return fmt.Errorf("status %d", res.StatusCode)
}
