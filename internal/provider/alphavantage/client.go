package alphavantage

import (
	"errors"
	"net/http"
	"net/url"
)

// baseURL is the query endpoint of the Alpha Vantage API.
const baseURL = "https://www.alphavantage.co/query"

// ErrMissingAPIKey is returned when the client is built without a key.
var ErrMissingAPIKey = errors.New("alphavantage: missing api key")

// HTTPClient sends the query requests. An httpx.Client with a rate limiter
// is the usual choice; the free tier allows five calls a minute.
//
//go:generate mockgen -package=alphavantage_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// APIClient issues Alpha Vantage technical-indicator queries. Every call
// goes to the single query endpoint with the function named in the query
// string and the API key appended.
type APIClient struct {
	baseURL    string
	httpClient HTTPClient
	header     http.Header
	// query is merged into every request; it carries apikey.
	query url.Values
}

// APIClientOption customizes an APIClient.
type APIClientOption func(*APIClient)

// WithBaseURL points the client at another query endpoint, e.g. a test server.
func WithBaseURL(baseURL string) APIClientOption {
	return func(c *APIClient) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient replaces http.DefaultClient, typically with a rate-limited one.
func WithHTTPClient(httpClient HTTPClient) APIClientOption {
	return func(c *APIClient) {
		c.httpClient = httpClient
	}
}

// WithHeader adds headers such as User-Agent to every query.
func WithHeader(header http.Header) APIClientOption {
	return func(c *APIClient) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// NewAPIClient builds a client for key. An empty key yields ErrMissingAPIKey,
// which callers treat as "indicators disabled".
func NewAPIClient(key string, options ...APIClientOption) (*APIClient, error) {
	if key == "" {
		return nil, ErrMissingAPIKey
	}
	client := &APIClient{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
		query:      url.Values{},
	}
	client.query.Set("apikey", key)
	for _, option := range options {
		option(client)
	}
	return client, nil
}
