package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/galx/internal/shared"
	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// pageSize is the per_page value used for every paginated listing.
const pageSize = 100

var utf8BOM = []byte("\xef\xbb\xbf")

// Client is the authenticated, rate limited REST client shared by [CatalogService] and [MediaService].
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewClient builds a [Client] for the catalog at cfg.BaseURL.
//
// A configured bearer token is attached through an [oauth2.StaticTokenSource] transport;
// otherwise requests carry HTTP Basic credentials from the consumer key pair.
func NewClient(cfg shared.CatalogConfig, creds shared.CredentialsConfig, logger *log.Logger) *Client {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	var rc *resty.Client
	if creds.Token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.Token, TokenType: "Bearer"})
		rc = resty.NewWithClient(oauth2.NewClient(context.Background(), src))
	} else {
		rc = resty.New().SetBasicAuth(creds.ConsumerKey, creds.ConsumerSecret)
	}

	rc.SetBaseURL(cfg.BaseURL).
		SetHeader("Accept", "application/json").
		SetLogger(logger)
	if cfg.Timeout.Duration > 0 {
		rc.SetTimeout(cfg.Timeout.Duration)
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &Client{
		http:    rc,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// Response is a raw catalog response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Get performs a paced GET against path relative to the base URL.
func (c *Client) Get(ctx context.Context, path string, params map[string]string) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, params, nil)
}

// Put performs a paced PUT with body encoded as JSON.
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.do(ctx, http.MethodPut, path, nil, body)
}

func (c *Client) do(ctx context.Context, method, path string, params map[string]string, body any) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", shared.ErrTransport, method, path, err)
	}

	req := c.http.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	c.logger.Debug("catalog request", "method", method, "path", path, "params", params)

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", shared.ErrTransport, method, path, err)
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Headers:    resp.Header(),
		Body:       resp.Body(),
	}, nil
}

// decodeJSON strips a leading UTF-8 byte order mark and unmarshals body into v.
func decodeJSON(body []byte, v any) error {
	body = bytes.TrimPrefix(body, utf8BOM)
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrDecode, err)
	}
	return nil
}
