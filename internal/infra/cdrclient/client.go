// Package cdrclient implements the Eionet repository adapters on top of the
// envelope REST API and the Zope management endpoints.
package cdrclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/libertil/eea-cdrtools/internal/domain"
	"github.com/libertil/eea-cdrtools/internal/infra/httpclient"
	"github.com/libertil/eea-cdrtools/internal/ports"
)

var (
	_ ports.EnvelopeFinder  = (*Client)(nil)
	_ ports.EnvelopeViewer  = (*Client)(nil)
	_ ports.EnvelopeManager = (*Client)(nil)
	_ ports.WorkflowDriver  = (*Client)(nil)
	_ ports.FeedbackReader  = (*Client)(nil)
	_ ports.FileTransfer    = (*Client)(nil)
)

const defaultUserAgent = "cdrtools"

// Client talks to one repository instance. Search and Create are bound to
// that instance; operations that take an envelope URL follow the URL's own
// host, so a single client can also act on envelopes elsewhere.
type Client struct {
	repo  domain.Repository
	creds domain.Credentials

	base      string
	secure    bool
	timeout   time.Duration
	rps       float64
	burst     int
	userAgent string

	// api carries the bounded-timeout client for API and management calls;
	// files shares its transport but has no total timeout.
	api   *http.Client
	files *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithCredentials authenticates every request with the given Eionet login.
func WithCredentials(creds domain.Credentials) Option {
	return func(c *Client) { c.creds = creds }
}

// WithSecure forces https even for anonymous access. Enabled by default;
// disabling it only affects anonymous clients, authenticated ones always
// use https.
func WithSecure(secure bool) Option {
	return func(c *Client) { c.secure = secure }
}

// WithTimeout overrides the total timeout for API calls. File transfers are
// not affected.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.timeout = timeout }
}

// WithRateLimit throttles all outgoing requests. A zero rps disables the
// limiter.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		c.rps = rps
		c.burst = burst
	}
}

// WithBaseURL points repository-bound calls at a different root, e.g. a
// test server.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.base = base }
}

// WithHTTPClient supplies the base HTTP client to decorate. Its transport
// gains the auth and rate-limit behavior; its timeout is kept for API calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.api = hc }
}

// New builds a client for the given repository instance.
func New(repo domain.Repository, opts ...Option) *Client {
	c := &Client{
		repo:      repo,
		secure:    true,
		rps:       4,
		burst:     2,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.base == "" {
		c.base = repo.BaseURL(!c.creds.IsZero(), c.secure)
	}

	topts := []httpclient.TransportOption{httpclient.WithUserAgent(c.userAgent)}
	if !c.creds.IsZero() {
		topts = append(topts, httpclient.WithBasicAuth(c.creds.Username, c.creds.Password))
	}
	if c.rps > 0 {
		topts = append(topts, httpclient.WithRateLimit(c.rps, c.burst))
	}

	if c.api == nil {
		cfg := httpclient.DefaultConfig()
		if c.timeout > 0 {
			cfg.Timeout = c.timeout
		}
		c.api = httpclient.New(cfg)
	}
	decorated := httpclient.NewTransport(c.api.Transport, topts...)
	c.api = &http.Client{Transport: decorated, Timeout: c.api.Timeout}
	c.files = &http.Client{Transport: decorated}
	return c
}

// Repository returns the instance this client is bound to.
func (c *Client) Repository() domain.Repository {
	return c.repo
}

// BaseURL returns the root URL used for repository-bound calls.
func (c *Client) BaseURL() string {
	return c.base
}

// getJSON issues a GET expecting a JSON body and decodes it into out.
func (c *Client) getJSON(ctx context.Context, op, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &domain.OpError{Op: op, Kind: domain.KindInvalidConfig, Path: rawURL, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.api.Do(req)
	if err != nil {
		return &domain.OpError{Op: op, Kind: domain.KindRemote, Path: rawURL, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return remoteErr(op, rawURL, res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &domain.OpError{
			Op:   op,
			Kind: domain.KindRemote,
			Path: rawURL,
			Err:  fmt.Errorf("decoding response: %w", err),
		}
	}
	return nil
}

// getOK issues a GET and only checks that the repository did not refuse it.
// Zope workflow endpoints answer with redirects and HTML pages.
func (c *Client) getOK(ctx context.Context, op, rawURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &domain.OpError{Op: op, Kind: domain.KindInvalidConfig, Path: rawURL, Err: err}
	}
	res, err := c.api.Do(req)
	if err != nil {
		return &domain.OpError{Op: op, Kind: domain.KindRemote, Path: rawURL, Err: err}
	}
	defer res.Body.Close()
	io.Copy(io.Discard, res.Body)

	if res.StatusCode >= http.StatusBadRequest {
		return remoteErr(op, rawURL, res.StatusCode)
	}
	return nil
}

// envelopeView fetches a single envelope through the API of the host the
// envelope URL points at, projected to the given fields.
func (c *Client) envelopeView(ctx context.Context, op, envelopeURL, fields string) (domain.Envelope, error) {
	base, err := domain.BaseURLOf(envelopeURL)
	if err != nil {
		return domain.Envelope{}, err
	}
	u := fmt.Sprintf("%s/api/envelopes?url=%s&fields=%s", base, envelopeURL, fields)

	var res envelopesResponse
	if err := c.getJSON(ctx, op, u, &res); err != nil {
		return domain.Envelope{}, err
	}
	if len(res.Envelopes) == 0 {
		return domain.Envelope{}, &domain.OpError{
			Op:   op,
			Kind: domain.KindNotFound,
			Path: envelopeURL,
			Err:  domain.ErrEnvelopeNotFound,
		}
	}
	env := res.Envelopes[0].toDomain()
	if env.URL == "" {
		env.URL = envelopeURL
	}
	return env, nil
}

func remoteErr(op, rawURL string, status int) error {
	kind := domain.KindRemote
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = domain.KindAuth
	case http.StatusNotFound:
		kind = domain.KindNotFound
	}
	return &domain.OpError{
		Op:   op,
		Kind: kind,
		Path: rawURL,
		Err:  fmt.Errorf("http response %d", status),
	}
}
