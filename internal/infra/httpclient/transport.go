package httpclient

import (
	"net/http"

	"golang.org/x/time/rate"
)

// transport decorates a base RoundTripper with the request behavior all CDR
// calls share: a politeness rate limit, basic auth, and a stable User-Agent.
type transport struct {
	base      http.RoundTripper
	limiter   *rate.Limiter
	username  string
	password  string
	hasAuth   bool
	userAgent string
}

// TransportOption configures NewTransport.
type TransportOption func(*transport)

// WithBasicAuth sends the credentials on every request that does not already
// carry an Authorization header.
func WithBasicAuth(username, password string) TransportOption {
	return func(t *transport) {
		t.username = username
		t.password = password
		t.hasAuth = true
	}
}

// WithRateLimit throttles outgoing requests to rps with the given burst.
// Waits honor the request context.
func WithRateLimit(rps float64, burst int) TransportOption {
	return func(t *transport) {
		if rps > 0 {
			if burst < 1 {
				burst = 1
			}
			t.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithUserAgent sets the User-Agent when the request has none.
func WithUserAgent(ua string) TransportOption {
	return func(t *transport) { t.userAgent = ua }
}

// NewTransport wraps base (http.DefaultTransport when nil) with the
// configured decorations.
func NewTransport(base http.RoundTripper, opts ...TransportOption) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	t := &transport{base: base}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	// RoundTrippers must not mutate the caller's request.
	r := req.Clone(req.Context())
	if t.hasAuth && r.Header.Get("Authorization") == "" {
		r.SetBasicAuth(t.username, t.password)
	}
	if t.userAgent != "" && r.Header.Get("User-Agent") == "" {
		r.Header.Set("User-Agent", t.userAgent)
	}
	return t.base.RoundTrip(r)
}
