package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// Repository identifies one of the Eionet reporting repository instances.
type Repository string

const (
	RepoCDR        Repository = "CDR"
	RepoBDR        Repository = "BDR"
	RepoCDRTest    Repository = "CDRTEST"
	RepoCDRSandbox Repository = "CDRSANDBOX"
)

var repositoryHosts = map[Repository]string{
	RepoCDR:        "cdr.eionet.europa.eu",
	RepoBDR:        "bdr.eionet.europa.eu",
	RepoCDRTest:    "cdrtest.eionet.europa.eu",
	RepoCDRSandbox: "cdrsandbox.eionet.europa.eu",
}

// ParseRepository accepts a repository name in any case ("cdr", "CDRTEST").
func ParseRepository(s string) (Repository, error) {
	r := Repository(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := repositoryHosts[r]; !ok {
		return "", &OpError{
			Op:   "repository.parse",
			Kind: KindInvalidConfig,
			Err:  fmt.Errorf("%w: %q", ErrUnknownRepository, s),
		}
	}
	return r, nil
}

// Repositories returns the known instances in a stable order.
func Repositories() []Repository {
	return []Repository{RepoCDR, RepoBDR, RepoCDRTest, RepoCDRSandbox}
}

// Host returns the repository hostname, or "" for an unknown value.
func (r Repository) Host() string {
	return repositoryHosts[r]
}

func (r Repository) String() string {
	return string(r)
}

// BaseURL builds the root URL for API and management calls against r.
// Authenticated sessions always go over https so credentials never travel
// on a plaintext connection; anonymous callers get http only when secure
// is explicitly disabled.
func (r Repository) BaseURL(authenticated, secure bool) string {
	scheme := "http"
	if secure || authenticated {
		scheme = "https"
	}
	return scheme + "://" + r.Host()
}

// RepositoryFromURL matches a URL's host against the known instances.
func RepositoryFromURL(rawURL string) (Repository, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	for repo, h := range repositoryHosts {
		if host == h {
			return repo, true
		}
	}
	return "", false
}

// BaseURLOf reduces an envelope (or any repository) URL to scheme://host,
// preserving the scheme the caller used.
func BaseURLOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", &OpError{
			Op:   "repository.baseurl",
			Kind: KindInvalidConfig,
			Path: rawURL,
			Err:  fmt.Errorf("not an absolute URL"),
		}
	}
	return u.Scheme + "://" + u.Host, nil
}
