package cdrclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/libertil/eea-cdrtools/internal/domain"
)

// Create adds an envelope under the obligation's collection for the given
// country and returns it. The repository answers 201 with the new envelope
// on success.
func (c *Client) Create(ctx context.Context, countryCode string, ob domain.Obligation, meta domain.EnvelopeMeta) (domain.Envelope, error) {
	const op = "cdrclient.create"

	country := strings.ToLower(strings.TrimSpace(countryCode))
	if country == "" {
		return domain.Envelope{}, &domain.OpError{
			Op:   op,
			Kind: domain.KindInvalidConfig,
			Err:  errors.New("empty country code"),
		}
	}
	endpoint := fmt.Sprintf("%s/%s/%s/manage_addEnvelope", c.base, country, ob.Folder)

	form := url.Values{}
	form.Set("title", meta.Title)
	form.Set("descr", meta.Description)
	form.Set("year", yearValue(meta.Year))
	form.Set("endyear", yearValue(meta.EndYear))
	form.Set("partofyear", meta.PartOfYear)
	form.Set("locality", meta.Locality)

	res, err := c.postForm(ctx, op, endpoint, form)
	if err != nil {
		return domain.Envelope{}, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusCreated {
		io.Copy(io.Discard, res.Body)
		return domain.Envelope{}, remoteErr(op, endpoint, res.StatusCode)
	}

	var out envelopesResponse
	if err := decodeBody(op, endpoint, res.Body, &out); err != nil {
		return domain.Envelope{}, err
	}
	if len(out.Errors) > 0 {
		return domain.Envelope{}, &domain.OpError{
			Op:   op,
			Kind: domain.KindRemote,
			Path: endpoint,
			Err:  fmt.Errorf("repository refused envelope: %s", joinErrors(out.Errors)),
		}
	}
	if len(out.Envelopes) == 0 {
		return domain.Envelope{}, &domain.OpError{
			Op:   op,
			Kind: domain.KindRemote,
			Path: endpoint,
			Err:  errors.New("no envelope in response"),
		}
	}
	return out.Envelopes[0].toDomain(), nil
}

// Delete removes the envelope by posting a Zope delete against its parent
// collection.
func (c *Client) Delete(ctx context.Context, envelopeURL string) error {
	const op = "cdrclient.delete"

	parent := domain.ParentCollectionURL(envelopeURL)
	id := domain.EnvelopeID(envelopeURL)
	if parent == envelopeURL || id == "" {
		return &domain.OpError{
			Op:   op,
			Kind: domain.KindInvalidConfig,
			Path: envelopeURL,
			Err:  errors.New("not an envelope URL"),
		}
	}

	form := url.Values{}
	form.Set("ids:list", id)
	form.Set("manage_delObjects:method", "Delete")

	res, err := c.postForm(ctx, op, parent, form)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	io.Copy(io.Discard, res.Body)

	if res.StatusCode != http.StatusOK {
		return remoteErr(op, envelopeURL, res.StatusCode)
	}
	return nil
}

func (c *Client) postForm(ctx context.Context, op, endpoint string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &domain.OpError{Op: op, Kind: domain.KindInvalidConfig, Path: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	res, err := c.api.Do(req)
	if err != nil {
		return nil, &domain.OpError{Op: op, Kind: domain.KindRemote, Path: endpoint, Err: err}
	}
	return res, nil
}

func decodeBody(op, endpoint string, r io.Reader, out any) error {
	if err := json.NewDecoder(r).Decode(out); err != nil {
		return &domain.OpError{
			Op:   op,
			Kind: domain.KindRemote,
			Path: endpoint,
			Err:  fmt.Errorf("decoding response: %w", err),
		}
	}
	return nil
}

func yearValue(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}
