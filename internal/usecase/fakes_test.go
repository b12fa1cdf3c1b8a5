package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/libertil/eea-cdrtools/internal/domain"
	"github.com/libertil/eea-cdrtools/internal/ports"
)

// --- fakes shared by the usecase tests ---

var (
	_ ports.EnvelopeFinder  = (*fakeFinder)(nil)
	_ ports.EnvelopeManager = (*fakeManager)(nil)
	_ ports.WorkflowDriver  = (*fakeWorkflow)(nil)
	_ ports.FileTransfer    = (*fakeTransfer)(nil)
	_ ports.FeedbackReader  = (*fakeFeedbacks)(nil)
	_ ports.ListSource      = (*fakeLists)(nil)
	_ ports.SessionStore    = (*fakeSessions)(nil)
	_ ports.Confirmer       = (*fakeConfirmer)(nil)
	_ ports.Reporter        = (*fakeReporter)(nil)
)

// fakeFinder serves canned envelopes, filtered by country the way the API
// would, and captures every query.
type fakeFinder struct {
	envelopes []domain.Envelope
	err       error
	queries   []domain.EnvelopeQuery
}

func (f *fakeFinder) Search(_ context.Context, q domain.EnvelopeQuery) ([]domain.Envelope, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	if q.CountryCode == "" {
		return f.envelopes, nil
	}
	var out []domain.Envelope
	for _, e := range f.envelopes {
		if strings.EqualFold(e.CountryCode, q.CountryCode) {
			out = append(out, e)
		}
	}
	return out, nil
}

type createCall struct {
	country string
	ob      domain.Obligation
	meta    domain.EnvelopeMeta
}

type fakeManager struct {
	created   []createCall
	deleted   []string
	createErr error
	deleteErr error
}

func (f *fakeManager) Create(_ context.Context, countryCode string, ob domain.Obligation, meta domain.EnvelopeMeta) (domain.Envelope, error) {
	if f.createErr != nil {
		return domain.Envelope{}, f.createErr
	}
	f.created = append(f.created, createCall{country: countryCode, ob: ob, meta: meta})
	url := fmt.Sprintf("https://cdrtest.eionet.europa.eu/%s/%s/envnew%d",
		strings.ToLower(countryCode), ob.Folder, len(f.created))
	return domain.Envelope{URL: url, Title: meta.Title}, nil
}

func (f *fakeManager) Delete(_ context.Context, envelopeURL string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, envelopeURL)
	return nil
}

type workitemCall struct {
	url string
	id  int
}

type fakeWorkflow struct {
	histories   map[string]domain.Envelope
	historyErr  error
	activateErr error
	startErr    error
	activated   []workitemCall
	started     []workitemCall
}

func (f *fakeWorkflow) History(_ context.Context, envelopeURL string) (domain.Envelope, error) {
	if f.historyErr != nil {
		return domain.Envelope{}, f.historyErr
	}
	env, ok := f.histories[envelopeURL]
	if !ok {
		return domain.Envelope{}, &domain.OpError{
			Op:   "fake.history",
			Kind: domain.KindNotFound,
			Path: envelopeURL,
			Err:  domain.ErrEnvelopeNotFound,
		}
	}
	return env, nil
}

func (f *fakeWorkflow) CurrentWorkitem(_ context.Context, envelopeURL string) (domain.HistoryEvent, error) {
	env, ok := f.histories[envelopeURL]
	if !ok || len(env.History) == 0 {
		return domain.HistoryEvent{}, domain.ErrEnvelopeNotFound
	}
	return env.History[len(env.History)-1], nil
}

func (f *fakeWorkflow) Activate(_ context.Context, envelopeURL string, workitemID int) error {
	if f.activateErr != nil {
		return f.activateErr
	}
	f.activated = append(f.activated, workitemCall{url: envelopeURL, id: workitemID})
	return nil
}

func (f *fakeWorkflow) StartQA(_ context.Context, envelopeURL string, workitemID int) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started = append(f.started, workitemCall{url: envelopeURL, id: workitemID})
	return nil
}

type uploadCall struct {
	envelopeURL string
	path        string
}

type fakeTransfer struct {
	downloads   []string
	uploads     []uploadCall
	downloadErr error
	uploadErr   error
}

func (f *fakeTransfer) Download(_ context.Context, fileURL, _, _ string) (string, error) {
	if f.downloadErr != nil {
		return "", f.downloadErr
	}
	f.downloads = append(f.downloads, fileURL)
	return "deadbeef", nil
}

func (f *fakeTransfer) Upload(_ context.Context, envelopeURL, path string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploads = append(f.uploads, uploadCall{envelopeURL: envelopeURL, path: path})
	return nil
}

type fakeFeedbacks struct {
	envelopes   map[string]domain.Envelope
	attachments map[string][]byte
	feedbackErr error
	attachErr   error
}

func (f *fakeFeedbacks) Feedbacks(_ context.Context, envelopeURL string) (domain.Envelope, error) {
	if f.feedbackErr != nil {
		return domain.Envelope{}, f.feedbackErr
	}
	env, ok := f.envelopes[envelopeURL]
	if !ok {
		return domain.Envelope{}, domain.ErrEnvelopeNotFound
	}
	return env, nil
}

func (f *fakeFeedbacks) Attachment(_ context.Context, attachmentURL string) ([]byte, error) {
	if f.attachErr != nil {
		return nil, f.attachErr
	}
	body, ok := f.attachments[attachmentURL]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return body, nil
}

type fakeLists struct {
	rows []domain.ListRow
	err  error
}

func (f *fakeLists) Rows(_ string) ([]domain.ListRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

type fakeSessions struct {
	saved []domain.SessionArtifact
	err   error
}

func (s *fakeSessions) SaveSession(a domain.SessionArtifact) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.saved = append(s.saved, a)
	return fmt.Sprintf("session-%d", len(s.saved)), nil
}

// fakeConfirmer replays canned answers; once exhausted it approves.
type fakeConfirmer struct {
	answers []bool
	asked   int
}

func (c *fakeConfirmer) Confirm(_ string) bool {
	if c.asked < len(c.answers) {
		answer := c.answers[c.asked]
		c.asked++
		return answer
	}
	c.asked++
	return true
}

type fakeReporter struct {
	steps []string
	warns []string
}

func (r *fakeReporter) Stepf(format string, args ...any) {
	r.steps = append(r.steps, fmt.Sprintf(format, args...))
}

func (r *fakeReporter) Warnf(format string, args ...any) {
	r.warns = append(r.warns, fmt.Sprintf(format, args...))
}
