// Package publication fans a VERIFIED evidence item out to four pluggable
// channels — microblog, broadcast, email, and a statutory filing reference
// — either immediately or after a scheduled delay.
package publication

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/whistlechain/coordinator/internal/apperr"
	"github.com/whistlechain/coordinator/pkg/models"
)

// Connector renders and records one platform's post. The base
// implementations never call an external API; they just produce the post
// object, matching the source system's "record without dispatching" base
// behavior.
type Connector interface {
	Platform() string
	Post(ctx context.Context, req PublishRequest) (models.PostRecord, error)
}

// PublishRequest carries everything a connector needs to render its post.
type PublishRequest struct {
	EvidenceID   string
	Category     models.Category
	Organization string
	Description  string
	ContentID    string
	Counter      uint64
}

type microblogConnector struct{}

func (microblogConnector) Platform() string { return "microblog" }
func (microblogConnector) Post(_ context.Context, req PublishRequest) (models.PostRecord, error) {
	body := fmt.Sprintf("Verified whistleblower report against %s (%s). Evidence %s.", req.Organization, req.Category, req.EvidenceID)
	return models.PostRecord{Platform: "microblog", Body: body, PostedAt: time.Now().UTC()}, nil
}

type broadcastConnector struct{}

func (broadcastConnector) Platform() string { return "broadcast" }
func (broadcastConnector) Post(_ context.Context, req PublishRequest) (models.PostRecord, error) {
	body := fmt.Sprintf("ALERT: %s — %s has been independently verified.", req.Category, req.Organization)
	return models.PostRecord{Platform: "broadcast", Body: body, PostedAt: time.Now().UTC()}, nil
}

// emailConnector fans out to a compiled contact list: base contacts union
// category-specific contacts. The base implementation just records the
// recipient count rather than dispatching mail.
type emailConnector struct {
	baseContacts     []string
	categoryContacts map[models.Category][]string
}

func newEmailConnector() emailConnector {
	return emailConnector{
		baseContacts: []string{"oversight@registry.example"},
		categoryContacts: map[models.Category][]string{
			models.CategoryFinancial:    {"financial-crimes@registry.example"},
			models.CategoryConstruction: {"building-safety@registry.example"},
			models.CategoryFood:         {"food-safety@registry.example"},
			models.CategoryAcademic:     {"research-integrity@registry.example"},
		},
	}
}

func (e emailConnector) Platform() string { return "email" }
func (e emailConnector) Post(_ context.Context, req PublishRequest) (models.PostRecord, error) {
	recipients := append(append([]string{}, e.baseContacts...), e.categoryContacts[req.Category]...)
	body := fmt.Sprintf("Fan-out to %d recipients regarding %s.", len(recipients), req.EvidenceID)
	return models.PostRecord{Platform: "email", Body: body, PostedAt: time.Now().UTC()}, nil
}

type filingConnector struct{}

func (filingConnector) Platform() string { return "filing" }
func (filingConnector) Post(_ context.Context, req PublishRequest) (models.PostRecord, error) {
	year := time.Now().UTC().Year()
	reference := fmt.Sprintf("RTI/%04d/WC/%d", year, req.Counter)
	return models.PostRecord{
		Platform:  "filing",
		Body:      fmt.Sprintf("Statutory filing recorded for %s.", req.EvidenceID),
		PostedAt:  time.Now().UTC(),
		Reference: reference,
	}, nil
}

// DefaultConnectors returns the four base channels in a fixed order.
func DefaultConnectors() []Connector {
	return []Connector{
		microblogConnector{},
		broadcastConnector{},
		newEmailConnector(),
		filingConnector{},
	}
}

type pendingItem struct {
	req       PublishRequest
	publishAt time.Time
	timer     *time.Timer
}

// Engine holds the publication record per evidence item and a scheduler for
// deferred publication: one timer per pending item rather than a polling
// sleep loop.
type Engine struct {
	connectors []Connector

	mu      sync.Mutex
	records map[string]*models.PublicationRecord
	pending map[string]*pendingItem
}

func New(connectors []Connector) *Engine {
	if connectors == nil {
		connectors = DefaultConnectors()
	}
	return &Engine{
		connectors: connectors,
		records:    make(map[string]*models.PublicationRecord),
		pending:    make(map[string]*pendingItem),
	}
}

// PublishAll fans req out to every connector immediately. Precondition
// (VERIFIED verdict) is enforced by the caller, which already holds the
// resolution/verification verdict. An item that is still scheduled (not yet
// published or cancelled) may be published; any other existing record is
// rejected.
func (e *Engine) PublishAll(ctx context.Context, req PublishRequest) (*models.PublicationRecord, error) {
	e.mu.Lock()
	_, scheduled := e.pending[req.EvidenceID]
	if _, exists := e.records[req.EvidenceID]; exists && !scheduled {
		e.mu.Unlock()
		return nil, apperr.State("publication already recorded for " + req.EvidenceID)
	}
	e.mu.Unlock()

	posts := make([]models.PostRecord, 0, len(e.connectors))
	for _, c := range e.connectors {
		post, err := c.Post(ctx, req)
		if err != nil {
			return nil, apperr.Dependency("connector "+c.Platform()+" failed", err)
		}
		posts = append(posts, post)
	}

	record := &models.PublicationRecord{
		EvidenceID: req.EvidenceID,
		Posts:      posts,
		Published:  true,
	}

	e.mu.Lock()
	e.records[req.EvidenceID] = record
	delete(e.pending, req.EvidenceID)
	e.mu.Unlock()

	return record, nil
}

// Schedule records a deferred publication, firing PublishAll automatically
// once delay elapses via a per-item timer.
func (e *Engine) Schedule(req PublishRequest, delay time.Duration) (*models.PublicationRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.records[req.EvidenceID]; exists {
		return nil, apperr.State("publication already recorded for " + req.EvidenceID)
	}
	if _, exists := e.pending[req.EvidenceID]; exists {
		return nil, apperr.State("publication already scheduled for " + req.EvidenceID)
	}

	publishAt := time.Now().UTC().Add(delay)
	record := &models.PublicationRecord{
		EvidenceID: req.EvidenceID,
		Scheduled:  true,
		PublishAt:  publishAt,
	}
	e.records[req.EvidenceID] = record

	item := &pendingItem{req: req, publishAt: publishAt}
	item.timer = time.AfterFunc(delay, func() {
		_, _ = e.PublishAll(context.Background(), req)
	})
	e.pending[req.EvidenceID] = item

	return record, nil
}

// Cancel refuses cancellation once publish_at has already elapsed.
func (e *Engine) Cancel(evidenceID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	item, ok := e.pending[evidenceID]
	if !ok {
		return apperr.NotFound("no scheduled publication for " + evidenceID)
	}
	if time.Now().UTC().After(item.publishAt) {
		return apperr.State("publish_at has already elapsed")
	}
	item.timer.Stop()
	delete(e.pending, evidenceID)

	if rec, ok := e.records[evidenceID]; ok {
		rec.Cancelled = true
	}
	return nil
}

// Due returns the evidence ids whose publish_at has elapsed but which have
// not yet published — primarily useful for tests and operator tooling,
// since the timer already fires publication automatically.
func (e *Engine) Due() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]string, 0)
	now := time.Now().UTC()
	for id, item := range e.pending {
		if now.After(item.publishAt) || now.Equal(item.publishAt) {
			out = append(out, id)
		}
	}
	return out
}

func (e *Engine) Get(evidenceID string) (*models.PublicationRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.records[evidenceID]
	if !ok {
		return nil, apperr.NotFound("no publication record for " + evidenceID)
	}
	cp := *r
	return &cp, nil
}
