// ABOUTME: In-memory domain store owning the client and activity collections
// ABOUTME: Applies derived-state rules (segment, last contact, stage advance) inside each mutation
package store

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/harperreed/salescrm/models"
)

// Store is the single owner of the CRM collections. Every mutation, including
// its derived-field recomputation, is applied under one lock so readers only
// ever see complete transitions.
type Store struct {
	mu sync.RWMutex

	clients       map[string]*models.Client
	clientOrder   []string
	activities    map[string]*models.Activity
	activityOrder []string

	ids    IDGenerator
	clock  Clock
	logger *zap.Logger
}

type Option func(*Store)

func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New builds a store holding a copy of the seed dataset. Seeded records are
// taken as-is: the seed provider is responsible for their consistency.
func New(seed models.Dataset, opts ...Option) *Store {
	s := &Store{
		clients:    make(map[string]*models.Client, len(seed.Clients)),
		activities: make(map[string]*models.Activity, len(seed.Activities)),
		ids:        UUIDGenerator{},
		clock:      SystemClock,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, c := range seed.Clients {
		s.putClient(c.Clone())
	}
	for _, a := range seed.Activities {
		s.putActivity(a.Clone())
	}

	s.logger.Debug("store seeded",
		zap.Int("clients", len(s.clients)),
		zap.Int("activities", len(s.activities)))
	return s
}

// CreateClient inserts a new client with a fresh id, a segment derived from its
// potential value and both timestamps set to now.
func (s *Store) CreateClient(in models.NewClient) models.Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	c := models.Client{
		ID:                s.unusedIDLocked(s.clientExistsLocked),
		CompanyName:       in.CompanyName,
		TaxID:             in.TaxID,
		Email:             in.Email,
		Phone:             in.Phone,
		Street:            in.Street,
		PostalCode:        in.PostalCode,
		City:              in.City,
		Region:            in.Region,
		Country:           in.Country,
		ClientStatus:      in.ClientStatus,
		OpportunityStatus: in.OpportunityStatus,
		PotentialValue:    in.PotentialValue,
		Segment:           models.ComputeSegment(in.PotentialValue),
		LastContactAt:     in.LastContactAt,
		NextActionAt:      in.NextActionAt,
		Geo:               in.Geo,
		Notes:             in.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	c = c.Clone()
	s.putClient(c)

	s.logger.Debug("client created",
		zap.String("id", c.ID),
		zap.String("segment", string(c.Segment)))
	return c.Clone()
}

// UpdateClient applies a partial patch. A patched potential value re-derives
// the segment in the same step.
func (s *Store) UpdateClient(id string, patch models.ClientPatch) (models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[id]
	if !ok {
		return models.Client{}, fmt.Errorf("update client %s: %w", id, ErrClientNotFound)
	}

	applyClientPatch(c, patch)
	if patch.PotentialValue != nil {
		c.Segment = models.ComputeSegment(*patch.PotentialValue)
	}
	c.UpdatedAt = s.clock.Now()

	s.logger.Debug("client updated", zap.String("id", id))
	return c.Clone(), nil
}

// DeleteClient removes the client together with all of its activities.
func (s *Store) DeleteClient(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[id]; !ok {
		return fmt.Errorf("delete client %s: %w", id, ErrClientNotFound)
	}

	delete(s.clients, id)
	s.clientOrder = removeID(s.clientOrder, id)

	removed := 0
	kept := s.activityOrder[:0]
	for _, aid := range s.activityOrder {
		if s.activities[aid].ClientID == id {
			delete(s.activities, aid)
			removed++
			continue
		}
		kept = append(kept, aid)
	}
	s.activityOrder = kept

	s.logger.Debug("client deleted",
		zap.String("id", id),
		zap.Int("activities_removed", removed))
	return nil
}

// CreateActivity inserts an activity and, as one transition, updates the owning
// client: last contact becomes the latest scheduled time across all of its
// activities, a won result forces the client to won/active, and otherwise an
// offer lifts a client that has not reached the offer stage up to it.
func (s *Store) CreateActivity(in models.NewActivity) models.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	a := models.Activity{
		ID:             s.unusedIDLocked(s.activityExistsLocked),
		ClientID:       in.ClientID,
		Type:           in.Type,
		Title:          in.Title,
		Description:    in.Description,
		ScheduledAt:    in.ScheduledAt,
		Status:         in.Status,
		Result:         in.Result,
		WinProbability: in.WinProbability,
		OfferValue:     in.OfferValue,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	a = a.Clone()
	s.putActivity(a)

	c, ok := s.clients[a.ClientID]
	if !ok {
		s.logger.Warn("activity references unknown client",
			zap.String("activity_id", a.ID),
			zap.String("client_id", a.ClientID))
		return a.Clone()
	}

	latest := s.latestScheduledLocked(c.ID)
	c.LastContactAt = &latest
	c.UpdatedAt = now

	switch {
	case a.Result == models.ResultWon:
		c.OpportunityStatus = models.StageWon
		c.ClientStatus = models.ClientActive
	case a.Type == models.ActivityOffer && c.OpportunityStatus.Precedes(models.StageOffer):
		c.OpportunityStatus = models.StageOffer
	}

	s.logger.Debug("activity created",
		zap.String("id", a.ID),
		zap.String("client_id", c.ID),
		zap.String("stage", string(c.OpportunityStatus)))
	return a.Clone()
}

// UpdateActivity patches an activity. It does not revisit the owning client:
// last contact and stage are only derived when an activity is created.
func (s *Store) UpdateActivity(id string, patch models.ActivityPatch) (models.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[id]
	if !ok {
		return models.Activity{}, fmt.Errorf("update activity %s: %w", id, ErrActivityNotFound)
	}

	applyActivityPatch(a, patch)
	a.UpdatedAt = s.clock.Now()

	s.logger.Debug("activity updated", zap.String("id", id))
	return a.Clone(), nil
}

// DeleteActivity removes an activity. The owning client keeps its last contact.
func (s *Store) DeleteActivity(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.activities[id]; !ok {
		return fmt.Errorf("delete activity %s: %w", id, ErrActivityNotFound)
	}
	delete(s.activities, id)
	s.activityOrder = removeID(s.activityOrder, id)

	s.logger.Debug("activity deleted", zap.String("id", id))
	return nil
}

// MoveOpportunityStage sets a client's stage directly. Any stage may follow any
// other, which is what free kanban reordering needs.
func (s *Store) MoveOpportunityStage(clientID string, stage models.Stage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[clientID]
	if !ok {
		return fmt.Errorf("move client %s: %w", clientID, ErrClientNotFound)
	}

	from := c.OpportunityStatus
	c.OpportunityStatus = stage
	c.UpdatedAt = s.clock.Now()

	s.logger.Debug("opportunity stage moved",
		zap.String("client_id", clientID),
		zap.String("from", string(from)),
		zap.String("to", string(stage)))
	return nil
}

// unusedIDLocked draws ids until one is not taken. Seeded records may already
// hold ids the generator would issue.
func (s *Store) unusedIDLocked(taken func(string) bool) string {
	for {
		id := s.ids.NewID()
		if !taken(id) {
			return id
		}
		s.logger.Warn("generated id already in use, drawing another", zap.String("id", id))
	}
}

func (s *Store) clientExistsLocked(id string) bool {
	_, ok := s.clients[id]
	return ok
}

func (s *Store) activityExistsLocked(id string) bool {
	_, ok := s.activities[id]
	return ok
}

func (s *Store) putClient(c models.Client) {
	if _, exists := s.clients[c.ID]; !exists {
		s.clientOrder = append(s.clientOrder, c.ID)
	}
	s.clients[c.ID] = &c
}

func (s *Store) putActivity(a models.Activity) {
	if _, exists := s.activities[a.ID]; !exists {
		s.activityOrder = append(s.activityOrder, a.ID)
	}
	s.activities[a.ID] = &a
}

func (s *Store) latestScheduledLocked(clientID string) (latest time.Time) {
	for _, aid := range s.activityOrder {
		a := s.activities[aid]
		if a.ClientID == clientID && a.ScheduledAt.After(latest) {
			latest = a.ScheduledAt
		}
	}
	return latest
}

func applyClientPatch(c *models.Client, p models.ClientPatch) {
	setIf(&c.CompanyName, p.CompanyName)
	setIf(&c.TaxID, p.TaxID)
	setIf(&c.Email, p.Email)
	setIf(&c.Phone, p.Phone)
	setIf(&c.Street, p.Street)
	setIf(&c.PostalCode, p.PostalCode)
	setIf(&c.City, p.City)
	setIf(&c.Region, p.Region)
	setIf(&c.Country, p.Country)
	setIf(&c.ClientStatus, p.ClientStatus)
	setIf(&c.OpportunityStatus, p.OpportunityStatus)
	setIf(&c.PotentialValue, p.PotentialValue)
	setIf(&c.Notes, p.Notes)

	if p.LastContactAt != nil {
		t := *p.LastContactAt
		c.LastContactAt = &t
	}
	if p.ClearNextAction {
		c.NextActionAt = nil
	} else if p.NextActionAt != nil {
		t := *p.NextActionAt
		c.NextActionAt = &t
	}
	if p.ClearGeo {
		c.Geo = nil
	} else if p.Geo != nil {
		g := *p.Geo
		c.Geo = &g
	}
}

func applyActivityPatch(a *models.Activity, p models.ActivityPatch) {
	setIf(&a.ClientID, p.ClientID)
	setIf(&a.Type, p.Type)
	setIf(&a.Title, p.Title)
	setIf(&a.Description, p.Description)
	setIf(&a.ScheduledAt, p.ScheduledAt)
	setIf(&a.Status, p.Status)
	setIf(&a.Result, p.Result)

	if p.WinProbability != nil {
		v := *p.WinProbability
		a.WinProbability = &v
	}
	if p.OfferValue != nil {
		v := *p.OfferValue
		a.OfferValue = &v
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
