// ABOUTME: Read accessors for the domain store
// ABOUTME: Lookups, per-client activity lists and client search used by the views
package store

import (
	"sort"
	"strings"

	"github.com/harperreed/salescrm/models"
)

// Client returns a copy of the client with the given id.
func (s *Store) Client(id string) (models.Client, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.clients[id]
	if !ok {
		return models.Client{}, false
	}
	return c.Clone(), true
}

func (s *Store) Activity(id string) (models.Activity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.activities[id]
	if !ok {
		return models.Activity{}, false
	}
	return a.Clone(), true
}

// Clients returns copies of all clients in insertion order.
func (s *Store) Clients() []models.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Client, 0, len(s.clientOrder))
	for _, id := range s.clientOrder {
		out = append(out, s.clients[id].Clone())
	}
	return out
}

// Activities returns copies of all activities in insertion order.
func (s *Store) Activities() []models.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Activity, 0, len(s.activityOrder))
	for _, id := range s.activityOrder {
		out = append(out, s.activities[id].Clone())
	}
	return out
}

// ActivitiesForClient returns the client's activities in insertion order.
func (s *Store) ActivitiesForClient(clientID string) []models.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Activity
	for _, id := range s.activityOrder {
		if a := s.activities[id]; a.ClientID == clientID {
			out = append(out, a.Clone())
		}
	}
	return out
}

// Snapshot returns both collections read under a single lock.
func (s *Store) Snapshot() models.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ds := models.Dataset{
		Clients:    make([]models.Client, 0, len(s.clientOrder)),
		Activities: make([]models.Activity, 0, len(s.activityOrder)),
	}
	for _, id := range s.clientOrder {
		ds.Clients = append(ds.Clients, s.clients[id].Clone())
	}
	for _, id := range s.activityOrder {
		ds.Activities = append(ds.Activities, s.activities[id].Clone())
	}
	return ds
}

// ClientFilter narrows the client list. Zero values match everything.
type ClientFilter struct {
	// Query matches company name, email and city case-insensitively, and
	// phone as a plain substring.
	Query   string
	Status  models.ClientStatus
	Segment models.Segment
}

func (f ClientFilter) Matches(c models.Client) bool {
	if f.Status != "" && c.ClientStatus != f.Status {
		return false
	}
	if f.Segment != "" && c.Segment != f.Segment {
		return false
	}
	if f.Query == "" {
		return true
	}

	q := strings.ToLower(f.Query)
	return strings.Contains(strings.ToLower(c.CompanyName), q) ||
		strings.Contains(strings.ToLower(c.Email), q) ||
		strings.Contains(strings.ToLower(c.City), q) ||
		strings.Contains(c.Phone, f.Query)
}

// FindClients returns the clients matching the filter, ordered by company name.
func (s *Store) FindClients(f ClientFilter) []models.Client {
	var out []models.Client
	for _, c := range s.Clients() {
		if f.Matches(c) {
			out = append(out, c)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].CompanyName) < strings.ToLower(out[j].CompanyName)
	})
	return out
}
