// ABOUTME: Executes a parsed scenario against a fresh store
// ABOUTME: Resolves refs to generated ids, drives a manual clock and records expectation failures
package scenario

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/harperreed/salescrm/models"
	"github.com/harperreed/salescrm/store"
)

// manualClock only moves when an advance step says so.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type StepResult struct {
	Index       int
	Description string
	Failures    []string
}

type Result struct {
	Store *store.Store
	Clock store.Clock
	Steps []StepResult
}

// Failed reports whether any expectation failed.
func (r *Result) Failed() bool {
	for _, s := range r.Steps {
		if len(s.Failures) > 0 {
			return true
		}
	}
	return false
}

type runner struct {
	store *store.Store
	clock *manualClock
	refs  map[string]string
}

// Run replays sc on a new store seeded with seed. Operation errors, such as an
// unknown id, stop the replay; expectation mismatches are collected.
func Run(seed models.Dataset, sc *Scenario, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	start := time.Now().UTC().Truncate(time.Second)
	if sc.Now != "" {
		t, err := time.Parse(time.RFC3339, sc.Now)
		if err != nil {
			return nil, fmt.Errorf("invalid now %q: %w", sc.Now, err)
		}
		start = t
	}

	r := &runner{
		clock: &manualClock{now: start},
		refs:  map[string]string{},
	}
	r.store = store.New(seed,
		store.WithClock(r.clock),
		store.WithIDGenerator(store.NewSequenceGenerator("gen", 0)),
		store.WithLogger(logger),
	)

	res := &Result{Store: r.store, Clock: r.clock}
	for i, st := range sc.Steps {
		desc, failures, err := r.step(st)
		if err != nil {
			return res, fmt.Errorf("step %d (%s): %w", i+1, desc, err)
		}
		res.Steps = append(res.Steps, StepResult{Index: i + 1, Description: desc, Failures: failures})
		logger.Debug("scenario step",
			zap.Int("step", i+1),
			zap.String("op", desc),
			zap.Int("failures", len(failures)))
	}
	return res, nil
}

func (r *runner) id(ref string) string {
	if id, ok := r.refs[ref]; ok {
		return id
	}
	return ref
}

func (r *runner) step(st Step) (string, []string, error) {
	switch {
	case st.CreateClient != nil:
		in, err := st.CreateClient.newClient()
		if err != nil {
			return "create_client", nil, err
		}
		c := r.store.CreateClient(in)
		if st.CreateClient.Ref != "" {
			r.refs[st.CreateClient.Ref] = c.ID
		}
		return "create_client " + c.ID, nil, nil

	case st.UpdateClient != nil:
		p, err := st.UpdateClient.patch()
		if err != nil {
			return "update_client", nil, err
		}
		id := r.id(st.UpdateClient.Ref)
		_, err = r.store.UpdateClient(id, p)
		return "update_client " + id, nil, err

	case st.DeleteClient != nil:
		id := r.id(st.DeleteClient.Ref)
		return "delete_client " + id, nil, r.store.DeleteClient(id)

	case st.CreateActivity != nil:
		in, err := r.newActivity(*st.CreateActivity)
		if err != nil {
			return "create_activity", nil, err
		}
		a := r.store.CreateActivity(in)
		if st.CreateActivity.Ref != "" {
			r.refs[st.CreateActivity.Ref] = a.ID
		}
		return "create_activity " + a.ID, nil, nil

	case st.UpdateActivity != nil:
		p, err := st.UpdateActivity.patch()
		if err != nil {
			return "update_activity", nil, err
		}
		if st.UpdateActivity.Client != nil {
			p.ClientID = models.Ptr(r.id(*st.UpdateActivity.Client))
		}
		id := r.id(st.UpdateActivity.Ref)
		_, err = r.store.UpdateActivity(id, p)
		return "update_activity " + id, nil, err

	case st.DeleteActivity != nil:
		id := r.id(st.DeleteActivity.Ref)
		return "delete_activity " + id, nil, r.store.DeleteActivity(id)

	case st.MoveStage != nil:
		id := r.id(st.MoveStage.Client)
		return "move_stage " + id, nil, r.store.MoveOpportunityStage(id, models.Stage(st.MoveStage.Stage))

	case st.Advance != nil:
		r.clock.advance(*st.Advance)
		return "advance " + st.Advance.String(), nil, nil

	case st.Expect != nil:
		id := r.id(st.Expect.Client)
		failures, err := r.check(id, *st.Expect)
		return "expect " + id, failures, err
	}
	return "", nil, fmt.Errorf("empty step")
}

func (r *runner) newActivity(spec ActivitySpec) (models.NewActivity, error) {
	in := models.NewActivity{
		Type:   models.ActivityCall,
		Status: models.ActivityPlanned,
		Result: models.ResultNone,
	}
	if spec.Client != nil {
		in.ClientID = r.id(*spec.Client)
	}

	p, err := spec.patch()
	if err != nil {
		return in, err
	}
	setIf(&in.Type, p.Type)
	setIf(&in.Title, p.Title)
	setIf(&in.Status, p.Status)
	setIf(&in.Result, p.Result)
	if p.ScheduledAt != nil {
		in.ScheduledAt = *p.ScheduledAt
	} else {
		in.ScheduledAt = r.clock.Now()
	}
	if in.Title == "" {
		in.Title = models.DefaultActivityTitles[in.Type]
	}
	if in.Type == models.ActivityOffer {
		in.WinProbability = p.WinProbability
		in.OfferValue = p.OfferValue
	}
	return in, nil
}

func (r *runner) check(id string, e Expectation) ([]string, error) {
	var failures []string
	fail := func(format string, args ...any) {
		failures = append(failures, fmt.Sprintf(format, args...))
	}

	c, ok := r.store.Client(id)
	if e.Exists != nil && ok != *e.Exists {
		fail("exists: got %t, want %t", ok, *e.Exists)
	}
	if !ok {
		if e.Exists == nil || *e.Exists {
			fail("client %s not found", id)
		}
		if e.ActivityCount != nil {
			if n := len(r.store.ActivitiesForClient(id)); n != *e.ActivityCount {
				fail("activity_count: got %d, want %d", n, *e.ActivityCount)
			}
		}
		return failures, nil
	}

	if e.Stage != nil && string(c.OpportunityStatus) != *e.Stage {
		fail("stage: got %s, want %s", c.OpportunityStatus, *e.Stage)
	}
	if e.Status != nil && string(c.ClientStatus) != *e.Status {
		fail("status: got %s, want %s", c.ClientStatus, *e.Status)
	}
	if e.Segment != nil && string(c.Segment) != *e.Segment {
		fail("segment: got %s, want %s", c.Segment, *e.Segment)
	}
	if e.NoLastContact && c.LastContactAt != nil {
		fail("last_contact_at: got %s, want none", c.LastContactAt.Format(time.RFC3339))
	}
	if e.LastContactAt != nil {
		want, err := parseTime(*e.LastContactAt)
		if err != nil {
			return nil, err
		}
		switch {
		case c.LastContactAt == nil:
			fail("last_contact_at: got none, want %s", want.Format(time.RFC3339))
		case !c.LastContactAt.Equal(want):
			fail("last_contact_at: got %s, want %s", c.LastContactAt.Format(time.RFC3339), want.Format(time.RFC3339))
		}
	}
	if e.ActivityCount != nil {
		if n := len(r.store.ActivitiesForClient(id)); n != *e.ActivityCount {
			fail("activity_count: got %d, want %d", n, *e.ActivityCount)
		}
	}
	return failures, nil
}
