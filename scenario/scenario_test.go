package scenario

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/salescrm/models"
	"github.com/harperreed/salescrm/store"
)

func TestRunOfferThenWonScenario(t *testing.T) {
	sc, err := Load(filepath.Join("testdata", "offer_then_won.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "offer then earlier won call", sc.Name)

	res, err := Run(models.Dataset{}, sc, nil)
	require.NoError(t, err)

	for _, st := range res.Steps {
		assert.Empty(t, st.Failures, "step %d %s", st.Index, st.Description)
	}
	assert.False(t, res.Failed())
	assert.Empty(t, res.Store.Clients())
	assert.Empty(t, res.Store.Activities())
}

func TestRunReportsFailedExpectations(t *testing.T) {
	sc, err := Parse([]byte(`
now: 2026-10-15T09:00:00Z
steps:
  - create_client: {ref: x, company_name: X, potential_value: 60000}
  - expect: {client: x, segment: A, stage: won}
`))
	require.NoError(t, err)

	res, err := Run(models.Dataset{}, sc, nil)
	require.NoError(t, err)
	assert.True(t, res.Failed())
	assert.Equal(t, []string{"stage: got new, want won", "segment: got B, want A"}, res.Steps[1].Failures)
}

func TestRunStopsOnUnknownID(t *testing.T) {
	sc, err := Parse([]byte(`
steps:
  - move_stage: {client: ghost, stage: won}
`))
	require.NoError(t, err)

	_, err = Run(models.Dataset{}, sc, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrClientNotFound))
}

func TestRunAgainstSeededClient(t *testing.T) {
	seed := models.Dataset{Clients: []models.Client{{
		ID: "c_001", CompanyName: "Seeded", OpportunityStatus: models.StageQualification,
		ClientStatus: models.ClientProspect, Segment: models.SegmentC,
	}}}
	sc, err := Parse([]byte(`
now: 2026-10-15T09:00:00Z
steps:
  - create_activity: {client: c_001, type: offer}
  - expect: {client: c_001, stage: offer, last_contact_at: 2026-10-15T09:00:00Z}
`))
	require.NoError(t, err)

	res, err := Run(seed, sc, nil)
	require.NoError(t, err)
	assert.False(t, res.Failed())

	acts := res.Store.ActivitiesForClient("c_001")
	require.Len(t, acts, 1)
	assert.Equal(t, "Commercial offer", acts[0].Title)
	assert.Equal(t, "gen_1", acts[0].ID)
}

func TestRunKeepsSeededRecordWithGeneratedID(t *testing.T) {
	seed := models.Dataset{Clients: []models.Client{{
		ID: "gen_1", CompanyName: "Seeded", OpportunityStatus: models.StageNew,
		ClientStatus: models.ClientProspect, Segment: models.SegmentC,
	}}}
	sc, err := Parse([]byte(`
now: 2026-10-15T09:00:00Z
steps:
  - create_client: {ref: x, company_name: Fresh, potential_value: 1000}
  - expect: {client: gen_1, stage: new}
`))
	require.NoError(t, err)

	res, err := Run(seed, sc, nil)
	require.NoError(t, err)
	assert.False(t, res.Failed())

	clients := res.Store.Clients()
	require.Len(t, clients, 2)
	assert.Equal(t, "gen_1", clients[0].ID)
	assert.Equal(t, "Seeded", clients[0].CompanyName)
	assert.Equal(t, "gen_2", clients[1].ID)
	assert.Equal(t, "Fresh", clients[1].CompanyName)
}

func TestParseRejectsAmbiguousSteps(t *testing.T) {
	_, err := Parse([]byte(`
steps:
  - delete_client: {ref: a}
    delete_activity: {ref: b}
`))
	assert.ErrorContains(t, err, "exactly one operation")

	_, err = Parse([]byte("steps:\n  - {}\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("now: yesterday\n"))
	assert.Error(t, err)
}
