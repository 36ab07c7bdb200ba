// ABOUTME: Tests for seed providers and dataset checks
// ABOUTME: Covers the embedded demo data, JSON files, SQLite seeds and consistency warnings
package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/salescrm/db"
	"github.com/harperreed/salescrm/models"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func TestEmbeddedSeedIsConsistent(t *testing.T) {
	ds, err := Embedded{}.Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, ds.Clients, 8)
	assert.Len(t, ds.Activities, 9)
	assert.Empty(t, Check(ds))

	// Every seeded last contact equals the latest activity for that client.
	latest := map[string]string{}
	for _, a := range ds.Activities {
		ts := a.ScheduledAt.UTC().Format("2006-01-02T15:04")
		if ts > latest[a.ClientID] {
			latest[a.ClientID] = ts
		}
	}
	for _, c := range ds.Clients {
		if c.LastContactAt == nil {
			assert.Empty(t, latest[c.ID], "client %s has activities but no last contact", c.ID)
			continue
		}
		assert.Equal(t, latest[c.ID], c.LastContactAt.UTC().Format("2006-01-02T15:04"), "client %s", c.ID)
	}
}

func TestFileProviderRoundTrip(t *testing.T) {
	want, err := Embedded{}.Load(context.Background())
	require.NoError(t, err)

	data, err := Encode(want)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, data, 0644))

	got, err := File{Path: path}.Load(context.Background())
	require.NoError(t, err)

	if diff := cmp.Diff(want, got, decimalEqual); diff != "" {
		t.Errorf("file seed differs (-want +got):\n%s", diff)
	}
}

func TestFileProviderRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"clients": [], "contacts": []}`), 0644))

	_, err := File{Path: path}.Load(context.Background())
	assert.Error(t, err)
}

func TestFileProviderLocations(t *testing.T) {
	dir := t.TempDir()
	client := func(geo string) string {
		return `{"clients": [{"id": "c1", "company_name": "X", "client_status": "prospect",
			"opportunity_status": "new", "potential_value": "0", "segment": "C", "geo": ` + geo + `,
			"created_at": "2026-10-01T09:00:00Z", "updated_at": "2026-10-01T09:00:00Z"}], "activities": []}`
	}

	origin := filepath.Join(dir, "origin.json")
	require.NoError(t, os.WriteFile(origin, []byte(client(`{"lat": 0, "lng": 0}`)), 0644))
	ds, err := File{Path: origin}.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, ds.Clients[0].Geo)
	assert.Equal(t, models.GeoPoint{Lat: 0, Lng: 0}, *ds.Clients[0].Geo)

	half := filepath.Join(dir, "half.json")
	require.NoError(t, os.WriteFile(half, []byte(client(`{"lat": 52.1}`)), 0644))
	_, err = File{Path: half}.Load(context.Background())
	assert.ErrorIs(t, err, models.ErrHalfSetGeo)
}

func TestFileProviderMissingFile(t *testing.T) {
	_, err := File{Path: filepath.Join(t.TempDir(), "nope.json")}.Load(context.Background())
	assert.Error(t, err)
}

func TestDatabaseProvider(t *testing.T) {
	ctx := context.Background()
	want, err := Embedded{}.Load(ctx)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "seed.db")
	conn, err := db.OpenDatabase(path)
	require.NoError(t, err)
	require.NoError(t, db.WriteDataset(ctx, conn, want))
	require.NoError(t, conn.Close())

	got, err := Database{Path: path}.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Clients, len(want.Clients))
	require.Len(t, got.Activities, len(want.Activities))

	for i := range want.Clients {
		assert.Equal(t, want.Clients[i].ID, got.Clients[i].ID)
		assert.True(t, want.Clients[i].PotentialValue.Equal(got.Clients[i].PotentialValue))
		assert.Equal(t, want.Clients[i].Segment, got.Clients[i].Segment)
	}
	assert.Empty(t, Check(got))
}

func TestDatabaseProviderMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")
	_, err := Database{Path: path}.Load(context.Background())
	assert.Error(t, err)

	// Loading must not create the file as a side effect.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSelect(t *testing.T) {
	assert.IsType(t, Embedded{}, Select("", ""))
	assert.Equal(t, File{Path: "a.json"}, Select("a.json", ""))
	assert.Equal(t, Database{Path: "b.db"}, Select("a.json", "b.db"))
}

func TestCheckReportsProblems(t *testing.T) {
	ds := models.Dataset{
		Clients: []models.Client{
			{ID: "c1", PotentialValue: decimal.NewFromInt(300000), Segment: models.SegmentC, OpportunityStatus: models.StageNew},
			{ID: "c1", PotentialValue: decimal.NewFromInt(10), Segment: models.SegmentC, OpportunityStatus: "archived",
				Geo: &models.GeoPoint{Lat: 52.1, Lng: 181}},
			{ID: "c2", PotentialValue: decimal.NewFromInt(10), Segment: models.SegmentC, OpportunityStatus: models.StageNew,
				Geo: &models.GeoPoint{Lat: 0, Lng: 0}},
		},
		Activities: []models.Activity{
			{ID: "a1", ClientID: "ghost", Type: models.ActivityCall, WinProbability: models.Ptr(150)},
		},
	}

	issues := Check(ds)
	assert.True(t, HasErrors(issues))

	var messages []string
	for _, i := range issues {
		messages = append(messages, i.String())
	}
	assert.Contains(t, messages, "error c1: duplicate client id")
	assert.Contains(t, messages, "warning c1: segment C does not match potential value 300000 (expected A)")
	assert.Contains(t, messages, `warning c1: unknown opportunity status "archived"`)
	assert.Contains(t, messages, "warning c1: location 52.1,181 out of range")
	for _, m := range messages {
		assert.NotContains(t, m, "c2", "a location on the equator and prime meridian is valid")
	}
	assert.Contains(t, messages, "warning a1: references unknown client ghost")
	assert.Contains(t, messages, "warning a1: offer fields set on a call activity")
	assert.Contains(t, messages, "warning a1: win probability 150 outside 0-100")
}
