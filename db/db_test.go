package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/salescrm/models"
)

func TestOpenDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "seed", "test.db")

	db, err := OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("OpenDatabase failed: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table'").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query tables: %v", err)
	}
	if count < 2 {
		t.Errorf("Expected at least 2 tables, got %d", count)
	}

	var mode string
	err = db.QueryRow("PRAGMA journal_mode").Scan(&mode)
	if err != nil {
		t.Fatalf("Failed to query journal mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("Expected WAL mode, got %s", mode)
	}
}

func TestOpenDatabaseInvalidPath(t *testing.T) {
	// A regular file where the directory should be makes MkdirAll fail for any user.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0o600))

	_, err := OpenDatabase(filepath.Join(blocker, "seed", "test.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create database directory")
}

func sampleDataset() models.Dataset {
	created := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	last := time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC)
	offer := decimal.RequireFromString("340000.50")

	return models.Dataset{
		Clients: []models.Client{
			{
				ID:                "c_002",
				CompanyName:       "Zielone Pola S.A.",
				TaxID:             "6762345678",
				City:              "Krakow",
				Country:           "PL",
				ClientStatus:      models.ClientProspect,
				OpportunityStatus: models.StageNew,
				PotentialValue:    decimal.NewFromInt(45000),
				Segment:           models.SegmentC,
				CreatedAt:         created,
				UpdatedAt:         created,
			},
			{
				ID:                "c_001",
				CompanyName:       "AgroPol Sp. z o.o.",
				TaxID:             "5213456789",
				City:              "Warszawa",
				Country:           "PL",
				ClientStatus:      models.ClientActive,
				OpportunityStatus: models.StageNegotiation,
				PotentialValue:    decimal.NewFromInt(350000),
				Segment:           models.SegmentA,
				LastContactAt:     &last,
				Geo:               &models.GeoPoint{Lat: 52.2297, Lng: 21.0122},
				CreatedAt:         created,
				UpdatedAt:         created,
			},
		},
		Activities: []models.Activity{
			{
				ID:             "a_001",
				ClientID:       "c_001",
				Type:           models.ActivityOffer,
				Title:          "Commercial offer",
				ScheduledAt:    last,
				Status:         models.ActivityCompleted,
				Result:         models.ResultNone,
				WinProbability: models.Ptr(60),
				OfferValue:     &offer,
				CreatedAt:      created,
				UpdatedAt:      created,
			},
			{
				ID:          "a_002",
				ClientID:    "c_999",
				Type:        models.ActivityCall,
				Title:       "Phone call with client",
				ScheduledAt: last,
				Status:      models.ActivityPlanned,
				Result:      models.ResultNone,
				CreatedAt:   created,
				UpdatedAt:   created,
			},
		},
	}
}

func TestWriteAndLoadDataset(t *testing.T) {
	ctx := context.Background()
	db, err := OpenDatabase(filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	defer db.Close()

	want := sampleDataset()
	require.NoError(t, WriteDataset(ctx, db, want))

	got, err := LoadDataset(ctx, db)
	require.NoError(t, err)
	require.Len(t, got.Clients, 2)
	require.Len(t, got.Activities, 2)

	// Stored order follows the written order, not the ids.
	assert.Equal(t, "c_002", got.Clients[0].ID)
	assert.Equal(t, "c_001", got.Clients[1].ID)

	agro := got.Clients[1]
	assert.Equal(t, models.SegmentA, agro.Segment)
	assert.True(t, agro.PotentialValue.Equal(decimal.NewFromInt(350000)))
	require.NotNil(t, agro.LastContactAt)
	assert.True(t, agro.LastContactAt.Equal(*want.Clients[1].LastContactAt))
	assert.Nil(t, agro.NextActionAt)
	require.NotNil(t, agro.Geo)
	assert.InDelta(t, 52.2297, agro.Geo.Lat, 1e-9)

	assert.Nil(t, got.Clients[0].Geo)
	assert.Nil(t, got.Clients[0].LastContactAt)

	offer := got.Activities[0]
	require.NotNil(t, offer.WinProbability)
	assert.Equal(t, 60, *offer.WinProbability)
	require.NotNil(t, offer.OfferValue)
	assert.Equal(t, "340000.5", offer.OfferValue.String())

	// Orphan activities survive a round trip; consistency checks live elsewhere.
	assert.Equal(t, "c_999", got.Activities[1].ClientID)
	assert.Nil(t, got.Activities[1].OfferValue)
}

func TestWriteDatasetReplacesExistingRows(t *testing.T) {
	ctx := context.Background()
	db, err := OpenDatabase(filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, WriteDataset(ctx, db, sampleDataset()))

	smaller := sampleDataset()
	smaller.Clients = smaller.Clients[:1]
	smaller.Activities = nil
	require.NoError(t, WriteDataset(ctx, db, smaller))

	got, err := LoadDataset(ctx, db)
	require.NoError(t, err)
	assert.Len(t, got.Clients, 1)
	assert.Empty(t, got.Activities)
}

func TestWriteDatasetRollsBackOnDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	db, err := OpenDatabase(filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, WriteDataset(ctx, db, sampleDataset()))

	bad := sampleDataset()
	bad.Clients = append(bad.Clients, bad.Clients[0])
	assert.Error(t, WriteDataset(ctx, db, bad))

	got, err := LoadDataset(ctx, db)
	require.NoError(t, err)
	assert.Len(t, got.Clients, 2)
	assert.Len(t, got.Activities, 2)
}

func TestLoadDatasetRejectsHalfSetLocation(t *testing.T) {
	ctx := context.Background()
	db, err := OpenDatabase(filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, WriteDataset(ctx, db, sampleDataset()))
	_, err = db.ExecContext(ctx, "UPDATE clients SET geo_lng = NULL WHERE geo_lat IS NOT NULL")
	require.NoError(t, err)

	_, err = LoadDataset(ctx, db)
	assert.ErrorIs(t, err, models.ErrHalfSetGeo)
}
