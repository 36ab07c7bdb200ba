// ABOUTME: Tests for CRM data models
// ABOUTME: Validates segment derivation, stage ordering and record cloning
package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeSegment(t *testing.T) {
	tests := []struct {
		value float64
		want  Segment
	}{
		{0, SegmentC},
		{30000, SegmentC},
		{49999.99, SegmentC},
		{50000, SegmentB},
		{120000, SegmentB},
		{200000, SegmentB},
		{200000.01, SegmentA},
		{350000, SegmentA},
	}

	for _, tt := range tests {
		got := ComputeSegment(decimal.NewFromFloat(tt.value))
		if got != tt.want {
			t.Errorf("ComputeSegment(%v) = %s, want %s", tt.value, got, tt.want)
		}
	}
}

func TestStagePrecedes(t *testing.T) {
	assert.True(t, StageNew.Precedes(StageOffer))
	assert.True(t, StageQualification.Precedes(StageOffer))
	assert.False(t, StageOffer.Precedes(StageOffer))
	assert.False(t, StageNegotiation.Precedes(StageOffer))
	assert.False(t, StageWon.Precedes(StageOffer))
	assert.False(t, StageLost.Precedes(StageOffer))

	// Unknown stages sit before the whole pipeline.
	assert.True(t, Stage("archived").Precedes(StageNew))
	assert.False(t, Stage("archived").Valid())
}

func TestDefaultActivityTitlesCoverAllTypes(t *testing.T) {
	for _, typ := range ActivityTypes {
		if DefaultActivityTitles[typ] == "" {
			t.Errorf("missing default title for %s", typ)
		}
	}
}

func TestClientCloneDoesNotSharePointers(t *testing.T) {
	last := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	c := Client{
		ID:            "c1",
		LastContactAt: &last,
		Geo:           &GeoPoint{Lat: 52.2, Lng: 21.0},
	}

	cp := c.Clone()
	*cp.LastContactAt = last.Add(time.Hour)
	cp.Geo.Lat = 0

	assert.Equal(t, last, *c.LastContactAt)
	assert.Equal(t, 52.2, c.Geo.Lat)
}

func TestActivityCloneDoesNotSharePointers(t *testing.T) {
	value := decimal.NewFromInt(1000)
	a := Activity{ID: "a1", WinProbability: Ptr(40), OfferValue: &value}

	cp := a.Clone()
	*cp.WinProbability = 90

	assert.Equal(t, 40, *a.WinProbability)
	assert.True(t, cp.OfferValue.Equal(value))
}
