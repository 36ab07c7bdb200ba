// ABOUTME: Activity rows in the seed database
// ABOUTME: Inserts and lists activities including the offer-only columns
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/harperreed/salescrm/models"
)

const activityColumns = `id, client_id, type, title, description, scheduled_at, status, result,
	win_probability, offer_value, created_at, updated_at`

func InsertActivity(ctx context.Context, db execer, a models.Activity, position int) error {
	var prob sql.NullInt64
	if a.WinProbability != nil {
		prob = sql.NullInt64{Int64: int64(*a.WinProbability), Valid: true}
	}
	var offer sql.NullString
	if a.OfferValue != nil {
		offer = sql.NullString{String: a.OfferValue.String(), Valid: true}
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO activities (`+activityColumns+`, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		a.ID, a.ClientID, string(a.Type), a.Title, a.Description, a.ScheduledAt,
		string(a.Status), string(a.Result), prob, offer, a.CreatedAt, a.UpdatedAt, position,
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity %s: %w", a.ID, err)
	}
	return nil
}

// ListActivities returns all activities in their stored order.
func ListActivities(ctx context.Context, db queryer) ([]models.Activity, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+activityColumns+`
		FROM activities
		ORDER BY position, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var activities []models.Activity
	for rows.Next() {
		var a models.Activity
		var typ, status, result string
		var prob sql.NullInt64
		var offer sql.NullString

		if err := rows.Scan(
			&a.ID, &a.ClientID, &typ, &a.Title, &a.Description, &a.ScheduledAt, &status, &result,
			&prob, &offer, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}

		a.Type = models.ActivityType(typ)
		a.Status = models.ActivityStatus(status)
		a.Result = models.ActivityResult(result)
		if prob.Valid {
			p := int(prob.Int64)
			a.WinProbability = &p
		}
		if offer.Valid {
			v, err := decimal.NewFromString(offer.String)
			if err != nil {
				return nil, fmt.Errorf("activity %s has invalid offer value %q: %w", a.ID, offer.String, err)
			}
			a.OfferValue = &v
		}

		activities = append(activities, a)
	}

	return activities, rows.Err()
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
