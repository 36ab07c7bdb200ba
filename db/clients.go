// ABOUTME: Client rows in the seed database
// ABOUTME: Inserts and lists clients, mapping nullable columns onto optional fields
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harperreed/salescrm/models"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

const clientColumns = `id, company_name, tax_id, email, phone, street, postal_code, city, region, country,
	client_status, opportunity_status, potential_value, segment, last_contact_at, next_action_at,
	geo_lat, geo_lng, notes, created_at, updated_at`

func InsertClient(ctx context.Context, db execer, c models.Client, position int) error {
	var lat, lng sql.NullFloat64
	if c.Geo != nil {
		lat = sql.NullFloat64{Float64: c.Geo.Lat, Valid: true}
		lng = sql.NullFloat64{Float64: c.Geo.Lng, Valid: true}
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO clients (`+clientColumns+`, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		c.ID, c.CompanyName, c.TaxID, c.Email, c.Phone, c.Street, c.PostalCode, c.City, c.Region, c.Country,
		string(c.ClientStatus), string(c.OpportunityStatus), c.PotentialValue.String(), string(c.Segment),
		nullTime(c.LastContactAt), nullTime(c.NextActionAt),
		lat, lng, c.Notes, c.CreatedAt, c.UpdatedAt, position,
	)
	if err != nil {
		return fmt.Errorf("failed to insert client %s: %w", c.ID, err)
	}
	return nil
}

// ListClients returns all clients in their stored order.
func ListClients(ctx context.Context, db queryer) ([]models.Client, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		ORDER BY position, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var clients []models.Client
	for rows.Next() {
		var c models.Client
		var status, stage, segment string
		var lastContact, nextAction sql.NullTime
		var lat, lng sql.NullFloat64

		if err := rows.Scan(
			&c.ID, &c.CompanyName, &c.TaxID, &c.Email, &c.Phone, &c.Street, &c.PostalCode, &c.City, &c.Region, &c.Country,
			&status, &stage, &c.PotentialValue, &segment, &lastContact, &nextAction,
			&lat, &lng, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}

		c.ClientStatus = models.ClientStatus(status)
		c.OpportunityStatus = models.Stage(stage)
		c.Segment = models.Segment(segment)
		c.LastContactAt = timePtr(lastContact)
		c.NextActionAt = timePtr(nextAction)
		switch {
		case lat.Valid && lng.Valid:
			c.Geo = &models.GeoPoint{Lat: lat.Float64, Lng: lng.Float64}
		case lat.Valid != lng.Valid:
			return nil, fmt.Errorf("client %s: %w", c.ID, models.ErrHalfSetGeo)
		}

		clients = append(clients, c)
	}

	return clients, rows.Err()
}
