// ABOUTME: Seed database schema definitions
// ABOUTME: Clients and activities tables mirroring the in-memory records
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS clients (
	id TEXT PRIMARY KEY,
	company_name TEXT NOT NULL,
	tax_id TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	street TEXT NOT NULL DEFAULT '',
	postal_code TEXT NOT NULL DEFAULT '',
	city TEXT NOT NULL DEFAULT '',
	region TEXT NOT NULL DEFAULT '',
	country TEXT NOT NULL DEFAULT '',
	client_status TEXT NOT NULL CHECK(client_status IN ('prospect', 'active', 'lost')),
	opportunity_status TEXT NOT NULL,
	potential_value TEXT NOT NULL DEFAULT '0',
	segment TEXT NOT NULL CHECK(segment IN ('A', 'B', 'C')),
	last_contact_at DATETIME,
	next_action_at DATETIME,
	geo_lat REAL,
	geo_lng REAL,
	notes TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	position INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_clients_company_name ON clients(company_name);
CREATE INDEX IF NOT EXISTS idx_clients_segment ON clients(segment);

CREATE TABLE IF NOT EXISTS activities (
	id TEXT PRIMARY KEY,
	client_id TEXT NOT NULL,
	type TEXT NOT NULL CHECK(type IN ('call', 'meeting', 'email', 'visit', 'offer')),
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	scheduled_at DATETIME NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('planned', 'completed')),
	result TEXT NOT NULL DEFAULT 'none' CHECK(result IN ('won', 'lost', 'none')),
	win_probability INTEGER,
	offer_value TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	position INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_activities_client_id ON activities(client_id);
CREATE INDEX IF NOT EXISTS idx_activities_scheduled_at ON activities(scheduled_at);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
