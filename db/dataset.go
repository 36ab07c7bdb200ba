// ABOUTME: Whole-dataset load and export for the seed database
// ABOUTME: WriteDataset replaces both tables in one transaction so a file is never half-written
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harperreed/salescrm/models"
)

func LoadDataset(ctx context.Context, db *sql.DB) (models.Dataset, error) {
	clients, err := ListClients(ctx, db)
	if err != nil {
		return models.Dataset{}, err
	}
	activities, err := ListActivities(ctx, db)
	if err != nil {
		return models.Dataset{}, err
	}
	return models.Dataset{Clients: clients, Activities: activities}, nil
}

// WriteDataset replaces the contents of the seed database with ds, keeping
// the slice order as the stored order.
func WriteDataset(ctx context.Context, db *sql.DB, ds models.Dataset) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM activities`); err != nil {
		return fmt.Errorf("failed to clear activities: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM clients`); err != nil {
		return fmt.Errorf("failed to clear clients: %w", err)
	}

	for i, c := range ds.Clients {
		if err := InsertClient(ctx, tx, c, i); err != nil {
			return err
		}
	}
	for i, a := range ds.Activities {
		if err := InsertActivity(ctx, tx, a, i); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit dataset: %w", err)
	}
	return nil
}
