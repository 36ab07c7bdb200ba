// ABOUTME: Seed providers supplying the initial CRM dataset
// ABOUTME: Embedded demo data, JSON files and SQLite seed databases behind one interface
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/harperreed/salescrm/db"
	"github.com/harperreed/salescrm/models"
)

//go:embed data/seed.json
var embedded []byte

// Provider produces a starting dataset for the store.
type Provider interface {
	Load(ctx context.Context) (models.Dataset, error)
}

// ProviderFunc adapts a plain function to Provider.
type ProviderFunc func(ctx context.Context) (models.Dataset, error)

func (f ProviderFunc) Load(ctx context.Context) (models.Dataset, error) {
	return f(ctx)
}

// Embedded serves the demo dataset compiled into the binary.
type Embedded struct{}

func (Embedded) Load(ctx context.Context) (models.Dataset, error) {
	ds, err := decode(embedded)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("failed to decode embedded seed: %w", err)
	}
	return ds, nil
}

// File reads a dataset from a JSON file in the same shape as the embedded seed.
type File struct {
	Path string
}

func (f File) Load(ctx context.Context) (models.Dataset, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("failed to read seed file: %w", err)
	}
	ds, err := decode(data)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("failed to decode seed file %s: %w", f.Path, err)
	}
	return ds, nil
}

// Database reads a dataset from a SQLite seed database.
type Database struct {
	Path string
}

func (d Database) Load(ctx context.Context) (models.Dataset, error) {
	if _, err := os.Stat(d.Path); err != nil {
		return models.Dataset{}, fmt.Errorf("failed to open seed database: %w", err)
	}

	conn, err := db.OpenDatabase(d.Path)
	if err != nil {
		return models.Dataset{}, err
	}
	defer func() { _ = conn.Close() }()

	ds, err := db.LoadDataset(ctx, conn)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("failed to load seed database %s: %w", d.Path, err)
	}
	return ds, nil
}

// Select picks the provider for the configured sources. A database path wins
// over a file path; with neither set the embedded demo data is used.
func Select(file, database string) Provider {
	switch {
	case database != "":
		return Database{Path: database}
	case file != "":
		return File{Path: file}
	default:
		return Embedded{}
	}
}

func decode(data []byte) (models.Dataset, error) {
	var ds models.Dataset
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ds); err != nil {
		return models.Dataset{}, err
	}
	return ds, nil
}

// Encode writes ds as indented JSON, the same format File reads.
func Encode(ds models.Dataset) ([]byte, error) {
	return json.MarshalIndent(ds, "", "  ")
}
