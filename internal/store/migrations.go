package store

import (
	"fmt"
	"log"
	"time"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "Initial schema",
		SQL: `
CREATE TABLE IF NOT EXISTS farmer_data (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    soil_ph REAL NOT NULL,
    soil_moisture REAL NOT NULL,
    temperature_c REAL NOT NULL,
    rainfall_mm REAL NOT NULL,
    fertilizer_usage_kg REAL NOT NULL,
    pesticide_usage_kg REAL NOT NULL,
    crop_type TEXT NOT NULL,
    crop_yield_ton REAL NOT NULL,
    sustainability_score REAL NOT NULL,
    recorded_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS market_data (
    product TEXT NOT NULL,
    market_price_per_ton REAL NOT NULL,
    competitor_price_per_ton REAL NOT NULL,
    demand_index REAL NOT NULL,
    supply_index REAL NOT NULL,
    consumer_trend_index REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_farmer_recorded ON farmer_data(recorded_at);
CREATE INDEX IF NOT EXISTS idx_market_product ON market_data(product);
`,
	},
}

// Migrate applies any pending schema migrations. Safe to call on every
// process start.
func (s *Store) Migrate() error {
	if err := s.ensureMigrationsTable(); err != nil {
		return fmt.Errorf("ensure migrations table: %w", err)
	}

	applied, err := s.getAppliedMigrations()
	if err != nil {
		return fmt.Errorf("get applied migrations: %w", err)
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}

		log.Printf("migrations: applying %d - %s", m.Version, m.Description)

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin tx for migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)",
			m.Version, m.Description, time.Now().UTC(),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

func (s *Store) ensureMigrationsTable() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT,
			applied_at DATETIME
		)
	`)
	return err
}

func (s *Store) getAppliedMigrations() (map[int]bool, error) {
	rows, err := s.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}
