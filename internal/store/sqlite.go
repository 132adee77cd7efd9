// Package store persists prediction records and the market reference table
// in SQLite. Prediction rows are append-only: there is no update or delete
// path. Market data is replaced wholesale inside one transaction.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/fieldwise/cropadvisor/internal/models"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// InsertPrediction appends one record. RecordedAt is assigned here at
// insert time regardless of what the caller set. Returns the new row id.
func (s *Store) InsertPrediction(rec models.PredictionRecord) (int64, error) {
	recordedAt := time.Now().UTC()
	res, err := s.db.Exec(`
		INSERT INTO farmer_data (
			soil_ph, soil_moisture, temperature_c, rainfall_mm,
			fertilizer_usage_kg, pesticide_usage_kg,
			crop_type, crop_yield_ton, sustainability_score, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.SoilPH, rec.SoilMoisture, rec.TemperatureC, rec.RainfallMM,
		rec.FertilizerKg, rec.PesticideKg,
		rec.CropType, rec.CropYieldTon, rec.SustainabilityScore, recordedAt)
	if err != nil {
		return 0, fmt.Errorf("insert prediction: %w", err)
	}
	return res.LastInsertId()
}

const predictionColumns = `id, soil_ph, soil_moisture, temperature_c, rainfall_mm,
	fertilizer_usage_kg, pesticide_usage_kg,
	crop_type, crop_yield_ton, sustainability_score, recorded_at`

func scanPrediction(row interface{ Scan(...any) error }) (models.PredictionRecord, error) {
	var rec models.PredictionRecord
	err := row.Scan(&rec.ID, &rec.SoilPH, &rec.SoilMoisture, &rec.TemperatureC, &rec.RainfallMM,
		&rec.FertilizerKg, &rec.PesticideKg,
		&rec.CropType, &rec.CropYieldTon, &rec.SustainabilityScore, &rec.RecordedAt)
	return rec, err
}

// History returns all prediction records, newest first.
func (s *Store) History() ([]models.PredictionRecord, error) {
	rows, err := s.db.Query(`SELECT ` + predictionColumns + ` FROM farmer_data ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []models.PredictionRecord
	for rows.Next() {
		rec, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetPrediction returns one record by id, or nil when it does not exist.
func (s *Store) GetPrediction(id int64) (*models.PredictionRecord, error) {
	row := s.db.QueryRow(`SELECT `+predictionColumns+` FROM farmer_data WHERE id = ?`, id)
	rec, err := scanPrediction(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// HistoryCount returns the number of stored predictions.
func (s *Store) HistoryCount() (int64, error) {
	var n int64
	err := s.db.QueryRow(`SELECT COUNT(*) FROM farmer_data`).Scan(&n)
	return n, err
}

// LatestPrediction returns the most recent record, or nil when empty.
func (s *Store) LatestPrediction() (*models.PredictionRecord, error) {
	row := s.db.QueryRow(`SELECT ` + predictionColumns + ` FROM farmer_data ORDER BY id DESC LIMIT 1`)
	rec, err := scanPrediction(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ReplaceMarketData replaces the entire market table with the given
// entries. Delete and insert happen in one transaction so readers never
// observe an empty table mid-replace.
func (s *Store) ReplaceMarketData(entries []models.MarketEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin market replace: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM market_data`); err != nil {
		tx.Rollback()
		return fmt.Errorf("clear market data: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO market_data (
			product, market_price_per_ton, competitor_price_per_ton,
			demand_index, supply_index, consumer_trend_index
		) VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare market insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(e.Product, e.MarketPricePerTon, e.CompetitorPricePerTon,
			e.DemandIndex, e.SupplyIndex, e.ConsumerTrendIndex); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert market row %q: %w", e.Product, err)
		}
	}

	return tx.Commit()
}

// MarketData returns all market entries in insertion order.
func (s *Store) MarketData() ([]models.MarketEntry, error) {
	rows, err := s.db.Query(`
		SELECT product, market_price_per_ton, competitor_price_per_ton,
			demand_index, supply_index, consumer_trend_index
		FROM market_data
	`)
	if err != nil {
		return nil, fmt.Errorf("query market data: %w", err)
	}
	defer rows.Close()

	var entries []models.MarketEntry
	for rows.Next() {
		var e models.MarketEntry
		if err := rows.Scan(&e.Product, &e.MarketPricePerTon, &e.CompetitorPricePerTon,
			&e.DemandIndex, &e.SupplyIndex, &e.ConsumerTrendIndex); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
