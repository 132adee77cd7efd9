// Package ingest loads the market reference dataset from disk, HTTP, or an
// FTP mirror. These are bootstrap loads, not serving operations: the serving
// path never retries, but a remote dataset fetch may back off on transient
// failures before the process settles.
package ingest

import (
	"fmt"
	"io"

	"github.com/fieldwise/cropadvisor/internal/models"
	"github.com/fieldwise/cropadvisor/internal/tabular"
)

// marketColumns is the header contract of the market reference dataset.
var marketColumns = []string{
	"Product",
	"Market_Price_per_ton",
	"Competitor_Price_per_ton",
	"Demand_Index",
	"Supply_Index",
	"Consumer_Trend_Index",
}

// ParseMarketEntries converts a normalized frame into market entries,
// enforcing the header contract.
func ParseMarketEntries(f *tabular.Frame) ([]models.MarketEntry, error) {
	for _, col := range marketColumns {
		if !f.HasColumn(col) {
			return nil, &tabular.MissingColumnError{Column: col}
		}
	}

	entries := make([]models.MarketEntry, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		var e models.MarketEntry
		product, err := f.Value(i, "Product")
		if err != nil {
			return nil, err
		}
		e.Product = product

		for _, field := range []struct {
			column string
			dst    *float64
		}{
			{"Market_Price_per_ton", &e.MarketPricePerTon},
			{"Competitor_Price_per_ton", &e.CompetitorPricePerTon},
			{"Demand_Index", &e.DemandIndex},
			{"Supply_Index", &e.SupplyIndex},
			{"Consumer_Trend_Index", &e.ConsumerTrendIndex},
		} {
			v, err := f.Float(i, field.column)
			if err != nil {
				return nil, err
			}
			*field.dst = v
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ReadMarketCSV parses market entries from CSV data.
func ReadMarketCSV(r io.Reader) ([]models.MarketEntry, error) {
	f, err := tabular.ReadFrame(r)
	if err != nil {
		return nil, fmt.Errorf("parse market dataset: %w", err)
	}
	return ParseMarketEntries(f)
}

// LoadMarketCSV reads the market dataset from disk. Absence of the file is
// reported as tabular.ErrMissingDataset so the caller can skip population
// with a notice instead of failing startup.
func LoadMarketCSV(path string) ([]models.MarketEntry, error) {
	f, err := tabular.LoadFrame(path)
	if err != nil {
		return nil, err
	}
	return ParseMarketEntries(f)
}
