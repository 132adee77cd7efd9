// Package market resolves crop names against the reference market dataset,
// falling back to a derived estimate when a crop has no market row.
package market

import "github.com/fieldwise/cropadvisor/internal/models"

// Source records where a quote's prices came from.
type Source string

const (
	// SourceMarket means the prices came from the reference dataset.
	SourceMarket Source = "market"
	// SourceEstimate means the prices were derived from the price estimate
	// because the crop has no market row.
	SourceEstimate Source = "estimate"
)

// Fallback multipliers applied to the price estimate when a crop is absent
// from the reference dataset.
const (
	fallbackMarketFactor     = 1.10
	fallbackCompetitorFactor = 0.95
)

// Quote is the market context for one crop.
type Quote struct {
	Product         string              `json:"product"`
	MarketPrice     float64             `json:"market_price_per_ton"`
	CompetitorPrice float64             `json:"competitor_price_per_ton"`
	Source          Source              `json:"source"`
	Entry           *models.MarketEntry `json:"entry,omitempty"`
}

// Lookup matches crop exactly against the entries' product names, first
// match wins. On a miss it synthesizes prices from priceEstimate and marks
// the quote as an estimate so reporting can distinguish the two.
func Lookup(entries []models.MarketEntry, crop string, priceEstimate float64) Quote {
	for i := range entries {
		if entries[i].Product == crop {
			return Quote{
				Product:         crop,
				MarketPrice:     entries[i].MarketPricePerTon,
				CompetitorPrice: entries[i].CompetitorPricePerTon,
				Source:          SourceMarket,
				Entry:           &entries[i],
			}
		}
	}
	return Quote{
		Product:         crop,
		MarketPrice:     priceEstimate * fallbackMarketFactor,
		CompetitorPrice: priceEstimate * fallbackCompetitorFactor,
		Source:          SourceEstimate,
	}
}

// TopByDemand returns the entry with the highest demand index, or false
// when the dataset is empty.
func TopByDemand(entries []models.MarketEntry) (models.MarketEntry, bool) {
	if len(entries) == 0 {
		return models.MarketEntry{}, false
	}
	best := entries[0]
	for _, e := range entries[1:] {
		if e.DemandIndex > best.DemandIndex {
			best = e
		}
	}
	return best, true
}
