package market

import (
	"math"
	"testing"

	"github.com/fieldwise/cropadvisor/internal/models"
)

var entries = []models.MarketEntry{
	{Product: "Rice", MarketPricePerTon: 310, CompetitorPricePerTon: 295, DemandIndex: 82},
	{Product: "Wheat", MarketPricePerTon: 240, CompetitorPricePerTon: 250, DemandIndex: 91},
	{Product: "Wheat", MarketPricePerTon: 999, CompetitorPricePerTon: 999, DemandIndex: 1},
}

func TestLookup_Hit(t *testing.T) {
	q := Lookup(entries, "Rice", 500)

	if q.Source != SourceMarket {
		t.Errorf("Source = %q, want market", q.Source)
	}
	if q.MarketPrice != 310 || q.CompetitorPrice != 295 {
		t.Errorf("prices = %v/%v, want 310/295", q.MarketPrice, q.CompetitorPrice)
	}
	if q.Entry == nil || q.Entry.DemandIndex != 82 {
		t.Error("Entry not attached on a hit")
	}
}

func TestLookup_FirstMatchWins(t *testing.T) {
	q := Lookup(entries, "Wheat", 0)
	if q.MarketPrice != 240 {
		t.Errorf("MarketPrice = %v, want first match 240", q.MarketPrice)
	}
}

func TestLookup_Fallback(t *testing.T) {
	est := 637.65
	q := Lookup(entries, "Dragonfruit", est)

	if q.Source != SourceEstimate {
		t.Errorf("Source = %q, want estimate", q.Source)
	}
	if math.Abs(q.MarketPrice-est*1.10) > 1e-9 {
		t.Errorf("MarketPrice = %v, want %v", q.MarketPrice, est*1.10)
	}
	if math.Abs(q.CompetitorPrice-est*0.95) > 1e-9 {
		t.Errorf("CompetitorPrice = %v, want %v", q.CompetitorPrice, est*0.95)
	}
	if q.Entry != nil {
		t.Error("Entry should be nil on fallback")
	}
}

func TestTopByDemand(t *testing.T) {
	top, ok := TopByDemand(entries)
	if !ok {
		t.Fatal("TopByDemand returned false")
	}
	if top.Product != "Wheat" || top.DemandIndex != 91 {
		t.Errorf("top = %q (%v), want Wheat (91)", top.Product, top.DemandIndex)
	}

	if _, ok := TopByDemand(nil); ok {
		t.Error("TopByDemand(nil) should return false")
	}
}
