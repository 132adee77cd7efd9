package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/fieldwise/cropadvisor/internal/advisor"
	"github.com/fieldwise/cropadvisor/internal/chart"
	"github.com/fieldwise/cropadvisor/internal/market"
	"github.com/fieldwise/cropadvisor/internal/models"
)

// recordFromChartPath resolves "/charts/<kind>/<id>.png" to a stored record.
func (s *Server) recordFromChartPath(w http.ResponseWriter, r *http.Request, prefix string) *models.PredictionRecord {
	name := strings.TrimPrefix(r.URL.Path, prefix)
	name = strings.TrimSuffix(name, ".png")
	id, err := strconv.ParseInt(name, 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return nil
	}

	rec, err := s.store.GetPrediction(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil
	}
	if rec == nil {
		http.NotFound(w, r)
		return nil
	}
	return rec
}

// quoteForRecord rebuilds the market quote for a stored record. The price
// estimate is the fixed transform of yield, so it reproduces exactly.
func (s *Server) quoteForRecord(rec *models.PredictionRecord) (market.Quote, error) {
	entries, err := s.store.MarketData()
	if err != nil {
		return market.Quote{}, err
	}
	return market.Lookup(entries, rec.CropType, rec.CropYieldTon*advisor.PricePerYieldTon), nil
}

func writeChart(w http.ResponseWriter, data []byte, err error) {
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(data)
}

func (s *Server) handleBreakdownChart(w http.ResponseWriter, r *http.Request) {
	rec := s.recordFromChartPath(w, r, "/charts/breakdown/")
	if rec == nil {
		return
	}

	data, err := chart.Render("Prediction Breakdown", []chart.Bar{
		{Label: "Yield (tons)", Value: rec.CropYieldTon},
		{Label: "Sustainability", Value: rec.SustainabilityScore, Series: 1},
		{Label: "Soil Moisture", Value: rec.SoilMoisture, Series: 2},
		{Label: "Fertilizer (kg)", Value: rec.FertilizerKg, Series: 3},
		{Label: "Pesticide (kg)", Value: rec.PesticideKg, Series: 4},
	})
	writeChart(w, data, err)
}

func (s *Server) handlePriceChart(w http.ResponseWriter, r *http.Request) {
	rec := s.recordFromChartPath(w, r, "/charts/price/")
	if rec == nil {
		return
	}
	quote, err := s.quoteForRecord(rec)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	estimate := rec.CropYieldTon * advisor.PricePerYieldTon
	data, err := chart.Render("Price Comparison (per ton)", []chart.Bar{
		{Label: "Estimated", Value: estimate},
		{Label: "Market", Value: quote.MarketPrice, Series: 1},
		{Label: "Competitor", Value: quote.CompetitorPrice, Series: 2},
	})
	writeChart(w, data, err)
}

func (s *Server) handleProfitChart(w http.ResponseWriter, r *http.Request) {
	rec := s.recordFromChartPath(w, r, "/charts/profit/")
	if rec == nil {
		return
	}
	quote, err := s.quoteForRecord(rec)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	estimate := rec.CropYieldTon * advisor.PricePerYieldTon
	data, err := chart.Render("Profit Estimator (Total Revenue)", []chart.Bar{
		{Label: "Estimated", Value: rec.CropYieldTon * estimate},
		{Label: "Market", Value: rec.CropYieldTon * quote.MarketPrice, Series: 1},
		{Label: "Competitor", Value: rec.CropYieldTon * quote.CompetitorPrice, Series: 2},
	})
	writeChart(w, data, err)
}

func (s *Server) handleMarketChart(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.MarketData()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	bars := make([]chart.Bar, 0, len(entries))
	for i, e := range entries {
		bars = append(bars, chart.Bar{Label: e.Product, Value: e.MarketPricePerTon, Series: i})
	}
	data, err := chart.Render("Market Price by Product", bars)
	writeChart(w, data, err)
}

func (s *Server) handleDemandChart(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.MarketData()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	bars := make([]chart.Bar, 0, len(entries)*2)
	for _, e := range entries {
		bars = append(bars, chart.Bar{Label: e.Product, Value: e.DemandIndex})
		bars = append(bars, chart.Bar{Label: "supply", Value: e.SupplyIndex, Series: 1})
	}
	data, err := chart.Render("Demand vs Supply", bars)
	writeChart(w, data, err)
}
