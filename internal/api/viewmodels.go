package api

import (
	"github.com/fieldwise/cropadvisor/internal/advisor"
	"github.com/fieldwise/cropadvisor/internal/market"
	"github.com/fieldwise/cropadvisor/internal/models"
)

// Page carries the fields every view needs.
type Page struct {
	Active View
	Title  string
}

// HomeData backs the landing view.
type HomeData struct {
	Page
	Predictions int64
	MarketRows  int
	Latest      *models.PredictionRecord
}

// AdviseData backs the measurement form, with sticky values and an optional
// validation error after a rejected submit.
type AdviseData struct {
	Page
	Form  map[string]string
	Error string
}

// ResultData backs the advisory result view for a stored prediction.
type ResultData struct {
	Page
	Record     models.PredictionRecord
	Prediction advisor.Prediction
	Advice     advisor.Advice
	Quote      market.Quote
	Narrative  string
}

// HistoryData backs the prediction history view.
type HistoryData struct {
	Page
	Records []models.PredictionRecord
}

// MarketData backs the market insights view. Missing reports that the
// reference dataset has not been loaded so the view shows a notice instead
// of tables and charts.
type MarketData struct {
	Page
	Entries []models.MarketEntry
	Top     *models.MarketEntry
	Missing bool
}
