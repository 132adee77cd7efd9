package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fieldwise/cropadvisor/internal/advisor"
	"github.com/fieldwise/cropadvisor/internal/market"
	"github.com/fieldwise/cropadvisor/internal/metrics"
	"github.com/fieldwise/cropadvisor/internal/models"
	"github.com/fieldwise/cropadvisor/internal/tabular"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	count, err := s.store.HistoryCount()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	entries, err := s.store.MarketData()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	latest, err := s.store.LatestPrediction()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.tmpl.render(w, "home.html", HomeData{
		Page:        Page{Active: ViewHome, Title: "CropAdvisor"},
		Predictions: count,
		MarketRows:  len(entries),
		Latest:      latest,
	})
}

// formFields maps form input names to measurement fields, in canonical
// column order so validation errors name columns the way the dataset does.
var formFields = []struct {
	name   string
	column string
	assign func(*models.FarmMeasurement, float64)
}{
	{"soil_ph", "Soil_pH", func(m *models.FarmMeasurement, v float64) { m.SoilPH = v }},
	{"soil_moisture", "Soil_Moisture", func(m *models.FarmMeasurement, v float64) { m.SoilMoisture = v }},
	{"temperature_c", "Temperature_C", func(m *models.FarmMeasurement, v float64) { m.TemperatureC = v }},
	{"rainfall_mm", "Rainfall_mm", func(m *models.FarmMeasurement, v float64) { m.RainfallMM = v }},
	{"fertilizer_usage_kg", "Fertilizer_Usage_kg", func(m *models.FarmMeasurement, v float64) { m.FertilizerKg = v }},
	{"pesticide_usage_kg", "Pesticide_Usage_kg", func(m *models.FarmMeasurement, v float64) { m.PesticideKg = v }},
}

func measurementFromForm(r *http.Request) (models.FarmMeasurement, error) {
	var m models.FarmMeasurement
	for _, f := range formFields {
		raw := strings.TrimSpace(r.FormValue(f.name))
		if raw == "" {
			return m, &tabular.MissingColumnError{Column: f.column}
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return m, fmt.Errorf("field %s: %q is not numeric", f.column, raw)
		}
		f.assign(&m, v)
	}
	return m, nil
}

func (s *Server) handleAdvise(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		s.tmpl.render(w, "advise.html", AdviseData{
			Page: Page{Active: ViewAdvise, Title: "Predict Crop Advice"},
		})
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	measurement, err := measurementFromForm(r)
	if err != nil {
		form := make(map[string]string, len(formFields))
		for _, f := range formFields {
			form[f.name] = r.FormValue(f.name)
		}
		w.WriteHeader(http.StatusBadRequest)
		s.tmpl.render(w, "advise.html", AdviseData{
			Page:  Page{Active: ViewAdvise, Title: "Predict Crop Advice"},
			Form:  form,
			Error: err.Error(),
		})
		return
	}

	result, err := s.runAdvisory(r.Context(), measurement)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.tmpl.render(w, "result.html", *result)
}

// runAdvisory is the submission pipeline: predict, advise, market lookup,
// persist, in that order. The optional narrative comes last and never fails
// the request.
func (s *Server) runAdvisory(ctx context.Context, m models.FarmMeasurement) (*ResultData, error) {
	prediction := s.advisor.Predict(m)
	metrics.PredictionsTotal.WithLabelValues(strconv.FormatBool(prediction.CropKnown)).Inc()
	if !prediction.CropKnown {
		metrics.UnknownLabelsTotal.Inc()
	}

	advice := advisor.Advise(m)

	entries, err := s.store.MarketData()
	if err != nil {
		return nil, fmt.Errorf("load market data: %w", err)
	}
	quote := market.Lookup(entries, prediction.Crop, prediction.PriceEstimate)
	metrics.MarketLookupsTotal.WithLabelValues(string(quote.Source)).Inc()

	record := models.PredictionRecord{
		FarmMeasurement:     m,
		CropType:            prediction.Crop,
		CropYieldTon:        prediction.YieldTon,
		SustainabilityScore: prediction.Sustainability,
	}
	id, err := s.store.InsertPrediction(record)
	if err != nil {
		return nil, fmt.Errorf("persist prediction: %w", err)
	}
	record.ID = id

	var text string
	if s.narrative != nil {
		nctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if t, err := s.narrative.Generate(nctx, prediction, advice, quote); err != nil {
			log.Printf("narrative: %v", err)
		} else {
			text = t
		}
	}

	return &ResultData{
		Page:       Page{Active: ViewAdvise, Title: "Advisory Result"},
		Record:     record,
		Prediction: prediction,
		Advice:     advice,
		Quote:      quote,
		Narrative:  text,
	}, nil
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.History()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.tmpl.render(w, "history.html", HistoryData{
		Page:    Page{Active: ViewHistory, Title: "Prediction History"},
		Records: records,
	})
}

func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.MarketData()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := MarketData{
		Page:    Page{Active: ViewMarket, Title: "Market Insights"},
		Entries: entries,
		Missing: len(entries) == 0,
	}
	if top, ok := market.TopByDemand(entries); ok {
		data.Top = &top
	}
	s.tmpl.render(w, "market.html", data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	count, err := s.store.HistoryCount()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
		return
	}
	entries, err := s.store.MarketData()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
		return
	}

	json.NewEncoder(w).Encode(map[string]any{
		"status":            "ok",
		"predictions":       count,
		"market_rows":       len(entries),
		"narrative_enabled": s.narrative != nil,
	})
}
