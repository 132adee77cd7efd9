package api

import (
	"encoding/json"
	"net/http"

	"github.com/fieldwise/cropadvisor/internal/advisor"
	"github.com/fieldwise/cropadvisor/internal/market"
	"github.com/fieldwise/cropadvisor/internal/models"
)

type predictRequest struct {
	SoilPH       *float64 `json:"soil_ph"`
	SoilMoisture *float64 `json:"soil_moisture"`
	TemperatureC *float64 `json:"temperature_c"`
	RainfallMM   *float64 `json:"rainfall_mm"`
	FertilizerKg *float64 `json:"fertilizer_usage_kg"`
	PesticideKg  *float64 `json:"pesticide_usage_kg"`
}

type predictResponse struct {
	RecordID   int64              `json:"record_id"`
	Prediction advisor.Prediction `json:"prediction"`
	Advice     advisor.Advice     `json:"advice"`
	Quote      market.Quote       `json:"quote"`
	Narrative  string             `json:"narrative,omitempty"`
}

func (s *Server) handleAPIPredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	fields := []struct {
		column string
		value  *float64
	}{
		{"Soil_pH", req.SoilPH},
		{"Soil_Moisture", req.SoilMoisture},
		{"Temperature_C", req.TemperatureC},
		{"Rainfall_mm", req.RainfallMM},
		{"Fertilizer_Usage_kg", req.FertilizerKg},
		{"Pesticide_Usage_kg", req.PesticideKg},
	}
	for _, f := range fields {
		if f.value == nil {
			http.Error(w, `missing column "`+f.column+`"`, http.StatusBadRequest)
			return
		}
	}

	m := models.FarmMeasurement{
		SoilPH:       *req.SoilPH,
		SoilMoisture: *req.SoilMoisture,
		TemperatureC: *req.TemperatureC,
		RainfallMM:   *req.RainfallMM,
		FertilizerKg: *req.FertilizerKg,
		PesticideKg:  *req.PesticideKg,
	}

	result, err := s.runAdvisory(r.Context(), m)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(predictResponse{
		RecordID:   result.Record.ID,
		Prediction: result.Prediction,
		Advice:     result.Advice,
		Quote:      result.Quote,
		Narrative:  result.Narrative,
	})
}

func (s *Server) handleAPIHistory(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.History()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []models.PredictionRecord{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

func (s *Server) handleAPIMarket(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.MarketData()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.MarketEntry{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}
