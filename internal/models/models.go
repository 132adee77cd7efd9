package models

import "time"

// FeatureColumns is the canonical feature order shared by training and
// inference. Model artifacts are rejected if their feature list differs.
var FeatureColumns = []string{
	"Soil_pH",
	"Soil_Moisture",
	"Temperature_C",
	"Rainfall_mm",
	"Fertilizer_Usage_kg",
	"Pesticide_Usage_kg",
}

// FarmMeasurement is one farmer's observed conditions at a point in time.
// It is immutable and only ever persisted as part of a PredictionRecord.
type FarmMeasurement struct {
	SoilPH       float64
	SoilMoisture float64
	TemperatureC float64
	RainfallMM   float64
	FertilizerKg float64
	PesticideKg  float64
}

// Features returns the measurement as a vector in FeatureColumns order.
func (m FarmMeasurement) Features() []float64 {
	return []float64{
		m.SoilPH,
		m.SoilMoisture,
		m.TemperatureC,
		m.RainfallMM,
		m.FertilizerKg,
		m.PesticideKg,
	}
}

// PredictionRecord is a FarmMeasurement plus derived outputs and provenance.
// Records are append-only; RecordedAt is assigned by the store at insert time.
type PredictionRecord struct {
	ID int64
	FarmMeasurement
	CropType            string
	CropYieldTon        float64
	SustainabilityScore float64
	RecordedAt          time.Time
}

// MarketEntry is static reference data about a crop's market behaviour,
// bulk-loaded wholesale and read-only thereafter.
type MarketEntry struct {
	Product               string
	MarketPricePerTon     float64
	CompetitorPricePerTon float64
	DemandIndex           float64
	SupplyIndex           float64
	ConsumerTrendIndex    float64
}
