package advisor

import "github.com/fieldwise/cropadvisor/internal/models"

const (
	// Soil moisture at or above this allows flood irrigation.
	floodIrrigationThreshold = 40.0
	// Fertilizer above this triggers the reduction tip.
	fertilizerOptimalMax = 150.0
)

const (
	adviceDripIrrigation    = "Use drip irrigation to conserve water."
	adviceFloodIrrigation   = "Flood irrigation may be used."
	adviceReduceFertilizer  = "Reduce fertilizer usage for sustainability."
	adviceFertilizerOptimal = "Fertilizer usage is optimal."
)

// Advice is the fixed-rule husbandry guidance for a measurement.
type Advice struct {
	Irrigation    string `json:"irrigation_advice"`
	FertilizerTip string `json:"fertilizer_tip"`
}

// Advise maps measurement thresholds to canned advice strings. Deterministic
// and total; the thresholds are fixed constants, not configuration.
func Advise(m models.FarmMeasurement) Advice {
	a := Advice{
		Irrigation:    adviceFloodIrrigation,
		FertilizerTip: adviceFertilizerOptimal,
	}
	if m.SoilMoisture < floodIrrigationThreshold {
		a.Irrigation = adviceDripIrrigation
	}
	if m.FertilizerKg > fertilizerOptimalMax {
		a.FertilizerTip = adviceReduceFertilizer
	}
	return a
}
