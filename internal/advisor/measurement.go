package advisor

import (
	"github.com/fieldwise/cropadvisor/internal/models"
	"github.com/fieldwise/cropadvisor/internal/tabular"
)

// MeasurementFromFrame builds a measurement from row i of a normalized
// frame. All six canonical columns must be present and numeric; a missing
// column is a hard error naming the column.
func MeasurementFromFrame(f *tabular.Frame, i int) (models.FarmMeasurement, error) {
	var m models.FarmMeasurement
	fields := []struct {
		column string
		dst    *float64
	}{
		{"Soil_pH", &m.SoilPH},
		{"Soil_Moisture", &m.SoilMoisture},
		{"Temperature_C", &m.TemperatureC},
		{"Rainfall_mm", &m.RainfallMM},
		{"Fertilizer_Usage_kg", &m.FertilizerKg},
		{"Pesticide_Usage_kg", &m.PesticideKg},
	}
	for _, field := range fields {
		v, err := f.Float(i, field.column)
		if err != nil {
			return models.FarmMeasurement{}, err
		}
		*field.dst = v
	}
	return m, nil
}
