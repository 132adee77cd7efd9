package advisor

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fieldwise/cropadvisor/internal/forest"
	"github.com/fieldwise/cropadvisor/internal/models"
	"github.com/fieldwise/cropadvisor/internal/tabular"
)

func fixtureService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	if err := forest.WriteFixtureArtifacts(dir); err != nil {
		t.Fatalf("WriteFixtureArtifacts: %v", err)
	}
	svc, err := LoadService(dir)
	if err != nil {
		t.Fatalf("LoadService: %v", err)
	}
	return svc
}

var sampleMeasurement = models.FarmMeasurement{
	SoilPH:       7.0,
	SoilMoisture: 45.0,
	TemperatureC: 26.0,
	RainfallMM:   220.0,
	FertilizerKg: 130.0,
	PesticideKg:  3.0,
}

func TestPredict_AllFieldsPopulated(t *testing.T) {
	svc := fixtureService(t)

	p := svc.Predict(sampleMeasurement)

	if p.Crop == "" {
		t.Error("Crop is empty")
	}
	if !p.CropKnown {
		t.Errorf("CropKnown = false for in-vocabulary code %d", p.CropCode)
	}
	if p.YieldTon == 0 {
		t.Error("YieldTon is zero")
	}
	if p.Sustainability == 0 {
		t.Error("Sustainability is zero")
	}

	wantPrice := p.YieldTon * PricePerYieldTon
	if math.Abs(p.PriceEstimate-wantPrice) > 1e-9 {
		t.Errorf("PriceEstimate = %v, want %v", p.PriceEstimate, wantPrice)
	}
}

func TestPredict_FixtureValues(t *testing.T) {
	svc := fixtureService(t)

	p := svc.Predict(sampleMeasurement)

	if p.Crop != "Rice" {
		t.Errorf("Crop = %q, want Rice", p.Crop)
	}
	if p.YieldTon != 3.9 {
		t.Errorf("YieldTon = %v, want 3.9", p.YieldTon)
	}
	if p.Sustainability != 69.0 {
		t.Errorf("Sustainability = %v, want 69.0", p.Sustainability)
	}
}

// A classifier trained against more classes than the vocabulary knows must
// degrade to a labelled placeholder, not fail the request.
func TestPredict_UnknownCrop(t *testing.T) {
	dir := t.TempDir()
	if err := forest.WriteFixtureArtifacts(dir); err != nil {
		t.Fatal(err)
	}

	features, _ := json.Marshal(models.FeatureColumns)
	cropArtifact := `{"kind":"classifier","features":` + string(features) + `,"classes":8,` +
		`"trees":[{"nodes":[{"feature":-1,"value":7}]}]}`
	if err := os.WriteFile(filepath.Join(dir, forest.CropModelFile), []byte(cropArtifact), 0644); err != nil {
		t.Fatal(err)
	}

	svc, err := LoadService(dir)
	if err != nil {
		t.Fatalf("LoadService: %v", err)
	}

	p := svc.Predict(sampleMeasurement)
	if p.CropKnown {
		t.Error("CropKnown = true for out-of-vocabulary code")
	}
	if p.Crop != "Unknown Crop (Code: 7)" {
		t.Errorf("Crop = %q, want Unknown Crop (Code: 7)", p.Crop)
	}
	if p.CropCode != 7 {
		t.Errorf("CropCode = %d, want 7", p.CropCode)
	}
}

func TestNewService_RejectsFeatureMismatch(t *testing.T) {
	dir := t.TempDir()
	if err := forest.WriteFixtureArtifacts(dir); err != nil {
		t.Fatal(err)
	}

	bad := `{"kind":"regressor","features":["Soil_pH"],"trees":[{"nodes":[{"feature":-1,"value":1}]}]}`
	if err := os.WriteFile(filepath.Join(dir, forest.YieldModelFile), []byte(bad), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadService(dir); err == nil {
		t.Error("expected feature-mismatch error")
	}
}

func TestMeasurementFromFrame(t *testing.T) {
	csv := " Soil pH ,Soil-Moisture,Temperature_C,Rainfall_mm,Fertilizer_Usage_kg,Pesticide_Usage_kg\n" +
		"6.5,38,22,140,120,8\n"
	f, err := tabular.ReadFrame(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}

	m, err := MeasurementFromFrame(f, 0)
	if err != nil {
		t.Fatalf("MeasurementFromFrame: %v", err)
	}
	if m.SoilPH != 6.5 || m.SoilMoisture != 38 || m.PesticideKg != 8 {
		t.Errorf("unexpected measurement: %+v", m)
	}
}

func TestMeasurementFromFrame_MissingColumn(t *testing.T) {
	f, err := tabular.ReadFrame(strings.NewReader("Soil_pH\n6.5\n"))
	if err != nil {
		t.Fatal(err)
	}

	_, err = MeasurementFromFrame(f, 0)
	if err == nil {
		t.Fatal("expected error for missing columns")
	}
	if !strings.Contains(err.Error(), "Soil_Moisture") {
		t.Errorf("error %q does not name the missing column", err)
	}
}
