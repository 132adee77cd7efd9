// Package advisor turns a farm measurement into crop, yield, sustainability
// and pricing outputs, plus fixed-rule husbandry advice.
package advisor

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/fieldwise/cropadvisor/internal/forest"
	"github.com/fieldwise/cropadvisor/internal/models"
)

// PricePerYieldTon converts predicted yield to a price estimate. This is a
// fixed placeholder heuristic, not a learned value.
const PricePerYieldTon = 163.5

// Prediction is the combined output of the three models for one measurement.
type Prediction struct {
	Crop           string  `json:"crop"`
	CropCode       int     `json:"crop_code"`
	CropKnown      bool    `json:"crop_known"`
	YieldTon       float64 `json:"yield_ton"`
	Sustainability float64 `json:"sustainability"`
	PriceEstimate  float64 `json:"price_estimate"`
}

// Service holds the process-wide read-only model handles. Models are loaded
// once at startup and injected here rather than kept in mutable globals.
type Service struct {
	yield          *forest.Regressor
	sustainability *forest.Regressor
	crop           *forest.Classifier
	vocab          *forest.Vocabulary
}

// NewService wires pre-loaded models into a prediction service. Every model
// must have been trained against the canonical feature columns; a mismatch
// means the artifact set is inconsistent and is rejected here.
func NewService(yield, sustainability *forest.Regressor, crop *forest.Classifier, vocab *forest.Vocabulary) (*Service, error) {
	for name, features := range map[string][]string{
		"yield model":          yield.Features(),
		"sustainability model": sustainability.Features(),
		"crop model":           crop.Features(),
	} {
		if !slices.Equal(features, models.FeatureColumns) {
			return nil, fmt.Errorf("%s features %v do not match %v", name, features, models.FeatureColumns)
		}
	}
	return &Service{yield: yield, sustainability: sustainability, crop: crop, vocab: vocab}, nil
}

// LoadService loads the three model artifacts plus label vocabulary from a
// directory using the conventional filenames.
func LoadService(dir string) (*Service, error) {
	yield, err := forest.LoadRegressor(filepath.Join(dir, forest.YieldModelFile))
	if err != nil {
		return nil, fmt.Errorf("load yield model: %w", err)
	}
	sustainability, err := forest.LoadRegressor(filepath.Join(dir, forest.SustainabilityModelFile))
	if err != nil {
		return nil, fmt.Errorf("load sustainability model: %w", err)
	}
	crop, err := forest.LoadClassifier(filepath.Join(dir, forest.CropModelFile))
	if err != nil {
		return nil, fmt.Errorf("load crop model: %w", err)
	}
	vocab, err := forest.LoadVocabulary(filepath.Join(dir, forest.CropLabelsFile))
	if err != nil {
		return nil, fmt.Errorf("load crop labels: %w", err)
	}
	return NewService(yield, sustainability, crop, vocab)
}

// Predict runs the three models over one measurement. The models are
// mutually independent; no ordering matters. A classifier code outside the
// vocabulary degrades to a labelled placeholder rather than failing the
// request. Predict never touches external state.
func (s *Service) Predict(m models.FarmMeasurement) Prediction {
	x := m.Features()

	p := Prediction{
		YieldTon:       s.yield.Predict(x),
		Sustainability: s.sustainability.Predict(x),
		CropCode:       s.crop.Predict(x),
	}
	p.PriceEstimate = p.YieldTon * PricePerYieldTon

	if name, ok := s.vocab.Name(p.CropCode); ok {
		p.Crop = name
		p.CropKnown = true
	} else {
		p.Crop = fmt.Sprintf("Unknown Crop (Code: %d)", p.CropCode)
	}
	return p
}

// Vocabulary exposes the label vocabulary backing the crop classifier.
func (s *Service) Vocabulary() *forest.Vocabulary {
	return s.vocab
}
