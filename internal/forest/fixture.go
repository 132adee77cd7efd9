package forest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fieldwise/cropadvisor/internal/models"
)

// Conventional artifact filenames within a models directory.
const (
	YieldModelFile          = "yield_model.json"
	SustainabilityModelFile = "sustainability_model.json"
	CropModelFile           = "crop_model.json"
	CropLabelsFile          = "crop_labels.json"
)

// WriteFixtureArtifacts writes a small deterministic artifact set so the
// demo and tests can run without output from the offline training pipeline.
// The trees are hand-built, not trained; predictions are stable.
func WriteFixtureArtifacts(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create models dir: %w", err)
	}

	leaf := func(v float64) node { return node{Feature: -1, Value: v} }
	split := func(feature int, threshold float64, left, right int) node {
		return node{Feature: feature, Threshold: threshold, Left: left, Right: right}
	}

	yield := artifact{
		Kind:     kindRegressor,
		Features: models.FeatureColumns,
		Trees: []tree{
			{Nodes: []node{split(3, 100, 1, 2), leaf(1.8), leaf(4.2)}},
			{Nodes: []node{split(0, 6.0, 1, 2), leaf(2.2), leaf(3.6)}},
		},
	}

	sustainability := artifact{
		Kind:     kindRegressor,
		Features: models.FeatureColumns,
		Trees: []tree{
			{Nodes: []node{split(4, 150, 1, 2), leaf(72), leaf(48)}},
			{Nodes: []node{split(5, 10, 1, 2), leaf(66), leaf(50)}},
		},
	}

	// Label codes: 0 Corn, 1 Rice, 2 Soybean, 3 Wheat.
	crop := artifact{
		Kind:     kindClassifier,
		Features: models.FeatureColumns,
		Classes:  4,
		Trees: []tree{
			{Nodes: []node{split(1, 40, 1, 2), leaf(3), leaf(1)}},
			{Nodes: []node{split(2, 18, 1, 2), leaf(3), split(3, 150, 3, 4), leaf(0), leaf(1)}},
			{Nodes: []node{split(0, 6.5, 1, 2), leaf(2), leaf(1)}},
		},
	}

	vocab := vocabularyFile{Labels: []string{"Corn", "Rice", "Soybean", "Wheat"}}

	files := map[string]any{
		YieldModelFile:          yield,
		SustainabilityModelFile: sustainability,
		CropModelFile:           crop,
		CropLabelsFile:          vocab,
	}
	for name, v := range files {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}
