package forest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fieldwise/cropadvisor/internal/models"
)

func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := WriteFixtureArtifacts(dir); err != nil {
		t.Fatalf("WriteFixtureArtifacts: %v", err)
	}
	return dir
}

func TestLoadRegressor_FixtureMean(t *testing.T) {
	dir := writeFixtures(t)
	r, err := LoadRegressor(filepath.Join(dir, YieldModelFile))
	if err != nil {
		t.Fatalf("LoadRegressor: %v", err)
	}

	if len(r.Features()) != len(models.FeatureColumns) {
		t.Fatalf("len(Features()) = %d, want %d", len(r.Features()), len(models.FeatureColumns))
	}

	// Rainfall 220 > 100 (tree 1 -> 4.2), pH 7.0 > 6.0 (tree 2 -> 3.6).
	x := []float64{7.0, 45, 26, 220, 130, 3}
	got := r.Predict(x)
	if got != 3.9 {
		t.Errorf("Predict = %v, want 3.9", got)
	}

	// Rainfall 50 <= 100 (1.8), pH 5.5 <= 6.0 (2.2).
	x = []float64{5.5, 45, 26, 50, 130, 3}
	if got := r.Predict(x); got != 2.0 {
		t.Errorf("Predict = %v, want 2.0", got)
	}
}

func TestLoadClassifier_MajorityVote(t *testing.T) {
	dir := writeFixtures(t)
	c, err := LoadClassifier(filepath.Join(dir, CropModelFile))
	if err != nil {
		t.Fatalf("LoadClassifier: %v", err)
	}
	if c.Classes() != 4 {
		t.Fatalf("Classes() = %d, want 4", c.Classes())
	}

	// moisture 45 -> 1, temp 26/rain 220 -> 1, pH 7.0 -> 1: unanimous Rice.
	if got := c.Predict([]float64{7.0, 45, 26, 220, 130, 3}); got != 1 {
		t.Errorf("Predict = %d, want 1", got)
	}

	// moisture 30 -> 3, temp 10 -> 3, pH 6.0 -> 2: majority 3 (Wheat).
	if got := c.Predict([]float64{6.0, 30, 10, 220, 130, 3}); got != 3 {
		t.Errorf("Predict = %d, want 3", got)
	}
}

func TestClassifier_TieBreaksLow(t *testing.T) {
	c := &Classifier{
		features: models.FeatureColumns,
		classes:  4,
		trees: []tree{
			{Nodes: []node{{Feature: -1, Value: 2}}},
			{Nodes: []node{{Feature: -1, Value: 1}}},
		},
	}
	if got := c.Predict(make([]float64, 6)); got != 1 {
		t.Errorf("Predict = %d, want 1 (lowest code on tie)", got)
	}
}

func TestLoadVocabulary(t *testing.T) {
	dir := writeFixtures(t)
	v, err := LoadVocabulary(filepath.Join(dir, CropLabelsFile))
	if err != nil {
		t.Fatalf("LoadVocabulary: %v", err)
	}

	if v.Size() != 4 {
		t.Fatalf("Size() = %d, want 4", v.Size())
	}
	name, ok := v.Name(1)
	if !ok || name != "Rice" {
		t.Errorf("Name(1) = %q, %v, want Rice, true", name, ok)
	}
	if _, ok := v.Name(4); ok {
		t.Error("Name(4) should be out of range")
	}
	if _, ok := v.Name(-1); ok {
		t.Error("Name(-1) should be out of range")
	}
	code, ok := v.Code("Wheat")
	if !ok || code != 3 {
		t.Errorf("Code(Wheat) = %d, %v, want 3, true", code, ok)
	}
}

func TestLoadArtifact_Validation(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	tests := []struct {
		name    string
		content string
	}{
		{"wrong kind", `{"kind":"classifier","features":["a"],"classes":2,"trees":[{"nodes":[{"feature":-1,"value":1}]}]}`},
		{"no trees", `{"kind":"regressor","features":["a"],"trees":[]}`},
		{"no features", `{"kind":"regressor","trees":[{"nodes":[{"feature":-1,"value":1}]}]}`},
		{"feature out of range", `{"kind":"regressor","features":["a"],"trees":[{"nodes":[{"feature":3,"threshold":1,"left":0,"right":0}]}]}`},
		{"bad json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := write("bad.json", tt.content)
			if _, err := LoadRegressor(path); err == nil {
				t.Error("expected load error")
			}
		})
	}
}
