package tabular

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{" Soil pH ", "Soil_pH"},
		{"Soil-Moisture", "Soil_Moisture"},
		{"Temperature_C", "Temperature_C"},
		{"  Rainfall mm", "Rainfall_mm"},
		{"Fertilizer-Usage kg", "Fertilizer_Usage_kg"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeHeader(tt.in); got != tt.want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReadFrame_NormalizesHeaders(t *testing.T) {
	csv := " Soil pH ,Soil-Moisture,Temperature_C\n6.5,45,22.1\n7.0,38,25.0\n"
	f, err := ReadFrame(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}

	if f.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", f.Len())
	}
	for _, col := range []string{"Soil_pH", "Soil_Moisture", "Temperature_C"} {
		if !f.HasColumn(col) {
			t.Errorf("HasColumn(%q) = false, want true", col)
		}
	}

	v, err := f.Float(1, "Soil_pH")
	if err != nil {
		t.Fatalf("Float: %v", err)
	}
	if v != 7.0 {
		t.Errorf("Float(1, Soil_pH) = %v, want 7.0", v)
	}
}

func TestFrame_MissingColumn(t *testing.T) {
	f, err := ReadFrame(strings.NewReader("A,B\n1,2\n"))
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}

	_, err = f.Value(0, "Soil_pH")
	var mc *MissingColumnError
	if !errors.As(err, &mc) {
		t.Fatalf("expected MissingColumnError, got %v", err)
	}
	if mc.Column != "Soil_pH" {
		t.Errorf("Column = %q, want Soil_pH", mc.Column)
	}
}

func TestFrame_BadFloat(t *testing.T) {
	f, err := ReadFrame(strings.NewReader("A\nnot-a-number\n"))
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if _, err := f.Float(0, "A"); err == nil {
		t.Error("expected parse error for non-numeric cell")
	}
}

func TestLoadFrame_Missing(t *testing.T) {
	_, err := LoadFrame(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, ErrMissingDataset) {
		t.Fatalf("expected ErrMissingDataset, got %v", err)
	}
}

func TestReadFrame_Empty(t *testing.T) {
	if _, err := ReadFrame(strings.NewReader("")); err == nil {
		t.Error("expected error for empty input")
	}
}
