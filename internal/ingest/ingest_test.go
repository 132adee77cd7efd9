package ingest

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fieldwise/cropadvisor/internal/tabular"
)

const marketCSV = "Product,Market_Price_per_ton,Competitor_Price_per_ton,Demand_Index,Supply_Index,Consumer_Trend_Index\n" +
	"Rice,310.5,295.0,82,60,71\n" +
	"Wheat,240.0,250.5,91,65,55\n"

func TestReadMarketCSV(t *testing.T) {
	entries, err := ReadMarketCSV(strings.NewReader(marketCSV))
	if err != nil {
		t.Fatalf("ReadMarketCSV: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Product != "Rice" || entries[0].MarketPricePerTon != 310.5 {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].DemandIndex != 91 {
		t.Errorf("entries[1].DemandIndex = %v, want 91", entries[1].DemandIndex)
	}
}

func TestReadMarketCSV_MessyHeaders(t *testing.T) {
	csv := " Product ,Market-Price per ton,Competitor_Price_per_ton,Demand_Index,Supply_Index,Consumer_Trend_Index\n" +
		"Corn,200,195,88,50,62\n"
	entries, err := ReadMarketCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadMarketCSV: %v", err)
	}
	if entries[0].MarketPricePerTon != 200 {
		t.Errorf("MarketPricePerTon = %v, want 200", entries[0].MarketPricePerTon)
	}
}

func TestReadMarketCSV_HeaderContract(t *testing.T) {
	csv := "Product,Market_Price_per_ton\nRice,310\n"
	_, err := ReadMarketCSV(strings.NewReader(csv))

	var mc *tabular.MissingColumnError
	if !errors.As(err, &mc) {
		t.Fatalf("expected MissingColumnError, got %v", err)
	}
	if mc.Column != "Competitor_Price_per_ton" {
		t.Errorf("Column = %q, want Competitor_Price_per_ton", mc.Column)
	}
}

func TestLoadMarketCSV_Missing(t *testing.T) {
	_, err := LoadMarketCSV("does/not/exist.csv")
	if !errors.Is(err, tabular.ErrMissingDataset) {
		t.Fatalf("expected ErrMissingDataset, got %v", err)
	}
}

func TestHTTPSource_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(marketCSV))
	}))
	defer srv.Close()

	entries, err := NewHTTPSource(srv.URL).Fetch()
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
}

func TestHTTPSource_RetriesTransient(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(marketCSV))
	}))
	defer srv.Close()

	entries, err := NewHTTPSource(srv.URL).Fetch()
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if calls.Load() < 2 {
		t.Errorf("calls = %d, expected a retry", calls.Load())
	}
}

func TestHTTPSource_PermanentOn404(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := NewHTTPSource(srv.URL).Fetch(); err == nil {
		t.Fatal("expected error for 404")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, 404 must not be retried", calls.Load())
	}
}
