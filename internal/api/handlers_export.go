package api

import (
	"encoding/csv"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

var historyHeader = []string{
	"id", "soil_ph", "soil_moisture", "temperature_c", "rainfall_mm",
	"fertilizer_usage_kg", "pesticide_usage_kg",
	"crop_type", "crop_yield_ton", "sustainability_score", "recorded_at",
}

var marketHeader = []string{
	"Product", "Market_Price_per_ton", "Competitor_Price_per_ton",
	"Demand_Index", "Supply_Index", "Consumer_Trend_Index",
}

func (s *Server) historyRows() ([][]any, error) {
	records, err := s.store.History()
	if err != nil {
		return nil, err
	}
	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []any{
			rec.ID, rec.SoilPH, rec.SoilMoisture, rec.TemperatureC, rec.RainfallMM,
			rec.FertilizerKg, rec.PesticideKg,
			rec.CropType, rec.CropYieldTon, rec.SustainabilityScore,
			rec.RecordedAt.Format(time.RFC3339),
		})
	}
	return rows, nil
}

func (s *Server) marketRows() ([][]any, error) {
	entries, err := s.store.MarketData()
	if err != nil {
		return nil, err
	}
	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []any{
			e.Product, e.MarketPricePerTon, e.CompetitorPricePerTon,
			e.DemandIndex, e.SupplyIndex, e.ConsumerTrendIndex,
		})
	}
	return rows, nil
}

func writeCSV(w http.ResponseWriter, filename string, header []string, rows [][]any) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	cw := csv.NewWriter(w)
	cw.Write(header)
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			switch x := v.(type) {
			case string:
				cells[i] = x
			case int64:
				cells[i] = strconv.FormatInt(x, 10)
			case float64:
				cells[i] = strconv.FormatFloat(x, 'f', -1, 64)
			}
		}
		cw.Write(cells)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		log.Printf("export %s: %v", filename, err)
	}
}

func writeXLSX(w http.ResponseWriter, filename, sheet string, header []string, rows [][]any) {
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		f.SetSheetName("Sheet1", sheet)
	}

	headerCells := make([]any, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := f.Write(w); err != nil {
		log.Printf("export %s: %v", filename, err)
	}
}

func (s *Server) handleHistoryCSV(w http.ResponseWriter, r *http.Request) {
	rows, err := s.historyRows()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeCSV(w, "prediction_history.csv", historyHeader, rows)
}

func (s *Server) handleHistoryXLSX(w http.ResponseWriter, r *http.Request) {
	rows, err := s.historyRows()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeXLSX(w, "prediction_history.xlsx", "History", historyHeader, rows)
}

func (s *Server) handleMarketCSV(w http.ResponseWriter, r *http.Request) {
	rows, err := s.marketRows()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeCSV(w, "market_data.csv", marketHeader, rows)
}

func (s *Server) handleMarketXLSX(w http.ResponseWriter, r *http.Request) {
	rows, err := s.marketRows()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeXLSX(w, "market_data.xlsx", "Market", marketHeader, rows)
}
