package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fieldwise/cropadvisor/internal/advisor"
	"github.com/fieldwise/cropadvisor/internal/narrative"
	"github.com/fieldwise/cropadvisor/internal/store"
)

// View enumerates the navigable dashboard views. Each view has exactly one
// route; dispatch is by route, never by a string-keyed tab value.
type View string

const (
	ViewHome    View = "home"
	ViewAdvise  View = "advise"
	ViewHistory View = "history"
	ViewMarket  View = "market"
)

type Server struct {
	store     *store.Store
	advisor   *advisor.Service
	narrative *narrative.Generator
	port      string
	tmpl      *templates
}

// NewServer wires the dashboard over the store and prediction service. The
// narrative generator is optional; without an API key the views simply omit
// the narrative section.
func NewServer(st *store.Store, svc *advisor.Service, port string) *Server {
	var gen *narrative.Generator
	if g, err := narrative.NewGenerator("data/narratives"); err != nil {
		log.Printf("Advisory narratives disabled: %v", err)
	} else {
		gen = g
	}

	return &Server{
		store:     st,
		advisor:   svc,
		narrative: gen,
		port:      port,
		tmpl:      newTemplates(),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHome)
	mux.HandleFunc("/advise", s.handleAdvise)
	mux.HandleFunc("/history", s.handleHistory)
	mux.HandleFunc("/market", s.handleMarket)
	mux.HandleFunc("/charts/breakdown/", s.handleBreakdownChart)
	mux.HandleFunc("/charts/price/", s.handlePriceChart)
	mux.HandleFunc("/charts/profit/", s.handleProfitChart)
	mux.HandleFunc("/charts/market.png", s.handleMarketChart)
	mux.HandleFunc("/charts/demand.png", s.handleDemandChart)
	mux.HandleFunc("/export/history.csv", s.handleHistoryCSV)
	mux.HandleFunc("/export/history.xlsx", s.handleHistoryXLSX)
	mux.HandleFunc("/export/market.csv", s.handleMarketCSV)
	mux.HandleFunc("/export/market.xlsx", s.handleMarketXLSX)
	mux.HandleFunc("/api/predict", s.handleAPIPredict)
	mux.HandleFunc("/api/history", s.handleAPIHistory)
	mux.HandleFunc("/api/market", s.handleAPIMarket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
