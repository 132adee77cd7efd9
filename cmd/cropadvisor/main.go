package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/fieldwise/cropadvisor/internal/advisor"
	"github.com/fieldwise/cropadvisor/internal/api"
	"github.com/fieldwise/cropadvisor/internal/forest"
	"github.com/fieldwise/cropadvisor/internal/ingest"
	"github.com/fieldwise/cropadvisor/internal/models"
	"github.com/fieldwise/cropadvisor/internal/store"
	"github.com/fieldwise/cropadvisor/internal/tabular"
)

type CLI struct {
	DB     string `help:"Path to SQLite database." default:"data/cropadvisor.db" env:"CROPADVISOR_DB"`
	Models string `help:"Directory containing model artifacts." default:"ml/models" env:"CROPADVISOR_MODELS"`

	Serve         ServeCmd         `cmd:"" default:"withargs" help:"Run the dashboard server."`
	Predict       PredictCmd       `cmd:"" help:"Run a single prediction and print the advice."`
	PredictFile   PredictFileCmd   `cmd:"" help:"Predict every measurement row in a CSV file."`
	LoadMarket    LoadMarketCmd    `cmd:"" help:"Replace the market table from a CSV source."`
	ExportFixture ExportFixtureCmd `cmd:"" help:"Write deterministic demo model artifacts."`
}

func openStore(path string) (*store.Store, *sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return st, db, nil
}

type ServeCmd struct {
	Port      string `help:"HTTP server port." default:"8080" env:"PORT"`
	MarketCSV string `help:"Market reference dataset to load on start." default:"data/market_researcher_dataset.csv" env:"MARKET_CSV"`
}

func (c *ServeCmd) Run(cli *CLI) error {
	st, db, err := openStore(cli.DB)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Println("database migrated")

	entries, err := ingest.LoadMarketCSV(c.MarketCSV)
	switch {
	case errors.Is(err, tabular.ErrMissingDataset):
		log.Printf("market dataset %s not found, skipping market data population", c.MarketCSV)
	case err != nil:
		return fmt.Errorf("load market dataset: %w", err)
	default:
		if err := st.ReplaceMarketData(entries); err != nil {
			return fmt.Errorf("populate market data: %w", err)
		}
		log.Printf("market data populated (%d products)", len(entries))
	}

	svc, err := advisor.LoadService(cli.Models)
	if err != nil {
		return fmt.Errorf("load models: %w", err)
	}
	log.Printf("models loaded from %s (%d crop labels)", cli.Models, svc.Vocabulary().Size())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	server := api.NewServer(st, svc, c.Port)
	log.Printf("starting server on :%s", c.Port)
	return server.Run(ctx)
}

type PredictCmd struct {
	SoilPH       float64 `help:"Soil pH." required:""`
	SoilMoisture float64 `help:"Soil moisture percentage." required:""`
	Temperature  float64 `help:"Temperature in Celsius." required:""`
	Rainfall     float64 `help:"Rainfall in millimetres." required:""`
	Fertilizer   float64 `help:"Fertilizer usage in kilograms." required:""`
	Pesticide    float64 `help:"Pesticide usage in kilograms." required:""`
}

func (c *PredictCmd) Run(cli *CLI) error {
	svc, err := advisor.LoadService(cli.Models)
	if err != nil {
		return fmt.Errorf("load models: %w", err)
	}

	m := models.FarmMeasurement{
		SoilPH:       c.SoilPH,
		SoilMoisture: c.SoilMoisture,
		TemperatureC: c.Temperature,
		RainfallMM:   c.Rainfall,
		FertilizerKg: c.Fertilizer,
		PesticideKg:  c.Pesticide,
	}

	p := svc.Predict(m)
	a := advisor.Advise(m)

	fmt.Println("FINAL ADVICE")
	fmt.Printf("recommended_crop: %s\n", p.Crop)
	fmt.Printf("expected_yield: %.2f\n", p.YieldTon)
	fmt.Printf("price_estimate: %.2f\n", p.PriceEstimate)
	fmt.Printf("sustainability_score: %.2f\n", p.Sustainability)
	fmt.Printf("irrigation_advice: %s\n", a.Irrigation)
	fmt.Printf("fertilizer_tip: %s\n", a.FertilizerTip)
	return nil
}

type PredictFileCmd struct {
	Path string `arg:"" help:"CSV file with one measurement per row."`
}

func (c *PredictFileCmd) Run(cli *CLI) error {
	svc, err := advisor.LoadService(cli.Models)
	if err != nil {
		return fmt.Errorf("load models: %w", err)
	}

	frame, err := tabular.LoadFrame(c.Path)
	if err != nil {
		return fmt.Errorf("load measurements: %w", err)
	}

	for i := 0; i < frame.Len(); i++ {
		m, err := advisor.MeasurementFromFrame(frame, i)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		p := svc.Predict(m)
		a := advisor.Advise(m)
		fmt.Printf("%d\t%s\t%.2f\t%.2f\t%.2f\t%s | %s\n",
			i+1, p.Crop, p.YieldTon, p.PriceEstimate, p.Sustainability, a.Irrigation, a.FertilizerTip)
	}
	return nil
}

type LoadMarketCmd struct {
	CSV     string `help:"Local CSV path." default:"data/market_researcher_dataset.csv"`
	URL     string `help:"Fetch the dataset over HTTP instead of from disk."`
	FTPHost string `help:"Fetch the dataset from an FTP mirror (host:port)."`
	FTPPath string `help:"Remote file path on the FTP mirror."`
}

func (c *LoadMarketCmd) Run(cli *CLI) error {
	var entries []models.MarketEntry
	var err error
	switch {
	case c.URL != "":
		entries, err = ingest.NewHTTPSource(c.URL).Fetch()
	case c.FTPHost != "":
		if c.FTPPath == "" {
			return errors.New("--ftp-path is required with --ftp-host")
		}
		entries, err = ingest.NewFTPSource(c.FTPHost, c.FTPPath).Fetch()
	default:
		entries, err = ingest.LoadMarketCSV(c.CSV)
	}
	if err != nil {
		return fmt.Errorf("fetch market dataset: %w", err)
	}

	st, db, openErr := openStore(cli.DB)
	if openErr != nil {
		return openErr
	}
	defer db.Close()

	if err := st.ReplaceMarketData(entries); err != nil {
		return fmt.Errorf("replace market data: %w", err)
	}
	log.Printf("market data replaced (%d products)", len(entries))
	return nil
}

type ExportFixtureCmd struct {
	Dir string `help:"Destination directory for the artifacts." default:"ml/models"`
}

func (c *ExportFixtureCmd) Run(cli *CLI) error {
	if err := forest.WriteFixtureArtifacts(c.Dir); err != nil {
		return err
	}
	log.Printf("fixture artifacts written to %s", c.Dir)
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("cropadvisor"),
		kong.Description("Crop advisory dashboard: model predictions, husbandry advice and market context."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
		kong.UsageOnError(),
	)
	if err := ctx.Run(&cli); err != nil {
		log.Fatal(err)
	}
}
