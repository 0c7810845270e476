package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/dkalas/aphelion/cmd/statarb"
	"github.com/dkalas/aphelion/pkg/bus"
	"github.com/dkalas/aphelion/pkg/common"
	"github.com/dkalas/aphelion/pkg/data/duckdb"
	"github.com/dkalas/aphelion/pkg/datasource/historical"
	"github.com/dkalas/aphelion/pkg/datasource/history"
	"github.com/dkalas/aphelion/pkg/middleware"
	"github.com/dkalas/aphelion/pkg/quant/coint"
	"github.com/dkalas/aphelion/pkg/strategy"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the backtest configuration")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	logger.Info(fmt.Sprintf("statarb backtest %s", statarb.Version))
	defer logger.Info("done")

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var reader *duckdb.Reader
	if cfg.Source == "duckdb" || cfg.Journal {
		reader = duckdb.NewReader(cfg.Database)
		if err := reader.Connect(); err != nil {
			logger.Fatal("error opening bar database", zap.Error(err))
		}
		defer reader.Close()
	}

	// Bars up to the training cutoff seed the store so the initial basket
	// search has history; the rest replay through the router.
	store := history.NewStore()
	var replayBars []common.Bar
	collect := func(bar common.Bar) error {
		if bar.TimeStamp.After(cfg.TrainingEnd) {
			replayBars = append(replayBars, bar)
		} else {
			store.Append(bar)
		}
		return nil
	}

	switch cfg.Source {
	case "duckdb":
		for _, symbol := range cfg.Symbols {
			if err := reader.LoadBars(ctx, symbol, cfg.Start, cfg.End, collect); err != nil {
				logger.Fatal("error loading bars", zap.String("symbol", symbol), zap.Error(err))
			}
		}
	case "binary":
		if err := loadBinaryBars(cfg, collect); err != nil {
			logger.Fatal("error loading bars", zap.Error(err))
		}
	}
	logger.Info("bars loaded",
		zap.Int("symbols", len(cfg.Symbols)),
		zap.Int("replay_bars", len(replayBars)))

	router := bus.NewRouter(cfg.RouterEventCapacity)

	cointOracle := coint.NewJohansenOracle(cfg.JohansenLags)
	statOracle := coint.NewADFOracle(cfg.ADFLags, cfg.Confidence)

	reversion, err := strategy.NewBasketReversion(router, store, cointOracle, statOracle,
		strategy.WithThresholds(cfg.Enter, cfg.Exit),
		strategy.WithBasketSize(cfg.BasketSize),
		strategy.WithConfidence(cfg.Confidence),
		strategy.WithRollingWindow(cfg.RollingWindow),
		strategy.WithCompoundingAdjustment(cfg.Compounding),
		strategy.WithStationarityRecheck(cfg.Recheck),
		strategy.WithStationarityMinObs(cfg.MinObs),
		strategy.WithFailureHandler(func(err error) {
			logger.Error("strategy halted", zap.Error(err))
			cancel()
		}),
	)
	if err != nil {
		logger.Fatal("unable to build reversion strategy", zap.Error(err))
	}
	logger.Info("basket selected",
		zap.Strings("symbols", reversion.Basket().Symbols),
		zap.Float64s("weights", reversion.Basket().Weights))

	marketHandlers := []bus.EventHandler[common.MarketUpdate]{reversion.CalculateSignals}
	if cfg.Baseline {
		baseline := strategy.NewBuyAndHold(router, store, cfg.Symbols)
		marketHandlers = append(marketHandlers, baseline.CalculateSignals)
	}

	monitor := middleware.NewMonitor(cfg.MonitorFlags)
	telemetry := middleware.NewTelemetry()
	performance := middleware.NewPerformance()

	signalHdl := middleware.NoopSignalHdl
	if cfg.Journal {
		if err := duckdb.CreateSignalTable(ctx, reader.DB()); err != nil {
			logger.Fatal("unable to create signal table", zap.Error(err))
		}
		signalHdl = middleware.NewJournal(reader.DB()).WithSignal(signalHdl)
	}

	router.OnMarket = middleware.Chain(
		telemetry.WithMarket,
		performance.WithMarket,
		monitor.WithMarket,
	)(bus.MergeHandlers(marketHandlers...))
	router.OnBar = middleware.Chain(
		telemetry.WithBar,
		monitor.WithBar,
	)(middleware.NoopBarHdl)
	router.OnSignal = middleware.Chain(
		telemetry.WithSignal,
		performance.WithSignal,
		monitor.WithSignal,
	)(signalHdl)

	replay := history.NewReplay(router, store, replayBars)

	defer performance.PrintStatistics()
	defer telemetry.PrintStatistics()

	if err := <-router.ExecLoop(ctx, replay.Feed); err != nil {
		if !errors.Is(err, history.ErrEof) && !errors.Is(err, context.Canceled) {
			logger.Error("error during backtest", zap.Error(err))
		}
	}
	router.Statistics().Print()
}

func loadBinaryBars(cfg *Config, handle func(common.Bar) error) error {
	for _, symbol := range cfg.Symbols {
		source := historical.NewSource[historical.BinaryBar](filepath.Join(cfg.DataDir, symbol+".bin"))
		if err := source.Open(); err != nil {
			return err
		}

		barReader := historical.NewBarReader(source, symbol, cfg.Start, cfg.End)
		for {
			bar, err := barReader.GetNext()
			if errors.Is(err, historical.ErrEof) {
				break
			}
			if err != nil {
				source.Close()
				return fmt.Errorf("read %s bars: %w", symbol, err)
			}
			if err := handle(bar); err != nil {
				source.Close()
				return err
			}
		}
		source.Close()
	}
	return nil
}
