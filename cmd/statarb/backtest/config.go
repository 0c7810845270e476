package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dkalas/aphelion/pkg/middleware"
	"github.com/dkalas/aphelion/pkg/quant/coint"
)

const dateLayout = "2006-01-02"

type rawConfig struct {
	Source              string   `mapstructure:"source"`
	Database            string   `mapstructure:"database"`
	DataDir             string   `mapstructure:"data_dir"`
	Symbols             []string `mapstructure:"symbols"`
	Start               string   `mapstructure:"start"`
	TrainingEnd         string   `mapstructure:"training_end"`
	End                 string   `mapstructure:"end"`
	RouterEventCapacity int      `mapstructure:"router_event_capacity"`
	Baseline            bool     `mapstructure:"baseline"`
	Journal             bool     `mapstructure:"journal"`
	Monitor             []string `mapstructure:"monitor"`

	Strategy struct {
		Enter         float64 `mapstructure:"enter"`
		Exit          float64 `mapstructure:"exit"`
		BasketSize    int     `mapstructure:"basket_size"`
		Confidence    int     `mapstructure:"confidence"`
		RollingWindow int     `mapstructure:"rolling_window"`
		Compounding   bool    `mapstructure:"compounding"`
		Recheck       bool    `mapstructure:"recheck"`
		MinObs        int     `mapstructure:"min_observations"`
		JohansenLags  int     `mapstructure:"johansen_lags"`
		ADFLags       int     `mapstructure:"adf_lags"`
	} `mapstructure:"strategy"`
}

type Config struct {
	Source              string
	Database            string
	DataDir             string
	Symbols             []string
	Start               time.Time
	TrainingEnd         time.Time
	End                 time.Time
	RouterEventCapacity int
	Baseline            bool
	Journal             bool
	MonitorFlags        middleware.MonitorFlags

	Enter         float64
	Exit          float64
	BasketSize    int
	Confidence    coint.Confidence
	RollingWindow int
	Compounding   bool
	Recheck       bool
	MinObs        int
	JohansenLags  int
	ADFLags       int
}

func loadConfig(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.SetDefault("source", "duckdb")
	viper.SetDefault("router_event_capacity", 256)
	viper.SetDefault("strategy.enter", 2.0)
	viper.SetDefault("strategy.exit", 0.5)
	viper.SetDefault("strategy.basket_size", 12)
	viper.SetDefault("strategy.confidence", 95)
	viper.SetDefault("strategy.compounding", true)
	viper.SetDefault("strategy.recheck", true)
	viper.SetDefault("strategy.min_observations", 30)
	viper.SetDefault("strategy.johansen_lags", 1)
	viper.SetDefault("strategy.adf_lags", coint.DefaultADFLags)

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}

	var raw rawConfig
	if err := viper.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	switch raw.Source {
	case "duckdb":
		if raw.Database == "" {
			return nil, fmt.Errorf("database path is required for the duckdb source")
		}
	case "binary":
		if raw.DataDir == "" {
			return nil, fmt.Errorf("data_dir is required for the binary source")
		}
	default:
		return nil, fmt.Errorf("unknown source %q, want duckdb or binary", raw.Source)
	}
	if raw.Journal && raw.Database == "" {
		return nil, fmt.Errorf("the signal journal needs a database path")
	}
	if len(raw.Symbols) == 0 {
		return nil, fmt.Errorf("at least one symbol is required")
	}

	start, err := time.Parse(dateLayout, raw.Start)
	if err != nil {
		return nil, fmt.Errorf("parse start date: %w", err)
	}
	trainingEnd, err := time.Parse(dateLayout, raw.TrainingEnd)
	if err != nil {
		return nil, fmt.Errorf("parse training_end date: %w", err)
	}
	end, err := time.Parse(dateLayout, raw.End)
	if err != nil {
		return nil, fmt.Errorf("parse end date: %w", err)
	}
	if !start.Before(trainingEnd) || !trainingEnd.Before(end) {
		return nil, fmt.Errorf("dates must satisfy start < training_end < end")
	}

	confidence, err := parseConfidence(raw.Strategy.Confidence)
	if err != nil {
		return nil, err
	}
	flags, err := parseMonitorFlags(raw.Monitor)
	if err != nil {
		return nil, err
	}

	return &Config{
		Source:              raw.Source,
		Database:            raw.Database,
		DataDir:             raw.DataDir,
		Symbols:             raw.Symbols,
		Start:               start,
		TrainingEnd:         trainingEnd,
		End:                 end,
		RouterEventCapacity: raw.RouterEventCapacity,
		Baseline:            raw.Baseline,
		Journal:             raw.Journal,
		MonitorFlags:        flags,
		Enter:               raw.Strategy.Enter,
		Exit:                raw.Strategy.Exit,
		BasketSize:          raw.Strategy.BasketSize,
		Confidence:          confidence,
		RollingWindow:       raw.Strategy.RollingWindow,
		Compounding:         raw.Strategy.Compounding,
		Recheck:             raw.Strategy.Recheck,
		MinObs:              raw.Strategy.MinObs,
		JohansenLags:        raw.Strategy.JohansenLags,
		ADFLags:             raw.Strategy.ADFLags,
	}, nil
}

func parseConfidence(pct int) (coint.Confidence, error) {
	switch pct {
	case 90:
		return coint.Confidence90, nil
	case 95:
		return coint.Confidence95, nil
	case 99:
		return coint.Confidence99, nil
	default:
		return 0, fmt.Errorf("unsupported confidence %d, want 90, 95 or 99", pct)
	}
}

func parseMonitorFlags(names []string) (middleware.MonitorFlags, error) {
	flags := middleware.MonitorNone
	for _, name := range names {
		switch strings.ToLower(name) {
		case "all":
			flags |= middleware.MonitorAll
		case "market":
			flags |= middleware.MonitorMarket
		case "bars":
			flags |= middleware.MonitorBars
		case "signals":
			flags |= middleware.MonitorSignals
		default:
			return 0, fmt.Errorf("unknown monitor flag %q", name)
		}
	}
	return flags, nil
}
