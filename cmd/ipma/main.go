// Command ipma queries the IPMA open-data API and prints the results as
// JSON on stdout. Logs go to stderr.
//
// Usage:
//
//	ipma init
//	ipma locations
//	ipma forecast -district 1
//	ipma forecast -island 31
//	ipma current
//	ipma weather-types
//	ipma wind-speed
//	ipma export -what observations
//	ipma export -what forecast -district 1
//
// Configuration is read from the same environment variables as the server
// (IPMA_BASE_URL, IPMA_TIMEOUT, LOG_LEVEL, KAFKA_BROKERS, ...).
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/ipma-weather/internal/adapter/ipma"
	"github.com/couchcryptid/ipma-weather/internal/adapter/kafka"
	"github.com/couchcryptid/ipma-weather/internal/config"
	"github.com/couchcryptid/ipma-weather/internal/domain"
	"github.com/couchcryptid/ipma-weather/internal/observability"
	"github.com/couchcryptid/ipma-weather/internal/weather"
	"github.com/jonboulle/clockwork"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

const usageText = `usage: ipma <command> [flags]

commands:
  init            load reference data and print collection counts
  locations       list districts and islands
  forecast        daily forecast (-district N | -island N)
  current         latest station observations
  weather-types   weather type lookup table
  wind-speed      wind speed class lookup table
  export          publish a snapshot to Kafka (-what observations|forecast)
`

// env carries the process-level dependencies so tests can substitute them.
type env struct {
	stdout  io.Writer
	stderr  io.Writer
	metrics *observability.Metrics
	clock   clockwork.Clock
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], env{
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		metrics: observability.NewMetrics(),
		clock:   clockwork.NewRealClock(),
	})
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, e env) int {
	if len(args) == 0 {
		fmt.Fprint(e.stderr, usageText)
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(e.stderr, "config: %v\n", err)
		return exitError
	}

	logger := observability.NewLoggerTo(e.stderr, cfg.LogLevel, cfg.LogFormat)
	client := ipma.NewClient(cfg.IPMABaseURL, cfg.IPMATimeout, e.metrics, logger)
	svc := weather.New(client, logger, e.metrics, weather.WithClock(e.clock), weather.WithLoadTimeout(2*cfg.IPMATimeout))

	cmd, rest := args[0], args[1:]
	var result any
	switch cmd {
	case "init":
		result, err = svc.Initialize(ctx)
	case "locations":
		result, err = svc.GetLocations(ctx)
	case "forecast":
		fs, q := forecastFlags(cmd, e.stderr)
		if fs.Parse(rest) != nil {
			return exitUsage
		}
		result, err = svc.GetForecast(ctx, *q)
	case "current":
		result, err = svc.GetCurrentWeather(ctx)
	case "weather-types":
		result, err = svc.GetWeatherTypes(ctx)
	case "wind-speed":
		result, err = svc.GetWindSpeedClasses(ctx)
	case "export":
		var w *kafka.Writer
		result, w, err = export(ctx, cfg, svc, rest, e, logger)
		if w != nil {
			if cerr := w.Close(); cerr != nil {
				logger.Error("kafka writer close error", "error", cerr)
			}
		}
		if errors.Is(err, errUsage) {
			return exitUsage
		}
	case "help", "-h", "-help", "--help":
		fmt.Fprint(e.stdout, usageText)
		return exitOK
	default:
		fmt.Fprintf(e.stderr, "unknown command %q\n\n%s", cmd, usageText)
		return exitUsage
	}

	if err != nil {
		reportError(e.stderr, err)
		return exitError
	}
	return printJSON(e.stdout, e.stderr, result)
}

// forecastFlags registers the location selectors shared by forecast and export.
func forecastFlags(name string, stderr io.Writer) (*flag.FlagSet, *domain.ForecastQuery) {
	q := &domain.ForecastQuery{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&q.DistrictID, "district", 0, "district id (takes precedence over -island)")
	fs.IntVar(&q.IslandID, "island", 0, "island id")
	return fs, q
}

var errUsage = errors.New("usage")

type exportSummary struct {
	Kind     string `json:"kind"`
	Topic    string `json:"topic"`
	Messages int    `json:"messages"`
}

func export(ctx context.Context, cfg *config.Config, svc *weather.Service, args []string, e env, logger *slog.Logger) (exportSummary, *kafka.Writer, error) {
	fs, q := forecastFlags("export", e.stderr)
	what := fs.String("what", "", "snapshot to publish: observations or forecast")
	if fs.Parse(args) != nil {
		return exportSummary{}, nil, errUsage
	}

	switch *what {
	case "observations":
		results, err := svc.GetCurrentWeather(ctx)
		if err != nil {
			return exportSummary{}, nil, err
		}
		w := kafka.NewWriter(cfg, e.clock, logger)
		return exportSummary{Kind: kafka.KindObservation, Topic: cfg.KafkaTopic, Messages: len(results)}, w, w.PublishObservations(ctx, results)
	case "forecast":
		results, err := svc.GetForecast(ctx, *q)
		if err != nil {
			return exportSummary{}, nil, err
		}
		w := kafka.NewWriter(cfg, e.clock, logger)
		return exportSummary{Kind: kafka.KindForecast, Topic: cfg.KafkaTopic, Messages: len(results)}, w, w.PublishForecast(ctx, results)
	default:
		fmt.Fprintf(e.stderr, "export: -what must be observations or forecast, got %q\n", *what)
		return exportSummary{}, nil, errUsage
	}
}

// reportError prints err once. A *domain.Error already leads with its kind.
func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v\n", err)
}

func printJSON(stdout, stderr io.Writer, v any) int {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(stderr, "encode output: %v\n", err)
		return exitError
	}
	return exitOK
}
