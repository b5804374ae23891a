package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"risksim/config"
	"risksim/sim"
	"risksim/sim/metrics"
)

func main() {
	configPath := flag.String("config", "", "Path to the YAML configuration file")
	iterations := flag.Int("iterations", 0, "Override the configured number of battles")
	seed := flag.Uint64("seed", 0, "Override the configured random seed")
	shards := flag.Int("shards", 0, "Override the configured number of parallel shards")
	outDir := flag.String("out", "", "Directory to export CSV run records into")
	verbose := flag.Bool("verbose", false, "Enable per-batch debug logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load configuration")
		}
		cfg = loaded
	}
	if *iterations > 0 {
		cfg.Iterations = *iterations
		if cfg.BatchSize > cfg.Iterations {
			cfg.BatchSize = cfg.Iterations
		}
	}
	if *seed != 0 {
		s := *seed
		cfg.RandomSeed = &s
	}
	if *shards > 0 {
		cfg.Shards = *shards
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := sim.New(cfg)
	result, err := runner.Run(ctx)
	if err != nil {
		var runErr *sim.RunError
		if result == nil || !errors.As(err, &runErr) {
			log.Fatal().Err(err).Msg("simulation failed")
		}
		log.Warn().Err(err).Msg("simulation stopped early")
	}

	fmt.Println(result.Report())

	if *outDir != "" {
		writer, err := metrics.NewWriter(*outDir)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create export writer")
		}
		if err := writer.WriteSummary(result.Metrics); err != nil {
			log.Fatal().Err(err).Msg("failed to export run summary")
		}
		if len(result.History) > 0 {
			if err := writer.WriteBattles(result.History); err != nil {
				log.Fatal().Err(err).Msg("failed to export battle history")
			}
		}
		log.Info().Msgf("exported run records to %s", writer.Dir())
	}
}
