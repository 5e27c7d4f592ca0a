package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/towers/automatic"
	"github.com/domino14/towers/config"
	"github.com/domino14/towers/profile"
	"github.com/domino14/towers/results"
	"github.com/domino14/towers/solver"
)

var GitVersion string

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "bad configuration:", err)
		os.Exit(2)
	}
	cfg.SetupLogging(os.Stderr)
	log.Info().Str("version", GitVersion).Msgf("Loaded config: %v", cfg.SanitizedSettings())

	stopCPU, err := profile.StartCPU(cfg.GetString(config.ConfigCPUProfile))
	if err != nil {
		log.Fatal().Err(err).Msg("")
	}
	defer stopCPU()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = log.Logger.WithContext(ctx)

	kinds, err := solver.ParseKinds(cfg.GetString(config.ConfigMethod))
	if err != nil {
		log.Fatal().Err(err).Msg("")
	}
	nmin, nmax := cfg.GetInt(config.ConfigNMin), cfg.GetInt(config.ConfigNMax)
	r := automatic.NewRunner(cfg)

	fmt.Printf("Benchmark: n = %d..%d, %d repetitions, time budget %v\n",
		nmin, nmax, r.Repetitions(), r.TimeBudget())

	table := results.NewTable()
	if err := r.SweepKinds(ctx, nmin, nmax, kinds, table); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("sweep stopped early")
	}

	// Whatever was measured is written, even after an interrupt.
	out := cfg.GetString(config.ConfigOutput)
	wctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := table.WriteFile(wctx, out); err != nil {
		log.Fatal().Err(err).Str("path", out).Msg("could not write results")
	}
	fmt.Printf("Results written to %s (%d rows)\n", out, table.Len())
	if err := profile.WriteHeap(cfg.GetString(config.ConfigMemProfile)); err != nil {
		log.Err(err).Msg("heap profile")
	}
}
