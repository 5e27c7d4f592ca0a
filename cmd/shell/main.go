package main

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/domino14/towers/config"
	"github.com/domino14/towers/profile"
	"github.com/domino14/towers/shell"
)

var GitVersion string

//go:embed towers.txt
var banner string

func main() {
	fmt.Println(banner)
	fmt.Println(GitVersion)

	// Arguments are a shell command line, so settings come only from the
	// environment and the config file here.
	cfg := &config.Config{}
	if err := cfg.Load(nil); err != nil {
		fmt.Fprintln(os.Stderr, "bad configuration:", err)
		os.Exit(2)
	}
	cfg.SetupLogging(os.Stderr)
	log.Debug().Interface("settings", cfg.SanitizedSettings()).Msg("loaded-config")

	stopCPU, err := profile.StartCPU(cfg.GetString(config.ConfigCPUProfile))
	if err != nil {
		log.Fatal().Err(err).Msg("")
	}
	defer stopCPU()

	ctx, cancel := context.WithCancel(log.Logger.WithContext(context.Background()))
	defer cancel()

	done := make(chan struct{})
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("got quit signal...")
		cancel()
		close(done)
	}()

	sc := shell.NewShellController(cfg)
	sc.SetContext(ctx)
	if line := strings.TrimSpace(strings.Join(os.Args[1:], " ")); line != "" {
		go sc.Execute(sig, line)
	} else {
		go sc.Loop(sig)
	}
	<-done

	if err := profile.WriteHeap(cfg.GetString(config.ConfigMemProfile)); err != nil {
		log.Err(err).Msg("heap profile")
	}
	sc.Cleanup()
	log.Info().Msg("bye")
}
