package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/domino14/towers/config"
	"github.com/domino14/towers/shell"
	"github.com/domino14/towers/solver"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "bad configuration:", err)
		os.Exit(2)
	}
	cfg.SetupLogging(os.Stderr)

	kinds, err := solver.ParseKinds(cfg.GetString(config.ConfigMethod))
	if err != nil {
		log.Fatal().Err(err).Msg("")
	}
	n := shell.ReadDiskCount(os.Stdin, os.Stdout, cfg.GetInt(config.ConfigDemoDisks))
	for i, kind := range kinds {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("=== %v ===\n", kind)
		if _, err := shell.RunDemo(os.Stdout, n, kind); err != nil {
			log.Fatal().Err(err).Stringer("kind", kind).Msg("demo failed")
		}
	}
}
