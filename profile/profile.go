// Package profile writes the pprof profiles the commands can be asked for.
package profile

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/rs/zerolog/log"
)

// StartCPU starts a CPU profile written to path. The returned function
// stops it. An empty path does nothing.
func StartCPU(path string) (func(), error) {
	if path == "" {
		return func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("could not start CPU profile: %w", err)
	}
	return func() {
		pprof.StopCPUProfile()
		f.Close()
		log.Info().Str("path", path).Msg("wrote cpu profile")
	}, nil
}

// WriteHeap logs memory stats and writes a heap profile to path. An empty
// path does nothing.
func WriteHeap(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer f.Close()
	memstats := &runtime.MemStats{}
	runtime.ReadMemStats(memstats)
	log.Info().Uint64("heap-alloc", memstats.HeapAlloc).Uint64("total-alloc", memstats.TotalAlloc).
		Uint32("num-gc", memstats.NumGC).Msg("memory-stats")
	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}
	log.Info().Str("path", path).Msg("wrote memory profile")
	return nil
}
