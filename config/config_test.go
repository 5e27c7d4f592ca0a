package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	c := DefaultConfig()
	is.Equal(c.GetInt(ConfigNMin), 10)
	is.Equal(c.GetInt(ConfigNMax), 26)
	is.Equal(c.GetInt(ConfigRepetitions), 5)
	is.Equal(c.GetDuration(ConfigTimeBudget), 5*time.Second)
	is.Equal(c.GetString(ConfigOutput), "hanoi_benchmark.csv")
	is.NoErr(c.Validate())
}

func TestLoadFlags(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	is.NoErr(c.Load([]string{"--n-min", "1", "--n-max", "3", "--time-budget", "250ms", "--parallel"}))
	is.Equal(c.GetInt(ConfigNMin), 1)
	is.Equal(c.GetInt(ConfigNMax), 3)
	is.Equal(c.GetDuration(ConfigTimeBudget), 250*time.Millisecond)
	is.True(c.GetBool(ConfigParallel))
	is.Equal(c.GetInt(ConfigRepetitions), 5)
}

func TestLoadEnv(t *testing.T) {
	is := is.New(t)
	t.Setenv("TOWERS_REPETITIONS", "9")
	c := &Config{}
	is.NoErr(c.Load(nil))
	is.Equal(c.GetInt(ConfigRepetitions), 9)
}

func TestLoadConfigFile(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "towers.yaml")
	is.NoErr(os.WriteFile(path, []byte("n-max: 12\noutput: out.yaml\n"), 0o644))
	c := &Config{}
	// flags beat the file
	is.NoErr(c.Load([]string{"--config-file", path, "--n-min", "4"}))
	is.Equal(c.GetInt(ConfigNMax), 12)
	is.Equal(c.GetInt(ConfigNMin), 4)
	is.Equal(c.GetString(ConfigOutput), "out.yaml")
}

func TestLoadRejectsBadRange(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	is.True(c.Load([]string{"--n-min", "8", "--n-max", "3"}) != nil)
	is.True(c.Load([]string{"--n-max", "64"}) != nil)
	is.True(c.Load([]string{"--repetitions", "0"}) != nil)
	is.True(c.Load([]string{"--no-such-flag"}) != nil)
	is.True(c.Load([]string{"--method", "bogosort"}) != nil)
	is.NoErr(c.Load([]string{"--method", "iterative"}))
}

func TestSetupLogging(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	c := DefaultConfig()
	c.Set(ConfigDebug, true)
	logger := c.SetupLogging(&buf)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	is.Equal(logger.GetLevel(), zerolog.DebugLevel)
	logger.Info().Int("n", 4).Msg("measured")
	is.True(strings.Contains(buf.String(), "Debug logging is on"))
	is.True(strings.Contains(buf.String(), "| INFO  | measured"))
}

func TestSetStringParsesByType(t *testing.T) {
	is := is.New(t)
	c := DefaultConfig()

	is.NoErr(c.SetString(ConfigNMin, "4"))
	is.Equal(c.GetInt(ConfigNMin), 4)
	is.NoErr(c.SetString(ConfigTimeBudget, "250ms"))
	is.Equal(c.GetDuration(ConfigTimeBudget), 250*time.Millisecond)
	is.NoErr(c.SetString(ConfigParallel, "true"))
	is.True(c.GetBool(ConfigParallel))
	is.NoErr(c.SetString(ConfigOutput, "out.yaml"))
	is.Equal(c.GetString(ConfigOutput), "out.yaml")

	bad := []struct{ key, value string }{
		{ConfigNMin, "abc"},
		{ConfigTimeBudget, "5"},
		{ConfigParallel, "yes please"},
		{ConfigNMax, "2"},
		{ConfigMethod, "bogosort"},
	}
	for _, b := range bad {
		is.True(c.SetString(b.key, b.value) != nil)
	}
	// rejected values leave the old ones in place
	is.Equal(c.GetInt(ConfigNMin), 4)
	is.Equal(c.GetInt(ConfigNMax), DefaultNMax)
	is.Equal(c.GetDuration(ConfigTimeBudget), 250*time.Millisecond)
	is.True(c.GetBool(ConfigParallel))
	is.Equal(c.GetString(ConfigMethod), DefaultMethod)
}
