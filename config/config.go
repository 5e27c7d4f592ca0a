package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/domino14/towers/solver"
)

const (
	ConfigDebug          = "debug"
	ConfigNMin           = "n-min"
	ConfigNMax           = "n-max"
	ConfigRepetitions    = "repetitions"
	ConfigTimeBudget     = "time-budget"
	ConfigOutput         = "output"
	ConfigParallel       = "parallel"
	ConfigVerifySequence = "verify-sequence"
	ConfigConfigFile     = "config-file"
	ConfigCPUProfile     = "cpu-profile"
	ConfigMemProfile     = "mem-profile"
	ConfigDemoDisks      = "demo-disks"
	ConfigMethod         = "method"
)

const (
	DefaultNMin        = 10
	DefaultNMax        = 26
	DefaultRepetitions = 5
	DefaultTimeBudget  = 5 * time.Second
	DefaultOutput      = "hanoi_benchmark.csv"
	DefaultDemoDisks   = 3
	DefaultMethod      = "both"
)

type Config struct {
	*viper.Viper
}

// DefaultConfig returns a config with every default set and nothing read
// from flags, environment or files.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigNMin, DefaultNMin)
	c.SetDefault(ConfigNMax, DefaultNMax)
	c.SetDefault(ConfigRepetitions, DefaultRepetitions)
	c.SetDefault(ConfigTimeBudget, DefaultTimeBudget)
	c.SetDefault(ConfigOutput, DefaultOutput)
	c.SetDefault(ConfigParallel, false)
	c.SetDefault(ConfigVerifySequence, false)
	c.SetDefault(ConfigDemoDisks, DefaultDemoDisks)
	c.SetDefault(ConfigMethod, DefaultMethod)
}

// Load reads settings from, in increasing priority: defaults, an optional
// YAML config file, TOWERS_* environment variables, and args.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	c.setDefaults()

	fs := pflag.NewFlagSet("towers", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Int(ConfigNMin, DefaultNMin, "smallest tower to benchmark")
	fs.Int(ConfigNMax, DefaultNMax, "largest tower to benchmark")
	fs.Int(ConfigRepetitions, DefaultRepetitions, "timed trials per tower size and solver")
	fs.Duration(ConfigTimeBudget, DefaultTimeBudget, "stop a sweep once a mean trial takes longer than this")
	fs.String(ConfigOutput, DefaultOutput, "result table path (.csv, .yaml, .db)")
	fs.Bool(ConfigParallel, false, "sweep both solvers at the same time")
	fs.Bool(ConfigVerifySequence, false, "check both solvers emit the same move sequence before timing")
	fs.String(ConfigConfigFile, "", "YAML file with any of these settings")
	fs.String(ConfigCPUProfile, "", "write a CPU profile here")
	fs.String(ConfigMemProfile, "", "write a heap profile here")
	fs.Int(ConfigDemoDisks, DefaultDemoDisks, "disk count used by the demo when input is invalid")
	fs.String(ConfigMethod, DefaultMethod, "solver to run: recursive, iterative or both")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	c.SetEnvPrefix("TOWERS")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if f := c.GetString(ConfigConfigFile); f != "" {
		c.SetConfigFile(f)
		c.SetConfigType("yaml")
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", f, err)
		}
	}
	return c.Validate()
}

// Validate checks the sweep settings are usable.
func (c *Config) Validate() error {
	nmin, nmax := c.GetInt(ConfigNMin), c.GetInt(ConfigNMax)
	switch {
	case nmin < 0:
		return fmt.Errorf("%s must not be negative", ConfigNMin)
	case nmax < nmin:
		return fmt.Errorf("%s (%d) is smaller than %s (%d)", ConfigNMax, nmax, ConfigNMin, nmin)
	case nmax > solver.MaxDisks:
		return fmt.Errorf("%s must be at most %d", ConfigNMax, solver.MaxDisks)
	case c.GetInt(ConfigRepetitions) < 1:
		return errors.New("need at least one repetition")
	case c.GetDuration(ConfigTimeBudget) <= 0:
		return fmt.Errorf("%s must be positive", ConfigTimeBudget)
	}
	if _, err := solver.ParseKinds(c.GetString(ConfigMethod)); err != nil {
		return err
	}
	return nil
}

// SetString parses value according to the type of key, stores it, and
// checks the result. On any failure the previous value is kept.
func (c *Config) SetString(key, value string) error {
	var v any
	var err error
	switch key {
	case ConfigNMin, ConfigNMax, ConfigRepetitions, ConfigDemoDisks:
		v, err = strconv.Atoi(value)
	case ConfigTimeBudget:
		v, err = time.ParseDuration(value)
	case ConfigDebug, ConfigParallel, ConfigVerifySequence:
		v, err = strconv.ParseBool(value)
	default:
		v = value
	}
	if err != nil {
		return fmt.Errorf("bad value for %s: %w", key, err)
	}
	old := c.Get(key)
	c.Set(key, v)
	if err := c.Validate(); err != nil {
		c.Set(key, old)
		return err
	}
	return nil
}

// SanitizedSettings is every setting, for logging.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}

// Write saves the current settings to the config file in use.
func (c *Config) Write() error {
	f := c.GetString(ConfigConfigFile)
	if f == "" {
		return errors.New("no config file set; pass -config-file")
	}
	return c.WriteConfigAs(f)
}
