package config

import (
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/grimwm/stencil/internal/output"
)

// ConfigSource indicates where a setting came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// Setting keys and the environment variables bound to them.
const (
	KeyConfig     = "config"
	KeyTimestamps = "timestamps"
	KeyVerbose    = "verbose"
	KeyWith       = "with"

	EnvConfig     = "STENCIL_CONFIG"
	EnvTimestamps = "STENCIL_TIMESTAMPS"
)

// featureEnvVars are checked in order; the upper-case name wins.
var featureEnvVars = []string{"WITH", "with"}

// ResolvedValue is a setting together with its source.
type ResolvedValue struct {
	Key    string
	Value  any
	Source ConfigSource
}

// GlobalConfig holds CLI-level settings shared by every command.
// It is created once by the root command and handed to each subcommand.
type GlobalConfig struct {
	// ConfigPath is the scaffold config file to load.
	ConfigPath string

	// Verbose enables debug logging.
	Verbose bool

	// Timestamps overrides timestamp display; nil keeps the default.
	Timestamps *bool

	// Resolved records how each setting was resolved, for --verbose.
	Resolved []ResolvedValue
}

// Settings resolves CLI settings with flag > env > default precedence.
type Settings struct {
	v     *viper.Viper
	flags *pflag.FlagSet
}

// NewSettings binds the given flag set and the stencil environment
// variables.
func NewSettings(flags *pflag.FlagSet) *Settings {
	v := viper.New()

	_ = v.BindEnv(KeyConfig, EnvConfig)
	_ = v.BindEnv(KeyTimestamps, EnvTimestamps)
	_ = v.BindEnv(append([]string{KeyWith}, featureEnvVars...)...)
	v.SetDefault(KeyConfig, DefaultConfigFile)

	for _, key := range []string{KeyConfig, KeyTimestamps, KeyVerbose, KeyWith} {
		if f := flags.Lookup(key); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}

	return &Settings{v: v, flags: flags}
}

// Resolve fills a GlobalConfig from the bound flags and environment.
func (s *Settings) Resolve(g *GlobalConfig) {
	g.ConfigPath = s.v.GetString(KeyConfig)
	g.Verbose = s.v.GetBool(KeyVerbose)
	g.Timestamps = nil
	if s.v.IsSet(KeyTimestamps) {
		g.Timestamps = output.BoolPtr(s.v.GetBool(KeyTimestamps))
	}

	g.Resolved = []ResolvedValue{
		{Key: KeyConfig, Value: g.ConfigPath, Source: s.source(KeyConfig, EnvConfig)},
	}
	if g.Timestamps != nil {
		g.Resolved = append(g.Resolved, ResolvedValue{
			Key: KeyTimestamps, Value: *g.Timestamps, Source: s.source(KeyTimestamps, EnvTimestamps),
		})
	}
}

// Features returns the raw feature list from --with, WITH or with.
func (s *Settings) Features() ResolvedValue {
	return ResolvedValue{
		Key:    KeyWith,
		Value:  s.v.GetString(KeyWith),
		Source: s.source(KeyWith, featureEnvVars...),
	}
}

func (s *Settings) source(key string, envs ...string) ConfigSource {
	if f := s.flags.Lookup(key); f != nil && f.Changed {
		return SourceFlag
	}
	for _, env := range envs {
		if _, ok := os.LookupEnv(env); ok {
			return SourceEnv
		}
	}
	return SourceDefault
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
	}
}
