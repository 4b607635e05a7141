// Package config loads answerkey settings from a YAML file, ANSWERKEY_*
// environment variables, and command line flags.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/zephyrtronium/answerkey"
	"github.com/zephyrtronium/answerkey/expressions"
)

// ErrInvalid is the error wrapped by validation failures.
var ErrInvalid = errors.New("invalid configuration")

// Formats are the supported output formats.
var Formats = []string{"json", "yaml"}

// Precision bounds for the evaluator.
const (
	MinPrecisionBits = 24
	MaxPrecisionBits = 4096
)

type Config struct {
	Input     string          `mapstructure:"input"`
	Output    OutputConfig    `mapstructure:"output"`
	Evaluator EvaluatorConfig `mapstructure:"evaluator"`
	Log       LogConfig       `mapstructure:"log"`
}

type OutputConfig struct {
	Path   string `mapstructure:"path"`
	Format string `mapstructure:"format"`
}

type EvaluatorConfig struct {
	Functions     []string `mapstructure:"functions"`
	PrecisionBits uint     `mapstructure:"precision_bits"`
	StrictPi      bool     `mapstructure:"strict_pi"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// New creates a viper instance with defaults and environment bindings.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("input", "questions.json")
	v.SetDefault("output.path", "results.json")
	v.SetDefault("output.format", "json")
	v.SetDefault("evaluator.functions", answerkey.DefaultFunctions)
	v.SetDefault("evaluator.precision_bits", answerkey.DefaultPrecision)
	v.SetDefault("evaluator.strict_pi", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	v.SetEnvPrefix("ANSWERKEY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration. If file is empty, Load looks for an optional
// answerkey.yaml in the working directory; otherwise the file must exist.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config %s", file)
		}
	} else {
		v.SetConfigName("answerkey")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, errors.Wrap(err, "reading config")
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Input == "" {
		return errors.Wrap(ErrInvalid, "no input file")
	}
	if c.Output.Path == "" {
		return errors.Wrap(ErrInvalid, "no output file")
	}
	if !contains(Formats, c.Output.Format) {
		return errors.Wrapf(ErrInvalid, "unknown output format %q (want one of %s)", c.Output.Format, strings.Join(Formats, ", "))
	}
	if c.Evaluator.PrecisionBits < MinPrecisionBits || c.Evaluator.PrecisionBits > MaxPrecisionBits {
		return errors.Wrapf(ErrInvalid, "precision of %d bits outside [%d, %d]", c.Evaluator.PrecisionBits, MinPrecisionBits, MaxPrecisionBits)
	}
	known := expressions.Funcs()
	for _, name := range c.Evaluator.Functions {
		if !contains(known, name) {
			return errors.Wrapf(ErrInvalid, "unknown function %q", name)
		}
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrapf(ErrInvalid, "log level: %v", err)
	}
	return nil
}

// EvaluatorOptions returns the options to create an evaluator as configured.
func (c *Config) EvaluatorOptions() []answerkey.Option {
	return []answerkey.Option{
		answerkey.WithFunctions(c.Evaluator.Functions...),
		answerkey.WithPrecision(c.Evaluator.PrecisionBits),
		answerkey.WithStrictPi(c.Evaluator.StrictPi),
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
