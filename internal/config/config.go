// Package config loads the relay configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the relay configuration. Every field is read from the
// environment variable named in its env tag.
type Config struct {
	// ResponseBucket receives every translation file. The relay refuses to
	// start without it.
	ResponseBucket string `env:"RESPONSE_BUCKET,required,notEmpty"`

	// DefaultTargetLanguage is used when a request omits TargetLanguageCode.
	DefaultTargetLanguage string `env:"DEFAULT_TARGET_LANGUAGE" envDefault:"de"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// FunctionName is set by the Lambda runtime and used for warmup
	// self-invocation.
	FunctionName string `env:"AWS_LAMBDA_FUNCTION_NAME"`
}

// Load reads Config from the process environment.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads Config from the given variables instead of the process
// environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("error getting env configs: %w", err)
	}

	return cfg, nil
}
