package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"RESPONSE_BUCKET": "translations-out",
	})
	require.NoError(t, err)

	assert.Equal(t, "translations-out", cfg.ResponseBucket)
	assert.Equal(t, "de", cfg.DefaultTargetLanguage)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.FunctionName)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"RESPONSE_BUCKET":          "out",
		"DEFAULT_TARGET_LANGUAGE":  "fr",
		"LOG_LEVEL":                "debug",
		"AWS_LAMBDA_FUNCTION_NAME": "translation-relay",
	})
	require.NoError(t, err)

	assert.Equal(t, "fr", cfg.DefaultTargetLanguage)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "translation-relay", cfg.FunctionName)
}

func TestLoadFrom_ResponseBucketRequired(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"missing", map[string]string{}},
		{"empty", map[string]string{"RESPONSE_BUCKET": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFrom(tt.vars)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), "RESPONSE_BUCKET")
		})
	}
}

func TestLoad_FromProcessEnvironment(t *testing.T) {
	t.Setenv("RESPONSE_BUCKET", "env-bucket")
	t.Setenv("DEFAULT_TARGET_LANGUAGE", "es")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "env-bucket", cfg.ResponseBucket)
	assert.Equal(t, "es", cfg.DefaultTargetLanguage)
}
