package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/mkrupp/homecase-accounts/internal/infra/config"
)

type testConfig struct {
	EnvConfig

	StringValue   string        `env:"STRING_VALUE" default:"default"`
	IntValue      int           `env:"INT_VALUE" default:"42"`
	BoolValue     bool          `env:"BOOL_VALUE" default:"true"`
	DurationValue time.Duration `env:"DURATION_VALUE" default:"24h"`
	NoEnvTag      string
	Nested        testNestedConfig `envPrefix:"NESTED_"`
}

type testNestedConfig struct {
	NestedString string `env:"STRING" default:"nested-default"`
}

type requiredConfig struct {
	EnvConfig

	Secret string `env:"SECRET"`
}

func defaults() testConfig {
	return testConfig{
		StringValue:   "default",
		IntValue:      42,
		BoolValue:     true,
		DurationValue: 24 * time.Hour,
		Nested:        testNestedConfig{NestedString: "nested-default"},
	}
}

//nolint:paralleltest
func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		envVars map[string]string
		want    func(cfg *testConfig)
		wantErr bool
	}{
		{
			name: "uses default values when env vars not set",
		},
		{
			name: "reads environment variables",
			envVars: map[string]string{
				"STRING_VALUE":   "env-value",
				"INT_VALUE":      "123",
				"BOOL_VALUE":     "false",
				"DURATION_VALUE": "90s",
				"NESTED_STRING":  "env-nested",
			},
			want: func(cfg *testConfig) {
				cfg.StringValue = "env-value"
				cfg.IntValue = 123
				cfg.BoolValue = false
				cfg.DurationValue = 90 * time.Second
				cfg.Nested.NestedString = "env-nested"
			},
		},
		{
			name:    "handles prefix correctly",
			prefix:  "APP",
			envVars: map[string]string{"APP_STRING_VALUE": "prefixed-value"},
			want:    func(cfg *testConfig) { cfg.StringValue = "prefixed-value" },
		},
		{
			name:    "handles multi-level prefixes",
			prefix:  "APP_SERVICE",
			envVars: map[string]string{"APP_SERVICE_NESTED_STRING": "multi-level-prefix"},
			want:    func(cfg *testConfig) { cfg.Nested.NestedString = "multi-level-prefix" },
		},
		{
			name:   "prefers more specific prefix",
			prefix: "APP_SERVICE",
			envVars: map[string]string{
				"STRING_VALUE":             "bare",
				"APP_STRING_VALUE":         "less-specific",
				"APP_SERVICE_STRING_VALUE": "more-specific",
			},
			want: func(cfg *testConfig) { cfg.StringValue = "more-specific" },
		},
		{
			name:    "falls back to the bare variable name",
			prefix:  "APP_SERVICE",
			envVars: map[string]string{"INT_VALUE": "7"},
			want:    func(cfg *testConfig) { cfg.IntValue = 7 },
		},
		{
			name:    "handles empty string values",
			envVars: map[string]string{"STRING_VALUE": ""},
			want:    func(cfg *testConfig) { cfg.StringValue = "" },
		},
		{
			name:    "fails on invalid int value",
			envVars: map[string]string{"INT_VALUE": "not-a-number"},
			wantErr: true,
		},
		{
			name:    "fails on invalid bool value",
			envVars: map[string]string{"BOOL_VALUE": "not-a-bool"},
			wantErr: true,
		},
		{
			name:    "fails on invalid duration value",
			envVars: map[string]string{"DURATION_VALUE": "tomorrow"},
			wantErr: true,
		},
	}

	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := &testConfig{}
			err := Parse(ctx, cfg, tt.prefix)

			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)

			want := defaults()
			if tt.want != nil {
				tt.want(&want)
			}

			assert.Equal(t, want.StringValue, cfg.StringValue)
			assert.Equal(t, want.IntValue, cfg.IntValue)
			assert.Equal(t, want.BoolValue, cfg.BoolValue)
			assert.Equal(t, want.DurationValue, cfg.DurationValue)
			assert.Empty(t, cfg.NoEnvTag)
			assert.Equal(t, want.Nested, cfg.Nested)
			assert.Equal(t, tt.prefix, cfg.Namespace())
		})
	}
}

//nolint:paralleltest
func TestParseRequiredVariable(t *testing.T) {
	err := Parse(context.Background(), &requiredConfig{}, "REQUIRED_TEST")
	require.ErrorIs(t, err, ErrVarNotSet)

	t.Setenv("REQUIRED_TEST_SECRET", "s3cret")

	cfg := &requiredConfig{}
	require.NoError(t, Parse(context.Background(), cfg, "REQUIRED_TEST"))
	assert.Equal(t, "s3cret", cfg.Secret)
}

func TestParseInvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  any
	}{
		{name: "non-pointer config", cfg: testConfig{}},
		{name: "non-struct pointer", cfg: new(string)},
		{
			name: "missing EnvConfig embedding",
			cfg: &struct {
				Value string `env:"VALUE"`
			}{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Parse(context.Background(), tt.cfg, "")
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}
