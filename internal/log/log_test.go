package log

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/Alturino/dailycoffee/internal/config"
	"github.com/Alturino/dailycoffee/internal/constants"
)

func TestLevel(t *testing.T) {
	testCases := []struct {
		name     string
		cfg      config.Application
		expected zerolog.Level
	}{
		{name: "development", cfg: config.Application{Env: constants.ENV_DEVELOPMENT}, expected: zerolog.TraceLevel},
		{name: "production", cfg: config.Application{Env: constants.ENV_PRODUCTION}, expected: zerolog.InfoLevel},
		{
			name:     "explicit level",
			cfg:      config.Application{Env: constants.ENV_PRODUCTION, LogLevel: "warn"},
			expected: zerolog.WarnLevel,
		},
		{
			name:     "unknown level falls back",
			cfg:      config.Application{Env: constants.ENV_DEVELOPMENT, LogLevel: "loud"},
			expected: zerolog.TraceLevel,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, level(tc.cfg))
		})
	}
}
