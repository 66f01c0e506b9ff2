//go:build !integration

package app

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/guttosm/fare-offer-service/config"
)

func TestInitializeLogger(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.DebugLevel)

	tests := []struct {
		name      string
		cfg       config.LogConfig
		wantLevel zerolog.Level
	}{
		{name: "defaults to info", cfg: config.LogConfig{}, wantLevel: zerolog.InfoLevel},
		{name: "custom level", cfg: config.LogConfig{Level: "debug"}, wantLevel: zerolog.DebugLevel},
		{name: "pretty output", cfg: config.LogConfig{Level: "warn", Pretty: true}, wantLevel: zerolog.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() { InitializeLogger(tt.cfg) })
			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())
		})
	}
}
