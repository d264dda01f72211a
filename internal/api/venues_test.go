package api

import (
	"testing"

	"github.com/Alias1177/VolumeMonitor/internal/config"
	"github.com/Alias1177/VolumeMonitor/internal/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVenue(t *testing.T) {
	for _, name := range []string{config.VenueMEXC, config.VenueBinance} {
		cfg := config.Default()
		cfg.Venue = name

		v, err := NewVenue(cfg)
		require.NoError(t, err)
		assert.Equal(t, name, v.Name())
		assert.NotNil(t, v.Spot)
		assert.NotNil(t, v.Futures)
	}

	cfg := config.Default()
	cfg.Venue = "kraken"
	_, err := NewVenue(cfg)
	assert.Equal(t, market.ErrUnknownVenue("kraken"), err)
}
