package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/market_radar/app/display/internal/conf"
)

func TestCacheTTL(t *testing.T) {
	ttl, err := cacheTTL(nil)
	require.NoError(t, err)
	assert.Zero(t, ttl)

	ttl, err = cacheTTL(&conf.Data{CacheTTL: "90s"})
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, ttl)

	_, err = cacheTTL(&conf.Data{CacheTTL: "ten minutes"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache_ttl")
}

func TestInitAppRejectsBadCacheTTL(t *testing.T) {
	_, cleanup, err := initApp(nil, &conf.Data{CacheTTL: "soon"}, nil, nil)
	assert.Error(t, err)
	assert.Nil(t, cleanup)
}
