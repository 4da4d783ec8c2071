package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_ClientOptions(t *testing.T) {
	opts := Config{URI: "mongodb://localhost:27017", Database: "library"}.clientOptions()

	require.NotNil(t, opts.AppName)
	assert.Equal(t, appName, *opts.AppName)
	require.NotNil(t, opts.ServerSelectionTimeout)
	assert.Equal(t, defaultTimeout, *opts.ServerSelectionTimeout)

	opts = Config{URI: "mongodb://localhost:27017", Timeout: 2 * time.Second}.clientOptions()
	assert.Equal(t, 2*time.Second, *opts.ServerSelectionTimeout)
}

func TestConnect_RequiresDatabase(t *testing.T) {
	_, _, err := Connect(context.Background(), Config{URI: "mongodb://localhost:27017"})
	assert.ErrorContains(t, err, "empty database name")
}
