package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestInit verifies logger initialization for different environments.
func TestInit(t *testing.T) {
	t.Run("Development", func(t *testing.T) {
		err := Init("development", "debug")
		require.NoError(t, err)
		assert.NotNil(t, globalLogger)
		assert.True(t, globalLogger.Core().Enabled(zap.DebugLevel))
	})

	t.Run("Production", func(t *testing.T) {
		err := Init("production", "info")
		require.NoError(t, err)
		assert.NotNil(t, globalLogger)
		assert.False(t, globalLogger.Core().Enabled(zap.DebugLevel))
		assert.True(t, globalLogger.Core().Enabled(zap.InfoLevel))
	})

	t.Run("InvalidLevel", func(t *testing.T) {
		err := Init("production", "invalid_level")
		require.NoError(t, err)
		assert.True(t, globalLogger.Core().Enabled(zap.InfoLevel))
	})
}

// TestGet verifies that Get never returns nil.
func TestGet(t *testing.T) {
	globalLogger = nil
	assert.NotNil(t, Get())

	require.NoError(t, Init("development", "info"))
	assert.Same(t, globalLogger, Get())
}

func TestNamed(t *testing.T) {
	globalLogger = nil
	assert.NotNil(t, Named("cart"))

	require.NoError(t, Init("development", "info"))
	assert.Equal(t, "cart", Named("cart").Name())
}

// TestSync verifies that Sync does not panic even if logger is nil.
func TestSync(t *testing.T) {
	globalLogger = nil
	Sync()

	require.NoError(t, Init("development", "info"))
	Sync()
}
