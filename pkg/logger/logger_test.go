package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitAcceptsConsoleFormat(t *testing.T) {
	require.NoError(t, Init("debug", "console"))
	require.True(t, L().Core().Enabled(zapcore.DebugLevel))
}

func TestInitFallsBackOnUnknownValues(t *testing.T) {
	require.NoError(t, Init("chatty", "yamlish"))
	require.False(t, L().Core().Enabled(zapcore.DebugLevel))
	require.NotNil(t, WithModule("correlator"))
}
