package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Run("returns attached logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		ctx := WithLogger(context.Background(), logger)

		FromContext(ctx).Info("hello", "k", "v")
		require.Contains(t, buf.String(), "hello")
		require.Contains(t, buf.String(), "k=v")
	})

	t.Run("falls back to discard logger", func(t *testing.T) {
		logger := FromContext(context.Background())
		require.NotNil(t, logger)
		require.NotPanics(t, func() { logger.Info("dropped") })
	})
}
