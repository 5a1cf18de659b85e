package core

import (
	"context"
	"testing"
	"time"

	"levguard/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_StopsOnCancel(t *testing.T) {
	universe := newTestUniverse(t, &config.DummyConfig{MarginBalance: 1000, PositionQty: 0.05, Price: 40000})

	ctx, cancel := context.WithCancel(context.Background())
	errC := make(chan error, 1)
	go func() { errC <- Run(ctx, universe) }()
	cancel()

	select {
	case err := <-errC:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		require.Fail(t, "Run did not return after cancel")
	}
}
