package core

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Run blocks until ctx is done, polling the exchange when enabled.
func Run(ctx context.Context, universe *Universe) error {
	log.Info("🦿 Running...")

	if universe.Poller == nil {
		<-ctx.Done()
		return nil
	}
	return universe.Poller.Run(ctx)
}
