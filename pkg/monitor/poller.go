package monitor

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// Hook is invoked by the poller after every refresh, in registration order.
type Hook interface {
	OnStatus(ctx context.Context, status *Status)
}

type HookFunc func(ctx context.Context, status *Status)

func (f HookFunc) OnStatus(ctx context.Context, status *Status) {
	f(ctx, status)
}

type Poller struct {
	monitor  *Monitor
	interval time.Duration
	hooks    []Hook
	logger   *log.Entry
}

func NewPoller(m *Monitor, interval time.Duration, hooks ...Hook) *Poller {
	return &Poller{
		monitor:  m,
		interval: interval,
		hooks:    hooks,
		logger:   log.WithField("component", "poller"),
	}
}

// Run refreshes immediately, then on every interval until ctx is done.
// A failed refresh is logged and retried on the next tick.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Infof("⏱️ polling every %v", p.interval)
	p.tick(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poller stopped")
			return nil
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	status := p.monitor.Refresh(ctx)
	if ctx.Err() != nil {
		return
	}
	if status.OK() && status.Plan.ActionNeeded {
		p.logger.Warnf("rebalance needed: leverage %v, transfer %v USDT, sell %v",
			status.Plan.CurrentLeverage.StringFixed(2), status.Plan.Transfer.StringFixed(2), status.Plan.SellSpot.StringFixed(5))
	}
	for _, hook := range p.hooks {
		hook.OnStatus(ctx, status)
	}
}
