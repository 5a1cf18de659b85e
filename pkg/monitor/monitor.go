// Package monitor keeps the latest rebalance status of one account.
//
// Only the refresh path writes the status cell; it is coalesced through a
// singleflight group so HTTP handlers and the poller never race on it.
package monitor

import (
	"context"
	"fmt"
	"levguard/pkg/exchange"
	"levguard/pkg/rebalance"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const DefaultFetchTimeout = 15 * time.Second

const refreshKey = "refresh"

type Options struct {
	Symbol       string // universal symbol, e.g. BTC/USDT
	SpotAsset    string // empty skips the spot balance query
	Params       rebalance.Params
	CacheTTL     time.Duration
	FetchTimeout time.Duration
	Now          func() time.Time
}

type Monitor struct {
	exchange exchange.Exchange
	opts     Options

	group    singleflight.Group
	latest   atomic.Pointer[Status] // last refresh result, good or bad
	lastGood atomic.Pointer[Status]
	fetches  atomic.Int64

	startedAt time.Time
	logger    *log.Entry
}

func New(exchg exchange.Exchange, opts Options) *Monitor {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	return &Monitor{
		exchange:  exchg,
		opts:      opts,
		startedAt: opts.Now(),
		logger: log.WithFields(log.Fields{
			"exchange": exchg.Name(),
			"symbol":   opts.Symbol,
		}),
	}
}

// Status serves the last good status while it is younger than the cache ttl,
// and refreshes from the exchange otherwise. Errors are never served from cache.
func (m *Monitor) Status(ctx context.Context) *Status {
	if good := m.lastGood.Load(); good != nil && m.opts.Now().Sub(good.UpdatedAt) < m.opts.CacheTTL {
		return good
	}
	return m.Refresh(ctx)
}

// Refresh queries the exchange and publishes the result. Concurrent callers share one round trip.
func (m *Monitor) Refresh(ctx context.Context) *Status {
	ch := m.group.DoChan(refreshKey, func() (interface{}, error) {
		// detached from the first caller so its cancellation does not fail the others
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.opts.FetchTimeout)
		defer cancel()
		return m.refresh(fetchCtx), nil
	})

	select {
	case res := <-ch:
		return res.Val.(*Status)
	case <-ctx.Done():
		return &Status{Err: fmt.Errorf("fail to refresh status: %w", ctx.Err()), UpdatedAt: m.opts.Now()}
	}
}

func (m *Monitor) refresh(ctx context.Context) *Status {
	m.fetches.Add(1)
	status := &Status{UpdatedAt: m.opts.Now()}

	snapshot, err := m.fetchSnapshot(ctx)
	if err == nil {
		var plan rebalance.Plan
		plan, err = rebalance.Calculate(snapshot, m.opts.Params)
		if err == nil {
			status.Plan = &plan
		}
	}
	if err != nil {
		status.Err = err
		m.logger.Warnf("fail to refresh status: %v", err)
	} else {
		m.lastGood.Store(status)
		m.logger.Debugf("status refreshed: leverage %v, transfer %v", status.Plan.CurrentLeverage.StringFixed(2), status.Plan.Transfer.StringFixed(2))
	}
	m.latest.Store(status)
	return status
}

func (m *Monitor) fetchSnapshot(ctx context.Context) (rebalance.Snapshot, error) {
	balance, pos, err := m.exchange.GetAccount(ctx, m.opts.Symbol)
	if err != nil {
		return rebalance.Snapshot{}, err
	}
	price, err := m.exchange.GetPrice(ctx, m.opts.Symbol)
	if err != nil {
		return rebalance.Snapshot{}, err
	}

	snapshot := rebalance.Snapshot{
		Symbol:        pos.Symbol,
		MarginBalance: balance,
		PositionQty:   pos.Qty,
		EntryPrice:    pos.EntryPrice,
		Price:         price,
		FetchedAt:     m.opts.Now(),
	}

	// spot balance only decorates the instruction
	if m.opts.SpotAsset != "" {
		spot, err := m.exchange.GetSpotBalance(ctx, m.opts.SpotAsset)
		if err != nil {
			m.logger.Warnf("fail to get spot balance of %s: %v", m.opts.SpotAsset, err)
		} else {
			snapshot.SpotBalance = &spot
		}
	}
	return snapshot, nil
}

// Latest returns the last refresh result without touching the exchange. Nil before the first refresh.
func (m *Monitor) Latest() *Status {
	return m.latest.Load()
}

func (m *Monitor) LastGood() *Status {
	return m.lastGood.Load()
}

// Fetches counts the exchange round trips made so far.
func (m *Monitor) Fetches() int64 {
	return m.fetches.Load()
}

type Health struct {
	UptimeS   int64      `json:"uptime_s"`
	LastPoll  *time.Time `json:"last_poll"`
	LastError string     `json:"last_error,omitempty"`
}

func (m *Monitor) Health() Health {
	health := Health{UptimeS: int64(m.opts.Now().Sub(m.startedAt).Seconds())}
	if latest := m.latest.Load(); latest != nil {
		updatedAt := latest.UpdatedAt
		health.LastPoll = &updatedAt
		if latest.Err != nil {
			health.LastError = latest.Err.Error()
		}
	}
	return health
}

func (m *Monitor) Symbol() string {
	return m.opts.Symbol
}

func (m *Monitor) TargetLeverage() decimal.Decimal {
	return m.opts.Params.TargetLeverage
}
