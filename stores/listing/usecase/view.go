package usecase

import (
	"context"
	"sync"
	"time"

	bCtx "github.com/x-xyz/marketapi/base/ctx"
	"github.com/x-xyz/marketapi/base/goroutine"
	"github.com/x-xyz/marketapi/base/log"
	"github.com/x-xyz/marketapi/base/metrics"
	pricefomatter "github.com/x-xyz/marketapi/base/price_fomatter"
	"github.com/x-xyz/marketapi/domain"
	"github.com/x-xyz/marketapi/domain/listing"
	"golang.org/x/xerrors"
)

type ViewCfg struct {
	Fetcher  listing.Fetcher
	Contract listing.MarketplaceContract
	// SnapshotTtl bounds how long Load serves a published result, zero always refreshes
	SnapshotTtl time.Duration
	Now         func() time.Time
}

// idle snapshots older than this many ttls are evicted on Refresh
const evictAfterTtls = 4

type entry struct {
	gen         uint64
	cancel      context.CancelFunc
	published   *listing.Result
	publishedAt time.Time
}

type viewImpl struct {
	fetcher  listing.Fetcher
	contract listing.MarketplaceContract
	ttl      time.Duration
	now      func() time.Time
	met      metrics.Service

	mu      sync.Mutex
	gen     uint64
	entries map[domain.Address]*entry
}

func NewView(cfg *ViewCfg) listing.ViewUseCase {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &viewImpl{
		fetcher:  cfg.Fetcher,
		contract: cfg.Contract,
		ttl:      cfg.SnapshotTtl,
		now:      now,
		met:      metrics.New("listing"),
		entries:  make(map[domain.Address]*entry),
	}
}

func (v *viewImpl) Load(c bCtx.Ctx, session *domain.Session) listing.Result {
	if session == nil {
		return v.fetcher.FetchListings(c, nil)
	}

	key := session.Address.ToLower()
	v.mu.Lock()
	if e, ok := v.entries[key]; ok && e.published != nil && v.now().Sub(e.publishedAt) < v.ttl {
		res := *e.published
		v.mu.Unlock()
		return res
	}
	v.mu.Unlock()

	return v.Refresh(c, session)
}

func (v *viewImpl) Refresh(c bCtx.Ctx, session *domain.Session) listing.Result {
	if session == nil {
		return v.fetcher.FetchListings(c, nil)
	}

	key := session.Address.ToLower()
	cycleCtx, cancel := bCtx.WithCancel(c)
	defer cancel()

	v.mu.Lock()
	v.evictIdle(key)
	e, ok := v.entries[key]
	if !ok {
		e = &entry{}
		v.entries[key] = e
	}
	if e.cancel != nil {
		e.cancel()
		v.met.BumpSum("view.superseded", 1)
	}
	v.gen++
	gen := v.gen
	e.gen = gen
	e.cancel = cancel
	v.mu.Unlock()

	res := v.runCycle(cycleCtx, session)

	v.mu.Lock()
	defer v.mu.Unlock()
	if cur, ok := v.entries[key]; !ok || cur != e || e.gen != gen {
		c.WithFields(log.Fields{
			"address": key,
			"cycleId": res.CycleId,
			"status":  res.Status,
		}).Info("cycle superseded, result dropped")
		return supersededResult(res)
	}
	e.cancel = nil
	if !res.Published() {
		return res
	}
	e.published = &res
	e.publishedAt = v.now()
	return res
}

// evictIdle drops entries with no cycle in flight whose snapshot is long
// expired, so addresses that never sign out do not pile up. Caller holds mu.
func (v *viewImpl) evictIdle(keep domain.Address) {
	cutoff := v.now().Add(-evictAfterTtls * v.ttl)
	for key, e := range v.entries {
		if key == keep || e.cancel != nil {
			continue
		}
		if e.publishedAt.Before(cutoff) || e.publishedAt.Equal(cutoff) {
			delete(v.entries, key)
		}
	}
}

// runCycle reports a panicking fetch as a failed query
func (v *viewImpl) runCycle(c bCtx.Ctx, session *domain.Session) listing.Result {
	resCh := make(chan listing.Result, 1)
	panicCh := goroutine.RecoverableGo(func() {
		resCh <- v.fetcher.FetchListings(c, session)
	})
	if p, ok := <-panicCh; ok && p != nil {
		return listing.Result{
			Status:    listing.StatusQueryFailed,
			Listings:  []listing.Listing{},
			FetchedAt: v.now(),
			Err:       xerrors.Errorf("fetch panicked: %v", p.Panic),
		}
	}
	return <-resCh
}

func supersededResult(res listing.Result) listing.Result {
	res.Status = listing.StatusCanceled
	res.Listings = []listing.Listing{}
	res.Failures = nil
	res.Err = context.Canceled
	return res
}

func (v *viewImpl) Forget(address domain.Address) {
	key := address.ToLower()
	v.mu.Lock()
	defer v.mu.Unlock()
	if e, ok := v.entries[key]; ok {
		if e.cancel != nil {
			e.cancel()
		}
		delete(v.entries, key)
	}
}

func (v *viewImpl) Summary(c bCtx.Ctx) (*listing.Summary, error) {
	fee, err := v.contract.GetListPrice(c)
	if err != nil {
		c.WithField("err", err).Error("contract.GetListPrice failed")
		return nil, err
	}
	listPrice, err := pricefomatter.FormatEther(fee)
	if err != nil {
		c.WithFields(log.Fields{"fee": fee, "err": err}).Error("FormatEther failed")
		return nil, err
	}
	current, err := v.contract.GetCurrentToken(c)
	if err != nil {
		c.WithField("err", err).Error("contract.GetCurrentToken failed")
		return nil, err
	}
	return &listing.Summary{
		ChainId:      v.contract.ChainId(),
		Address:      v.contract.Address(),
		ListPrice:    listPrice,
		CurrentToken: current,
	}, nil
}
