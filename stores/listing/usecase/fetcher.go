package usecase

import (
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/viney-shih/goroutines"
	bCtx "github.com/x-xyz/marketapi/base/ctx"
	"github.com/x-xyz/marketapi/base/log"
	"github.com/x-xyz/marketapi/base/metrics"
	pricefomatter "github.com/x-xyz/marketapi/base/price_fomatter"
	"github.com/x-xyz/marketapi/domain"
	"github.com/x-xyz/marketapi/domain/listing"
	"golang.org/x/xerrors"
)

type FetcherCfg struct {
	Contract      listing.MarketplaceContract
	Metadata      listing.MetadataUseCase
	FailurePolicy listing.FailurePolicy
	// Workers > 1 resolves items concurrently, results keep the contract order
	Workers int
	Now     func() time.Time
}

type fetcherImpl struct {
	contract listing.MarketplaceContract
	metadata listing.MetadataUseCase
	policy   listing.FailurePolicy
	workers  int
	now      func() time.Time
	met      metrics.Service
}

func NewFetcher(cfg *FetcherCfg) listing.Fetcher {
	policy := cfg.FailurePolicy
	if policy == "" {
		policy = listing.FailurePolicySkip
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &fetcherImpl{
		contract: cfg.Contract,
		metadata: cfg.Metadata,
		policy:   policy,
		workers:  cfg.Workers,
		now:      now,
		met:      metrics.New("listing"),
	}
}

// item is the outcome of resolving one listed token
type item struct {
	listing listing.Listing
	failure *listing.Failure
	err     error
}

func (f *fetcherImpl) FetchListings(c bCtx.Ctx, session *domain.Session) (res listing.Result) {
	res = listing.Result{
		Listings:  []listing.Listing{},
		CycleId:   uuid.New().String(),
		FetchedAt: f.now(),
	}
	defer func() {
		f.met.BumpSum("status", 1, "status", string(res.Status))
	}()

	if session == nil {
		res.Status = listing.StatusNotConnected
		res.Err = domain.ErrNoSession
		return res
	}

	c = bCtx.WithFields(c, log.Fields{"cycleId": res.CycleId, "address": session.Address})
	defer f.met.BumpTime("fetch.time").End()

	raws, err := f.contract.GetAllListedNFTs(c)
	if err != nil {
		if c.Err() != nil {
			return canceled(res, c.Err())
		}
		c.WithField("err", err).Error("contract.GetAllListedNFTs failed")
		res.Status = listing.StatusQueryFailed
		res.Err = err
		return res
	}
	f.met.BumpHistogram("items", float64(len(raws)))
	if len(raws) == 0 {
		res.Status = listing.StatusEmpty
		return res
	}

	var items []item
	if f.workers > 1 && len(raws) > 1 {
		items = f.resolveParallel(c, raws)
	} else {
		items = f.resolveSequential(c, raws)
	}
	if c.Err() != nil {
		return canceled(res, c.Err())
	}

	listings := make([]listing.Listing, 0, len(items))
	for _, it := range items {
		if it.failure == nil {
			listings = append(listings, it.listing)
			continue
		}
		f.met.BumpSum("item.err", 1, "stage", string(it.failure.Stage))
		res.Failures = append(res.Failures, *it.failure)
		if f.policy == listing.FailurePolicyAbort {
			c.WithFields(log.Fields{
				"tokenId": it.failure.TokenId,
				"stage":   it.failure.Stage,
				"err":     it.err,
			}).Warn("item failed, discarding cycle")
			res.Status = listing.StatusMetadataFailed
			res.Err = it.err
			return res
		}
	}

	res.Listings = listings
	if len(res.Failures) > 0 {
		c.WithFields(log.Fields{
			"failures": len(res.Failures),
			"listings": len(listings),
		}).Warn("some listings were skipped")
		res.Status = listing.StatusPartial
	} else {
		res.Status = listing.StatusOk
	}
	return res
}

func canceled(res listing.Result, err error) listing.Result {
	res.Status = listing.StatusCanceled
	res.Listings = []listing.Listing{}
	res.Failures = nil
	res.Err = err
	return res
}

// resolveSequential stops at the first failure under the abort policy, since
// the cycle is discarded anyway
func (f *fetcherImpl) resolveSequential(c bCtx.Ctx, raws []listing.RawListing) []item {
	items := make([]item, 0, len(raws))
	for _, raw := range raws {
		if c.Err() != nil {
			break
		}
		it := f.resolve(c, raw)
		items = append(items, it)
		if it.failure != nil && f.policy == listing.FailurePolicyAbort {
			break
		}
	}
	return items
}

type indexedItem struct {
	idx  int
	item item
}

// resolveParallel reassembles results by index, the batch yields them in completion order
func (f *fetcherImpl) resolveParallel(c bCtx.Ctx, raws []listing.RawListing) []item {
	b := goroutines.NewBatch(f.workers, goroutines.WithBatchSize(len(raws)))
	defer b.Close()
	for i := range raws {
		idx := i
		b.Queue(func() (interface{}, error) {
			if c.Err() != nil {
				return nil, c.Err()
			}
			return &indexedItem{idx: idx, item: f.resolve(c, raws[idx])}, nil
		})
	}
	b.QueueComplete()

	items := make([]item, len(raws))
	for ret := range b.Results() {
		if ret.Error() != nil {
			continue
		}
		it := ret.Value().(*indexedItem)
		items[it.idx] = it.item
	}
	return items
}

func (f *fetcherImpl) resolve(c bCtx.Ctx, raw listing.RawListing) item {
	fail := func(stage listing.Stage, err error) item {
		var tokenId *big.Int
		if raw.TokenId != nil {
			tokenId = new(big.Int).Set(raw.TokenId)
		}
		return item{
			failure: &listing.Failure{TokenId: tokenId, Stage: stage, Reason: err.Error()},
			err:     err,
		}
	}
	if raw.TokenId == nil {
		return fail(listing.StageTokenURI, xerrors.Errorf("missing token id: %w", domain.ErrUnexpectedResponse))
	}
	c = bCtx.WithFields(c, log.Fields{"tokenId": raw.TokenId.String()})

	uri, err := f.contract.TokenURI(c, raw.TokenId)
	if err != nil {
		c.WithField("err", err).Warn("contract.TokenURI failed")
		return fail(listing.StageTokenURI, err)
	}

	meta, err := f.metadata.GetMetadata(c, uri)
	if err != nil {
		c.WithFields(log.Fields{"uri": uri, "err": err}).Warn("metadata.GetMetadata failed")
		return fail(listing.StageMetadata, err)
	}

	price, err := pricefomatter.FormatEther(raw.Price)
	if err != nil {
		c.WithFields(log.Fields{"price": raw.Price, "err": err}).Warn("FormatEther failed")
		return fail(listing.StagePrice, err)
	}

	return item{listing: listing.NewListing(raw, price, meta)}
}
