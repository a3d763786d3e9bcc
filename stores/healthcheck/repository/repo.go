package repository

import (
	"time"

	"github.com/x-xyz/marketapi/base/ctx"
	hcdomain "github.com/x-xyz/marketapi/domain/healthcheck"
	"github.com/x-xyz/marketapi/domain/listing"
	"github.com/x-xyz/marketapi/service/cache"
)

const pingTimeout = 2 * time.Second

type impl struct {
	cache    cache.Service
	contract listing.MarketplaceContract
}

// New creates new healthCheckRepo object representation of HealthCheckRepo interface
func New(
	cache cache.Service,
	contract listing.MarketplaceContract,
) hcdomain.HealthCheckRepo {
	return &impl{
		cache:    cache,
		contract: contract,
	}
}

func (im *impl) PingCache(context ctx.Ctx) error {
	ctx, cancel := ctx.WithTimeout(context, pingTimeout)
	defer cancel()
	if err := im.cache.Set(ctx, "testset", "1"); err != nil {
		context.WithField("err", err).Error("test cache set failed")
		return err
	}
	return nil
}

func (im *impl) PingChain(context ctx.Ctx) error {
	ctx, cancel := ctx.WithTimeout(context, pingTimeout)
	defer cancel()
	if _, err := im.contract.GetCurrentToken(ctx); err != nil {
		context.WithField("err", err).Error("ping chain error")
		return err
	}
	return nil
}
