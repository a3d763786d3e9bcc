package usecase

import (
	"github.com/x-xyz/marketapi/base/ctx"
	hcdomain "github.com/x-xyz/marketapi/domain/healthcheck"
)

type impl struct {
	repo hcdomain.HealthCheckRepo
}

// New creates new healthCheckUsecase object representation of HealthCheckUsecase interface
func New(repo hcdomain.HealthCheckRepo) hcdomain.HealthCheckUsecase {
	return &impl{
		repo: repo,
	}
}

func (im *impl) Check(context ctx.Ctx) error {
	if err := im.repo.PingCache(context); err != nil {
		return err
	}
	return im.repo.PingChain(context)
}
