package healthcheck

import (
	"github.com/x-xyz/marketapi/base/ctx"
)

// HealthCheckUsecase represents the healthCheck's usecases
type HealthCheckUsecase interface {
	Check(context ctx.Ctx) error
}

// HealthCheckRepo is repository layer of healthCheck
type HealthCheckRepo interface {
	PingCache(context ctx.Ctx) error
	PingChain(context ctx.Ctx) error
}
