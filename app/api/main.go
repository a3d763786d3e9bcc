package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/x-xyz/marketapi/app/internal/setup"
	"github.com/x-xyz/marketapi/base/ctx"
	"github.com/x-xyz/marketapi/base/log"
	bValidator "github.com/x-xyz/marketapi/base/validator"
	"github.com/x-xyz/marketapi/domain/keys"
	mmiddleware "github.com/x-xyz/marketapi/middleware"
	"github.com/x-xyz/marketapi/service/cache"
	"github.com/x-xyz/marketapi/service/chain/contract"
	hc_delivery "github.com/x-xyz/marketapi/stores/healthcheck/delivery/http"
	hc_repo "github.com/x-xyz/marketapi/stores/healthcheck/repository"
	hc_usecase "github.com/x-xyz/marketapi/stores/healthcheck/usecase"
	listing_delivery "github.com/x-xyz/marketapi/stores/listing/delivery/http"
	listing_usecase "github.com/x-xyz/marketapi/stores/listing/usecase"
	metadata_usecase "github.com/x-xyz/marketapi/stores/metadata/usecase"
	session_delivery "github.com/x-xyz/marketapi/stores/session/delivery/http"
	session_middleware "github.com/x-xyz/marketapi/stores/session/delivery/http/middleware"
	session_usecase "github.com/x-xyz/marketapi/stores/session/usecase"
)

func main() {
	setup.Config(pflag.CommandLine, os.Args[1:])

	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	cacheProvider := setup.CacheProvider(context)
	newCache := func(pfx string, ttl time.Duration) cache.Service {
		return cache.New(cache.ServiceConfig{
			Ttl:   ttl,
			Pfx:   pfx,
			Cache: cacheProvider,
		})
	}

	// init chain service
	chainService := setup.ChainService(context)
	marketplace := setup.Marketplace(context, chainService)
	erc1271Service := contract.NewErc1271(chainService)

	// construct repository, usecase and delivery
	metadata := metadata_usecase.NewMetadataUseCase(&metadata_usecase.MetadataUseCaseCfg{
		WebResource:  setup.WebResource(),
		Cache:        newCache(keys.PfxMetadata, viper.GetDuration("metadata.cacheTtl")),
		Retries:      viper.GetInt("metadata.retries"),
		RetryBackoff: viper.GetDuration("metadata.retryBackoff"),
	})
	fetcher := listing_usecase.NewFetcher(&listing_usecase.FetcherCfg{
		Contract:      marketplace,
		Metadata:      metadata,
		FailurePolicy: setup.FailurePolicy(context),
		Workers:       viper.GetInt("listing.workers"),
	})
	view := listing_usecase.NewView(&listing_usecase.ViewCfg{
		Fetcher:     fetcher,
		Contract:    marketplace,
		SnapshotTtl: viper.GetDuration("listing.snapshotTtl"),
	})
	session := session_usecase.New(&session_usecase.SessionUseCaseCfg{
		JwtSecret:  viper.GetString("session.jwtSecret"),
		Ttl:        viper.GetDuration("session.ttl"),
		SigningMsg: viper.GetString("session.signingMsg"),
		Nonces:     newCache(keys.PfxNonce, viper.GetDuration("session.nonceTtl")),
		Erc1271:    erc1271Service,
		ChainId:    setup.MarketplaceChainId(),
	})
	hc := hc_usecase.New(hc_repo.New(newCache(keys.PfxHealthCheck, 30*time.Second), marketplace))

	sessionMiddleware := session_middleware.New(session)

	hc_delivery.New(e, hc)
	session_delivery.New(e, session, view, sessionMiddleware)
	listing_delivery.New(e, view, sessionMiddleware, middL, newCache(keys.PfxHttpCache, viper.GetDuration("http.cacheTtl")))

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
	log.Sync()
}
