package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/x-xyz/marketapi/app/internal/setup"
	"github.com/x-xyz/marketapi/base/ctx"
	"github.com/x-xyz/marketapi/base/log"
	bValidator "github.com/x-xyz/marketapi/base/validator"
	"github.com/x-xyz/marketapi/domain"
	"github.com/x-xyz/marketapi/domain/keys"
	"github.com/x-xyz/marketapi/domain/listing"
	"github.com/x-xyz/marketapi/service/cache"
	"github.com/x-xyz/marketapi/service/cache/provider/primitive"
	listing_usecase "github.com/x-xyz/marketapi/stores/listing/usecase"
	metadata_usecase "github.com/x-xyz/marketapi/stores/metadata/usecase"
)

// listings prints one fetch cycle for a wallet address as json
func main() {
	flags := pflag.CommandLine
	address := flags.StringP("address", "a", "", "connected wallet address, empty means not connected")
	flags.String("policy", "", "per item failure policy, skip or abort")
	flags.Int("workers", 0, "concurrent per item fetches")
	flags.Duration("timeout", time.Minute, "deadline of the fetch cycle")
	setup.Config(flags, os.Args[1:])
	for key, flag := range map[string]string{
		"listing.failurePolicy": "policy",
		"listing.workers":       "workers",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	context, cancel := ctx.WithTimeout(ctx.Background(), viper.GetDuration("timeout"))
	defer cancel()
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	var session *domain.Session
	if *address != "" {
		if !bValidator.IsValidAddress(*address) {
			context.WithField("address", *address).Error("invalid address")
			os.Exit(2)
		}
		session = &domain.Session{
			Id:        uuid.New().String(),
			Address:   domain.Address(*address).ToLower(),
			ExpiresAt: time.Now().Add(viper.GetDuration("timeout")),
		}
	}

	chainService := setup.ChainService(context)
	marketplace := setup.Marketplace(context, chainService)
	metadata := metadata_usecase.NewMetadataUseCase(&metadata_usecase.MetadataUseCaseCfg{
		WebResource: setup.WebResource(),
		Cache: cache.New(cache.ServiceConfig{
			Ttl:   viper.GetDuration("metadata.cacheTtl"),
			Pfx:   keys.PfxMetadata,
			Cache: primitive.NewPrimitive("local", 16),
		}),
		Retries:      viper.GetInt("metadata.retries"),
		RetryBackoff: viper.GetDuration("metadata.retryBackoff"),
	})
	fetcher := listing_usecase.NewFetcher(&listing_usecase.FetcherCfg{
		Contract:      marketplace,
		Metadata:      metadata,
		FailurePolicy: setup.FailurePolicy(context),
		Workers:       viper.GetInt("listing.workers"),
	})

	res := fetcher.FetchListings(context, session)
	if msg := res.Status.Message(); msg != "" {
		fmt.Fprintln(os.Stderr, msg)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		context.WithField("err", err).Error("encode failed")
		os.Exit(1)
	}
	log.Sync()

	switch res.Status {
	case listing.StatusOk, listing.StatusEmpty, listing.StatusPartial:
	default:
		os.Exit(1)
	}
}
