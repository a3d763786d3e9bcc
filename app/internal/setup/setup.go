// Package setup builds the components shared by the binaries from the viper config
package setup

import (
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	ipfsapi "github.com/ipfs/go-ipfs-api"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	baseabi "github.com/x-xyz/marketapi/base/abi"
	"github.com/x-xyz/marketapi/base/ctx"
	"github.com/x-xyz/marketapi/base/database/redisclient"
	"github.com/x-xyz/marketapi/base/log"
	"github.com/x-xyz/marketapi/domain"
	"github.com/x-xyz/marketapi/domain/listing"
	"github.com/x-xyz/marketapi/service/cache/provider"
	"github.com/x-xyz/marketapi/service/cache/provider/compound"
	"github.com/x-xyz/marketapi/service/cache/provider/primitive"
	redisprovider "github.com/x-xyz/marketapi/service/cache/provider/redis"
	"github.com/x-xyz/marketapi/service/chain"
	"github.com/x-xyz/marketapi/service/chain/contract"
	webresource_repository "github.com/x-xyz/marketapi/stores/web_resource/repository"
	webresource_usecase "github.com/x-xyz/marketapi/stores/web_resource/usecase"
)

const (
	defaultIpfsGateway = "https://ipfs.io/ipfs"
	defaultCacheSizeMb = 64
)

// Config parses the command line and reads the yaml file named by --config
func Config(flags *pflag.FlagSet, args []string) {
	configFile := flags.StringP("config", "c", "infra/configs/config.yaml", "path of the yaml config")
	if err := flags.Parse(args); err != nil {
		panic(err)
	}
	if err := viper.BindPFlags(flags); err != nil {
		panic(err)
	}

	viper.SetConfigType("yaml")
	viper.SetConfigFile(*configFile)
	if err := viper.ReadInConfig(); err != nil {
		panic(err)
	}

	if lvl := viper.GetString("log.level"); lvl != "" {
		if err := log.SetLevel(lvl); err != nil {
			log.Log().WithFields(log.Fields{"level": lvl, "err": err}).Warn("invalid log level")
		}
	}
	if viper.GetBool(`debug`) {
		_ = log.SetLevel("debug")
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

// CacheProvider keeps a local layer in front of redis when redis is configured
func CacheProvider(context ctx.Ctx) provider.Provider {
	sizeMb := viper.GetInt("cache.sizeMb")
	if sizeMb <= 0 {
		sizeMb = defaultCacheSizeMb
	}
	local := primitive.NewPrimitive("local", sizeMb)

	switch p := viper.GetString("cache.provider"); p {
	case "", "local":
		context.Info("init local cache")
		return local
	case "redis":
		context.Info("init redis cache")
		pool := redisclient.MustConnectRedis(viper.GetString("redis.uri"), viper.GetString("redis.password"), redisclient.RedisParam{
			PoolMultiplier: viper.GetFloat64("redis.poolMultiplier"),
			Retry:          true,
		})
		return compound.NewCompound([]provider.Provider{local, redisprovider.NewRedis("redis", pool)})
	default:
		context.WithField("provider", p).Panic("unknown cache provider")
		return nil
	}
}

// ChainService dials every network under "networks"
func ChainService(context ctx.Ctx) chain.Client {
	networks := viper.Sub("networks")
	rpcs := make(map[domain.ChainId]string)
	if networks != nil {
		for k := range networks.AllSettings() {
			chainId := domain.ChainId(networks.GetInt32(fmt.Sprintf("%s.chainId", k)))
			rpcs[chainId] = networks.GetString(fmt.Sprintf("%s.rpcUrl", k))
		}
	}
	chainService, err := chain.NewClient(context, &chain.ClientCfg{
		RpcUrls:        rpcs,
		MaxConcurrency: viper.GetInt("chain.maxConcurrency"),
	})
	if err != nil {
		context.WithField("err", err).Warn("chainService started with error")
	}
	return chainService
}

func MarketplaceChainId() domain.ChainId {
	return domain.ChainId(viper.GetInt32("marketplace.chainId"))
}

// Marketplace prefers the deployment artifact, then the configured address with the bundled abi
func Marketplace(context ctx.Ctx, chainService chain.Client) listing.MarketplaceContract {
	chainId := MarketplaceChainId()
	if path := viper.GetString("marketplace.artifact"); path != "" {
		artifact, err := baseabi.LoadArtifact(path)
		if err != nil {
			context.WithFields(log.Fields{"path": path, "err": err}).Panic("LoadArtifact failed")
		}
		return contract.NewMarketplace(chainService, chainId, artifact.Address, artifact.ABI)
	}
	address := viper.GetString("marketplace.address")
	if !common.IsHexAddress(address) {
		context.WithField("address", address).Panic("invalid marketplace address")
	}
	return contract.NewMarketplace(chainService, chainId, common.HexToAddress(address), baseabi.MarketplaceABI)
}

func WebResource() domain.WebResourceUseCase {
	httpCfg := webresource_repository.HttpCfg{
		Client:       &http.Client{},
		Timeout:      viper.GetDuration("http.timeout"),
		MaxBodyBytes: viper.GetInt64("http.maxBodyBytes"),
	}

	var ipfsReader domain.WebResourceReaderRepository
	if api := viper.GetString("ipfs.api"); api != "" {
		ipfsReader = webresource_repository.NewIpfsNodeApiReaderRepo(ipfsapi.NewShell(api), viper.GetDuration("ipfs.timeout"), httpCfg.MaxBodyBytes)
	} else {
		gateway := viper.GetString("ipfs.gateway")
		if gateway == "" {
			gateway = defaultIpfsGateway
		}
		ipfsReader = webresource_repository.NewIpfsGatewayReaderRepo(httpCfg, gateway)
	}

	arGateway := viper.GetString("arweave.gateway")
	if arGateway == "" {
		arGateway = webresource_repository.DefaultArGateway
	}

	return webresource_usecase.NewWebResourceUseCase(&webresource_usecase.WebResourceUseCaseCfg{
		HttpReader:    webresource_repository.NewHttpReaderRepo(httpCfg),
		IpfsReader:    ipfsReader,
		DataUriReader: webresource_repository.NewDataUriReaderRepo(httpCfg.MaxBodyBytes),
		ArUriReader:   webresource_repository.NewArReaderRepo(httpCfg, arGateway),
	})
}

// FailurePolicy panics on an unknown listing.failurePolicy
func FailurePolicy(context ctx.Ctx) listing.FailurePolicy {
	raw := viper.GetString("listing.failurePolicy")
	policy, ok := listing.ToFailurePolicy(raw)
	if !ok {
		context.WithField("failurePolicy", raw).Panic("invalid failure policy")
	}
	return policy
}
