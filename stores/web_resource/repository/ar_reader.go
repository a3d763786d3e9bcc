package repository

import (
	"strings"

	bCtx "github.com/x-xyz/marketapi/base/ctx"
	"github.com/x-xyz/marketapi/domain"
	"golang.org/x/xerrors"
)

const (
	arUriSchema      = "ar://"
	DefaultArGateway = "https://arweave.net"
)

type arReaderRepo struct {
	cfg     HttpCfg
	gateway string
}

func NewArReaderRepo(cfg HttpCfg, gateway string) domain.WebResourceReaderRepository {
	if gateway == "" {
		gateway = DefaultArGateway
	}
	return &arReaderRepo{cfg: cfg, gateway: strings.TrimSuffix(gateway, "/")}
}

func (r *arReaderRepo) Get(c bCtx.Ctx, uri string) ([]byte, error) {
	if !strings.HasPrefix(uri, arUriSchema) {
		return nil, xerrors.Errorf("invalid ar uri")
	}
	return httpGet(c, r.cfg, r.gateway+"/"+strings.TrimPrefix(uri, arUriSchema))
}
