package repository

import (
	"fmt"
	"strings"

	bCtx "github.com/x-xyz/marketapi/base/ctx"
	"github.com/x-xyz/marketapi/domain"
)

type ipfsGatewayReaderRepo struct {
	cfg     HttpCfg
	gateway string
}

// NewIpfsGatewayReaderRepo reads "<cid>/<path>" through a gateway such as https://ipfs.io/ipfs
func NewIpfsGatewayReaderRepo(cfg HttpCfg, gateway string) domain.WebResourceReaderRepository {
	return &ipfsGatewayReaderRepo{cfg: cfg, gateway: strings.TrimSuffix(gateway, "/")}
}

func (r *ipfsGatewayReaderRepo) Get(c bCtx.Ctx, cid string) ([]byte, error) {
	return httpGet(bCtx.WithValue(c, "cid", cid), r.cfg, fmt.Sprintf("%s/%s", r.gateway, cid))
}
