package repository

import (
	bCtx "github.com/x-xyz/marketapi/base/ctx"
	"github.com/x-xyz/marketapi/domain"
)

type httpReaderRepo struct {
	cfg HttpCfg
}

func NewHttpReaderRepo(cfg HttpCfg) domain.WebResourceReaderRepository {
	return &httpReaderRepo{cfg: cfg}
}

func (r *httpReaderRepo) Get(c bCtx.Ctx, url string) ([]byte, error) {
	return httpGet(c, r.cfg, url)
}
