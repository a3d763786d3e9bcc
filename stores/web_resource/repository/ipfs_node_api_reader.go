package repository

import (
	"time"

	ipfsapi "github.com/ipfs/go-ipfs-api"
	"github.com/x-xyz/marketapi/base/ctx"
	"github.com/x-xyz/marketapi/base/log"
	"github.com/x-xyz/marketapi/domain"
)

type ipfsNodeApiReaderRepo struct {
	shell      *ipfsapi.Shell
	ctxTimeout time.Duration
	maxBytes   int64
}

func NewIpfsNodeApiReaderRepo(s *ipfsapi.Shell, timeout time.Duration, maxBytes int64) domain.WebResourceReaderRepository {
	return &ipfsNodeApiReaderRepo{shell: s, ctxTimeout: timeout, maxBytes: maxBytes}
}

func (r *ipfsNodeApiReaderRepo) Get(c ctx.Ctx, cid string) ([]byte, error) {
	cont := c
	if r.ctxTimeout > 0 {
		var cancel func()
		cont, cancel = ctx.WithTimeout(c, r.ctxTimeout)
		defer cancel()
	}
	resp, err := r.shell.Request("cat", cid).Send(cont)
	if err != nil {
		c.WithFields(log.Fields{"cid": cid, "err": err}).Warn("shell.Request failed")
		return nil, err
	}
	defer resp.Close()
	if resp.Error != nil {
		c.WithFields(log.Fields{"cid": cid, "err": resp.Error}).Warn("ipfs cat failed")
		return nil, resp.Error
	}
	return readAll(resp.Output, r.maxBytes)
}
