package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	bCtx "github.com/x-xyz/marketapi/base/ctx"
	"github.com/x-xyz/marketapi/domain"
)

func Test_ipfsGatewayReaderRepo_Get(t *testing.T) {
	req := require.New(t)
	srv := newServer(t)
	ctx := bCtx.Background()

	for _, gateway := range []string{srv.URL + "/ipfs", srv.URL + "/ipfs/"} {
		r := NewIpfsGatewayReaderRepo(HttpCfg{Timeout: time.Second}, gateway)
		b, err := r.Get(ctx, "QmToken/1.json")
		req.NoError(err)
		req.Equal(tokenJson, string(b))
	}

	_, err := NewIpfsGatewayReaderRepo(HttpCfg{Timeout: time.Second}, srv.URL+"/ipfs").Get(ctx, "QmMissing")
	req.ErrorIs(err, domain.ErrUnexpectedResponse)
}
