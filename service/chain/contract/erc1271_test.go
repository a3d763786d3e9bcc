package contract

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
	bCtx "github.com/x-xyz/marketapi/base/ctx"
	"github.com/x-xyz/marketapi/domain"
)

func TestErc1271_IsValidSignature(t *testing.T) {
	ctx := bCtx.Background()
	chainId := domain.ChainId(11155111)
	walletAddr := domain.Address("0xAc461fDFc10C71861f37fe42589334e021BaA1ee")
	hash := common.HexToHash("0x01f6f4c6639ea7f7d4df5425aaefe85113235810e9dd52ccf56297a16191c3ea")
	sig := hexutil.MustDecode("0xfae5218f6165f30bf7d8798d6f1990fde8fea58c336b36c8cd3078b4d8dc2a9d0448debd2b776fb0f6bdf91d1142474d4682057d290561814172bce4641108641c")

	tests := []struct {
		name    string
		output  [4]byte
		err     error
		want    bool
		wantErr bool
	}{
		{
			name:   "magic value",
			output: [4]byte{0x16, 0x26, 0xba, 0x7e},
			want:   true,
		},
		{
			name:   "other value",
			output: [4]byte{0xff, 0xff, 0xff, 0xff},
			want:   false,
		},
		{
			name:    "call failed",
			err:     errors.New("execution reverted"),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			client := &abiClient{
				outputs: map[string][]interface{}{"isValidSignature": {tt.output}},
				errs:    map[string]error{"isValidSignature": tt.err},
			}
			got, err := NewErc1271(client).IsValidSignature(ctx, chainId, walletAddr, hash, sig)
			if tt.wantErr {
				req.Error(err)
				return
			}
			req.NoError(err)
			req.Equal(tt.want, got)
			req.Equal([]string{"isValidSignature"}, client.calls)
		})
	}
}
