package contract

import (
	"fmt"
	"math/big"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	bCtx "github.com/x-xyz/marketapi/base/ctx"
	"github.com/x-xyz/marketapi/domain"
	"github.com/x-xyz/marketapi/domain/listing"
	"github.com/x-xyz/marketapi/service/chain"
	"golang.org/x/xerrors"
)

// listedToken mirrors NFTMarketplace.ListedToken, field names must match the abi components
type listedToken struct {
	TokenId         *big.Int
	Owner           common.Address
	Seller          common.Address
	Price           *big.Int
	CurrentlyListed bool
}

type Marketplace struct {
	chainService chain.Client
	abi          ethabi.ABI
	chainId      domain.ChainId
	address      common.Address
}

func NewMarketplace(chainService chain.Client, chainId domain.ChainId, address common.Address, abi ethabi.ABI) listing.MarketplaceContract {
	return &Marketplace{
		chainService: chainService,
		abi:          abi,
		chainId:      chainId,
		address:      address,
	}
}

func (m *Marketplace) Address() domain.Address {
	return domain.Address(m.address.Hex())
}

func (m *Marketplace) ChainId() domain.ChainId {
	return m.chainId
}

func (m *Marketplace) GetAllListedNFTs(ctx bCtx.Ctx) ([]listing.RawListing, error) {
	method := "getAllListedNFTs"
	unpacked, err := m.chainService.Call(ctx, m.chainId, m.address, nil, m.abi, method)
	if err != nil {
		return nil, err
	}
	if len(unpacked) == 0 {
		return nil, xerrors.Errorf("%s: %w", method, domain.ErrUnexpectedResponse)
	}
	tokens, err := toListedTokens(unpacked[0])
	if err != nil {
		ctx.WithField("err", err).Error("toListedTokens failed")
		return nil, err
	}
	res := make([]listing.RawListing, 0, len(tokens))
	for _, t := range tokens {
		res = append(res, listing.RawListing{
			TokenId:         t.TokenId,
			Owner:           domain.Address(t.Owner.Hex()),
			Seller:          domain.Address(t.Seller.Hex()),
			Price:           t.Price,
			CurrentlyListed: t.CurrentlyListed,
		})
	}
	return res, nil
}

func (m *Marketplace) TokenURI(ctx bCtx.Ctx, tokenId *big.Int) (string, error) {
	method := "tokenURI"
	unpacked, err := m.chainService.Call(ctx, m.chainId, m.address, nil, m.abi, method, tokenId)
	if err != nil {
		return "", err
	}
	if len(unpacked) == 0 {
		return "", xerrors.Errorf("%s: %w", method, domain.ErrUnexpectedResponse)
	}
	uri, ok := unpacked[0].(string)
	if !ok {
		return "", xerrors.Errorf("%s: %w", method, domain.ErrUnexpectedResponse)
	}
	return uri, nil
}

func (m *Marketplace) GetListPrice(ctx bCtx.Ctx) (*big.Int, error) {
	return m.callUint256(ctx, "getListPrice")
}

func (m *Marketplace) GetCurrentToken(ctx bCtx.Ctx) (*big.Int, error) {
	return m.callUint256(ctx, "getCurrentToken")
}

func (m *Marketplace) callUint256(ctx bCtx.Ctx, method string) (*big.Int, error) {
	unpacked, err := m.chainService.Call(ctx, m.chainId, m.address, nil, m.abi, method)
	if err != nil {
		return nil, err
	}
	if len(unpacked) == 0 {
		return nil, xerrors.Errorf("%s: %w", method, domain.ErrUnexpectedResponse)
	}
	v, ok := unpacked[0].(*big.Int)
	if !ok {
		return nil, xerrors.Errorf("%s: %w", method, domain.ErrUnexpectedResponse)
	}
	return v, nil
}

// toListedTokens converts the anonymous struct slice produced by abi.Unpack.
// abi.ConvertType panics when the shapes differ.
func toListedTokens(v interface{}) (tokens []listedToken, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = xerrors.Errorf("%v: %w", fmt.Sprint(r), domain.ErrUnexpectedResponse)
		}
	}()
	tokens = *ethabi.ConvertType(v, new([]listedToken)).(*[]listedToken)
	return tokens, nil
}
