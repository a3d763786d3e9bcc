package listing

import (
	"math/big"
	"time"

	"github.com/x-xyz/marketapi/base/ctx"
	"github.com/x-xyz/marketapi/domain"
)

// RawListing is a ListedToken tuple as returned by getAllListedNFTs
type RawListing struct {
	TokenId         *big.Int
	Owner           domain.Address
	Seller          domain.Address
	Price           *big.Int
	CurrentlyListed bool
}

// Metadata is the off-chain document a tokenURI points to
type Metadata struct {
	Image       string `json:"image"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Listing struct {
	TokenId     *big.Int       `json:"tokenId"`
	Price       string         `json:"price"`
	Seller      domain.Address `json:"seller"`
	Owner       domain.Address `json:"owner"`
	Image       string         `json:"image"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
}

// NewListing combines the on-chain tuple and the metadata document. The
// token id is copied so the record does not alias the contract response.
func NewListing(raw RawListing, price string, meta *Metadata) Listing {
	l := Listing{
		Price:  price,
		Seller: raw.Seller,
		Owner:  raw.Owner,
	}
	if raw.TokenId != nil {
		l.TokenId = new(big.Int).Set(raw.TokenId)
	}
	if meta != nil {
		l.Image = meta.Image
		l.Name = meta.Name
		l.Description = meta.Description
	}
	return l
}

type Status string

const (
	StatusNotConnected   Status = "not_connected"
	StatusQueryFailed    Status = "query_failed"
	StatusEmpty          Status = "empty"
	StatusOk             Status = "ok"
	StatusPartial        Status = "partial"
	StatusMetadataFailed Status = "metadata_failed"
	StatusCanceled       Status = "canceled"
)

var statusMessages = map[Status]string{
	StatusNotConnected:   "You are not connected",
	StatusQueryFailed:    "Failed to query listings",
	StatusEmpty:          "No NFT Listed Now",
	StatusPartial:        "Some listings could not be loaded",
	StatusMetadataFailed: "Failed to load listing metadata",
	StatusCanceled:       "Superseded by a newer refresh",
}

// Message is the text a consumer shows next to the listings, empty for ok
func (s Status) Message() string {
	return statusMessages[s]
}

// Stage names the remote call an item failed at
type Stage string

const (
	StageTokenURI Stage = "tokenURI"
	StageMetadata Stage = "metadata"
	StagePrice    Stage = "price"
)

type Failure struct {
	TokenId *big.Int `json:"tokenId"`
	Stage   Stage    `json:"stage"`
	Reason  string   `json:"reason"`
}

type Result struct {
	Status    Status    `json:"status"`
	Listings  []Listing `json:"listings"`
	Failures  []Failure `json:"failures,omitempty"`
	CycleId   string    `json:"cycleId,omitempty"`
	FetchedAt time.Time `json:"fetchedAt"`
	Err       error     `json:"-"`
}

// Published reports whether the result may replace a previously shown set
func (r Result) Published() bool {
	return r.Status != StatusCanceled
}

type FailurePolicy string

const (
	// FailurePolicySkip drops only the failing item
	FailurePolicySkip FailurePolicy = "skip"
	// FailurePolicyAbort discards the whole cycle on the first item failure
	FailurePolicyAbort FailurePolicy = "abort"
)

func ToFailurePolicy(s string) (FailurePolicy, bool) {
	switch FailurePolicy(s) {
	case FailurePolicySkip, "":
		return FailurePolicySkip, true
	case FailurePolicyAbort:
		return FailurePolicyAbort, true
	}
	return "", false
}

type Summary struct {
	ChainId      domain.ChainId `json:"chainId"`
	Address      domain.Address `json:"address"`
	ListPrice    string         `json:"listPrice"`
	CurrentToken *big.Int       `json:"currentToken"`
}

// MarketplaceContract is the remote query surface of the deployed marketplace
type MarketplaceContract interface {
	GetAllListedNFTs(c ctx.Ctx) ([]RawListing, error)
	TokenURI(c ctx.Ctx, tokenId *big.Int) (string, error)
	GetListPrice(c ctx.Ctx) (*big.Int, error)
	GetCurrentToken(c ctx.Ctx) (*big.Int, error)
	Address() domain.Address
	ChainId() domain.ChainId
}

type MetadataUseCase interface {
	GetMetadata(c ctx.Ctx, uri string) (*Metadata, error)
}

type Fetcher interface {
	FetchListings(c ctx.Ctx, session *domain.Session) Result
}

type ViewUseCase interface {
	Load(c ctx.Ctx, session *domain.Session) Result
	Refresh(c ctx.Ctx, session *domain.Session) Result
	Forget(address domain.Address)
	Summary(c ctx.Ctx) (*Summary, error)
}
